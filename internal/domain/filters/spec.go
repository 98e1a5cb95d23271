package filters

import (
	"fmt"
	"strings"

	"nfind.dev/pkg/nfind/internal/adapter"
	m "nfind.dev/pkg/nfind/internal/model"
)

// Rule kinds understood by Spec.
const (
	KindExtension  = "extension"
	KindFilePrefix = "file-prefix"
	KindFileSuffix = "file-suffix"
	KindFileRegex  = "file-regex"
	KindDirPrefix  = "dir-prefix"
	KindDirSuffix  = "dir-suffix"
	KindDirRegex   = "dir-regex"
	KindExists     = "exists"
	KindAll        = "all"
	KindAny        = "any"
)

// Spec is the declarative form of a filter, as read from nfind.yaml or the
// --filter flag.
type Spec struct {
	Kind       string `mapstructure:"kind" yaml:"kind"`
	Value      string `mapstructure:"value" yaml:"value,omitempty"`
	Exclude    bool   `mapstructure:"exclude" yaml:"exclude,omitempty"`
	SearchIn   string `mapstructure:"search_in" yaml:"search_in,omitempty"`
	RelativeTo string `mapstructure:"relative_to" yaml:"relative_to,omitempty"`
	Filters    []Spec `mapstructure:"filters" yaml:"filters,omitempty"`
}

// ParseSpec parses the compact rule syntax used on the command line:
//
//	extension=.nii.gz
//	!dir-prefix=ses-
//	exists=*seg*;in={self}../labels
//	exists={self};in=/labels{self};relative-to=/data
func ParseSpec(expr string) (Spec, error) {
	var spec Spec

	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "!"); ok {
		spec.Exclude = true
		expr = strings.TrimSpace(rest)
	}

	parts := strings.Split(expr, ";")

	kind, value, ok := strings.Cut(parts[0], "=")
	if !ok || strings.TrimSpace(kind) == "" {
		return Spec{}, fmt.Errorf("%w: expected kind=value, got %q", ErrInvalidSpec, parts[0])
	}

	spec.Kind = strings.ToLower(strings.TrimSpace(kind))
	spec.Value = value

	for _, part := range parts[1:] {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			return Spec{}, fmt.Errorf("%w: expected key=value option, got %q", ErrInvalidSpec, part)
		}

		switch strings.TrimSpace(key) {
		case "in":
			spec.SearchIn = val
		case "relative-to":
			spec.RelativeTo = val
		default:
			return Spec{}, fmt.Errorf("%w: unknown option %q", ErrInvalidSpec, key)
		}
	}

	if spec.Kind == KindAll || spec.Kind == KindAny {
		return Spec{}, fmt.Errorf("%w: %s groups cannot be written inline", ErrInvalidSpec, spec.Kind)
	}

	if (spec.SearchIn != "" || spec.RelativeTo != "") && spec.Kind != KindExists {
		return Spec{}, fmt.Errorf("%w: options are only valid for %s rules", ErrInvalidSpec, KindExists)
	}

	return spec, nil
}

// Build compiles the rule into a Filter. fs is used by exists rules; nil
// selects the local filesystem.
func (s Spec) Build(fs adapter.FSAdapter) (Filter, error) {
	f, err := s.build(fs)
	if err != nil {
		return nil, err
	}

	if s.Exclude {
		return Not(f), nil
	}

	return f, nil
}

func (s Spec) build(fs adapter.FSAdapter) (Filter, error) {
	if s.Kind != KindAll && s.Kind != KindAny && s.Value == "" {
		return nil, fmt.Errorf("%w: %s rule needs a value", ErrInvalidSpec, s.Kind)
	}

	switch s.Kind {
	case KindExtension:
		return IncludeExtension(s.Value), nil
	case KindFilePrefix:
		return IncludeFilePrefix(s.Value), nil
	case KindFileSuffix:
		return IncludeFileSuffix(s.Value), nil
	case KindFileRegex:
		return IncludeFileRegex(s.Value)
	case KindDirPrefix:
		return IncludeDirectoryPrefix(s.Value), nil
	case KindDirSuffix:
		return IncludeDirectorySuffix(s.Value), nil
	case KindDirRegex:
		return IncludeDirectoryRegex(s.Value)
	case KindExists:
		opts := []CoLocationOption{WithFS(fs)}
		if s.SearchIn != "" {
			opts = append(opts, SearchIn(s.SearchIn))
		}

		if s.RelativeTo != "" {
			root, err := m.Path(s.RelativeTo).Resolve()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
			}

			opts = append(opts, MirrorRelativeTo(root))
		}

		c, err := IncludeIfFileExists(s.Value, opts...)
		if err != nil {
			return nil, err
		}

		return c, nil
	case KindAll, KindAny:
		children := make([]Filter, 0, len(s.Filters))

		for i, child := range s.Filters {
			f, err := child.Build(fs)
			if err != nil {
				return nil, fmt.Errorf("%s rule #%d: %w", s.Kind, i, err)
			}

			children = append(children, f)
		}

		if s.Kind == KindAll {
			return All(children...)
		}

		return Any(children...)
	}

	return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, s.Kind)
}

// BuildAll compiles every rule, stopping at the first failure.
func BuildAll(specs []Spec, fs adapter.FSAdapter) ([]Filter, error) {
	built := make([]Filter, 0, len(specs))

	for i, spec := range specs {
		f, err := spec.Build(fs)
		if err != nil {
			return nil, fmt.Errorf("filter rule #%d: %w", i, err)
		}

		built = append(built, f)
	}

	return built, nil
}
