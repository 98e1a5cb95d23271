package filters

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseSpec(t *testing.T) {
	cases := []struct {
		expr string
		want Spec
	}{
		{"extension=.nii.gz", Spec{Kind: KindExtension, Value: ".nii.gz"}},
		{"!dir-prefix=ses-", Spec{Kind: KindDirPrefix, Value: "ses-", Exclude: true}},
		{" File-Regex=^sub-(01|02)=x ", Spec{Kind: KindFileRegex, Value: "^sub-(01|02)=x"}},
		{
			"exists=*seg*;in={self}../labels",
			Spec{Kind: KindExists, Value: "*seg*", SearchIn: "{self}../labels"},
		},
		{
			"!exists={self};in=/labels{self};relative-to=/data",
			Spec{Kind: KindExists, Value: "{self}", SearchIn: "/labels{self}", RelativeTo: "/data", Exclude: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ParseSpec(tc.expr)
			if err != nil {
				t.Fatalf("ParseSpec: %v", err)
			}

			if got.Kind != tc.want.Kind || got.Value != tc.want.Value || got.Exclude != tc.want.Exclude ||
				got.SearchIn != tc.want.SearchIn || got.RelativeTo != tc.want.RelativeTo {
				t.Errorf("ParseSpec = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseSpecErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"extension",
		"=nii",
		"all=x",
		"extension=nii;in=/x",
		"exists=*;bogus=1",
		"exists=*;in",
	} {
		if _, err := ParseSpec(expr); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("ParseSpec(%q): expected ErrInvalidSpec, got %v", expr, err)
		}
	}
}

func TestSpecBuild(t *testing.T) {
	cases := []struct {
		name     string
		spec     Spec
		expected []bool
	}{
		{"extension", Spec{Kind: KindExtension, Value: "nii.gz"}, []bool{false, true, true, true, true, true, true}},
		{"exclude file prefix", Spec{Kind: KindFilePrefix, Value: "prefix_file6", Exclude: true}, []bool{true, true, true, true, true, true, false}},
		{"file suffix", Spec{Kind: KindFileSuffix, Value: "suffix"}, []bool{false, false, true, false, false, false, false}},
		{"file regex", Spec{Kind: KindFileRegex, Value: "prefix_.*", Exclude: true}, []bool{true, true, true, false, true, true, false}},
		{"dir suffix", Spec{Kind: KindDirSuffix, Value: "suffix"}, []bool{false, false, false, false, false, true, false}},
		{"dir prefix", Spec{Kind: KindDirPrefix, Value: "prefix"}, []bool{false, false, false, false, false, false, true}},
		{"dir regex", Spec{Kind: KindDirRegex, Value: ".*suffix*"}, []bool{false, false, false, false, false, true, false}},
		{"exists", Spec{Kind: KindExists, Value: "*.txt"}, []bool{true, true, true, true, true, false, false}},
		{
			name: "nested groups",
			spec: Spec{Kind: KindAll, Filters: []Spec{
				{Kind: KindExtension, Value: "nii.gz"},
				{Kind: KindAny, Filters: []Spec{
					{Kind: KindFilePrefix, Value: "prefix"},
					{Kind: KindFileSuffix, Value: "suffix"},
				}},
			}},
			expected: []bool{false, false, true, true, false, false, true},
		},
	}

	fsys := fixtureFS(t)

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := tc.spec.Build(fsys)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			assertFilter(t, f, tc.expected)
		})
	}
}

func TestSpecBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		spec Spec
		want error
	}{
		{"unknown kind", Spec{Kind: "size", Value: "1"}, ErrInvalidSpec},
		{"missing value", Spec{Kind: KindExtension}, ErrInvalidSpec},
		{"bad regex", Spec{Kind: KindFileRegex, Value: "("}, ErrInvalidRegex},
		{"bad child", Spec{Kind: KindAny, Filters: []Spec{{Kind: KindDirRegex, Value: "["}}}, ErrInvalidRegex},
		{"mirror without root", Spec{Kind: KindExists, Value: "*", SearchIn: "/labels{self}"}, ErrInvalidLocation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.spec.Build(memFS(t)); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSpecFromYAML(t *testing.T) {
	doc := `
- kind: extension
  value: nii.gz
- kind: dir-prefix
  value: prefix
  exclude: true
- kind: exists
  value: "{self}"
  search_in: "/labels{self}"
  relative_to: /ds
`

	var specs []Spec
	if err := yaml.Unmarshal([]byte(doc), &specs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	built, err := BuildAll(specs, memFS(t))
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}

	if len(built) != 3 {
		t.Fatalf("expected 3 filters, got %d", len(built))
	}

	want := `exists("{self}", in="/labels{self}", relative-to="/ds")`
	if got := describe(built[2]); got != want {
		t.Errorf("describe = %s, want %s", got, want)
	}

	if _, err := BuildAll([]Spec{{Kind: KindExtension, Value: "nii"}, {Kind: "bogus", Value: "x"}}, nil); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}
}
