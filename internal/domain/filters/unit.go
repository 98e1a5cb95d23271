package filters

import (
	"fmt"
	"regexp"
	"strings"

	m "nfind.dev/pkg/nfind/internal/model"
)

// Extension keeps files whose full multi-part extension equals ext.
type Extension struct {
	ext string
}

// IncludeExtension keeps files with the given extension. A missing leading
// dot is added, so "nii.gz" and ".nii.gz" are equivalent.
func IncludeExtension(ext string) Extension {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return Extension{ext: ext}
}

// ExcludeExtension drops files with the given extension.
func ExcludeExtension(ext string) Filter {
	return Not(IncludeExtension(ext))
}

// Accept implements Filter.
func (e Extension) Accept(path m.Path) bool {
	return path.Ext() == e.ext
}

func (e Extension) String() string {
	return fmt.Sprintf("extension(%q)", e.ext)
}

// FileSuffix keeps files whose stem ends with a suffix.
type FileSuffix struct {
	suffix string
}

// IncludeFileSuffix keeps files whose name, without extension, ends with suffix.
func IncludeFileSuffix(suffix string) FileSuffix {
	return FileSuffix{suffix: suffix}
}

// ExcludeFileSuffix drops files whose name, without extension, ends with suffix.
func ExcludeFileSuffix(suffix string) Filter {
	return Not(IncludeFileSuffix(suffix))
}

// Accept implements Filter.
func (f FileSuffix) Accept(path m.Path) bool {
	return strings.HasSuffix(path.Stem(), f.suffix)
}

func (f FileSuffix) String() string {
	return fmt.Sprintf("file-suffix(%q)", f.suffix)
}

// FilePrefix keeps files whose stem starts with a prefix.
type FilePrefix struct {
	prefix string
}

// IncludeFilePrefix keeps files whose name, without extension, starts with prefix.
func IncludeFilePrefix(prefix string) FilePrefix {
	return FilePrefix{prefix: prefix}
}

// ExcludeFilePrefix drops files whose name, without extension, starts with prefix.
func ExcludeFilePrefix(prefix string) Filter {
	return Not(IncludeFilePrefix(prefix))
}

// Accept implements Filter.
func (f FilePrefix) Accept(path m.Path) bool {
	return strings.HasPrefix(path.Stem(), f.prefix)
}

func (f FilePrefix) String() string {
	return fmt.Sprintf("file-prefix(%q)", f.prefix)
}

// FileRegex keeps files whose name matches a regular expression anchored at
// the start of the name.
type FileRegex struct {
	expr string
	re   *regexp.Regexp
}

// IncludeFileRegex compiles expr and keeps files whose name matches it.
func IncludeFileRegex(expr string) (FileRegex, error) {
	re, err := compileAnchored(expr)
	if err != nil {
		return FileRegex{}, err
	}

	return FileRegex{expr: expr, re: re}, nil
}

// ExcludeFileRegex compiles expr and drops files whose name matches it.
func ExcludeFileRegex(expr string) (Filter, error) {
	f, err := IncludeFileRegex(expr)
	if err != nil {
		return nil, err
	}

	return Not(f), nil
}

// Accept implements Filter.
func (f FileRegex) Accept(path m.Path) bool {
	return f.re.MatchString(path.Name())
}

func (f FileRegex) String() string {
	return fmt.Sprintf("file-regex(%q)", f.expr)
}

// DirectorySuffix keeps paths with at least one ancestor directory whose
// name ends with a suffix.
type DirectorySuffix struct {
	suffix string
}

// IncludeDirectorySuffix keeps paths below a directory ending with suffix.
func IncludeDirectorySuffix(suffix string) DirectorySuffix {
	return DirectorySuffix{suffix: suffix}
}

// ExcludeDirectorySuffix drops paths below a directory ending with suffix.
func ExcludeDirectorySuffix(suffix string) Filter {
	return Not(IncludeDirectorySuffix(suffix))
}

// Accept implements Filter.
func (d DirectorySuffix) Accept(path m.Path) bool {
	return anyAncestor(path, func(name string) bool {
		return strings.HasSuffix(name, d.suffix)
	})
}

func (d DirectorySuffix) String() string {
	return fmt.Sprintf("dir-suffix(%q)", d.suffix)
}

// DirectoryPrefix keeps paths with at least one ancestor directory whose
// name starts with a prefix.
type DirectoryPrefix struct {
	prefix string
}

// IncludeDirectoryPrefix keeps paths below a directory starting with prefix.
func IncludeDirectoryPrefix(prefix string) DirectoryPrefix {
	return DirectoryPrefix{prefix: prefix}
}

// ExcludeDirectoryPrefix drops paths below a directory starting with prefix.
func ExcludeDirectoryPrefix(prefix string) Filter {
	return Not(IncludeDirectoryPrefix(prefix))
}

// Accept implements Filter.
func (d DirectoryPrefix) Accept(path m.Path) bool {
	return anyAncestor(path, func(name string) bool {
		return strings.HasPrefix(name, d.prefix)
	})
}

func (d DirectoryPrefix) String() string {
	return fmt.Sprintf("dir-prefix(%q)", d.prefix)
}

// DirectoryRegex keeps paths with at least one ancestor directory whose
// name matches a regular expression anchored at the start of the name.
type DirectoryRegex struct {
	expr string
	re   *regexp.Regexp
}

// IncludeDirectoryRegex compiles expr and keeps paths below a matching directory.
func IncludeDirectoryRegex(expr string) (DirectoryRegex, error) {
	re, err := compileAnchored(expr)
	if err != nil {
		return DirectoryRegex{}, err
	}

	return DirectoryRegex{expr: expr, re: re}, nil
}

// ExcludeDirectoryRegex compiles expr and drops paths below a matching directory.
func ExcludeDirectoryRegex(expr string) (Filter, error) {
	f, err := IncludeDirectoryRegex(expr)
	if err != nil {
		return nil, err
	}

	return Not(f), nil
}

// Accept implements Filter.
func (d DirectoryRegex) Accept(path m.Path) bool {
	return anyAncestor(path, d.re.MatchString)
}

func (d DirectoryRegex) String() string {
	return fmt.Sprintf("dir-regex(%q)", d.expr)
}

func anyAncestor(path m.Path, match func(name string) bool) bool {
	for _, name := range path.Ancestors() {
		if match(name) {
			return true
		}
	}

	return false
}

// compileAnchored compiles expr so that it only matches at the start of the
// input, without requiring a full match.
func compileAnchored(expr string) (*regexp.Regexp, error) {
	if _, err := regexp.Compile(expr); err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidRegex, expr, err)
	}

	return regexp.MustCompile(`^(?:` + expr + `)`), nil
}
