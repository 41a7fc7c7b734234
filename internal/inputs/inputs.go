// Package inputs turns command-line arguments into the ordered list of PNG
// paths handed to the imaging pipeline.
package inputs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects how files discovered in a directory are ordered.
type SortMode string

const (
	SortLexical SortMode = "lexical" // collation order: frame10 < frame2
	SortNatural SortMode = "natural" // digit runs compare numerically: frame2 < frame10
)

// ErrNoInputs is returned when no usable PNG file remains.
var ErrNoInputs = errors.New("no valid PNG files provided")

// Options controls input resolution.
type Options struct {
	IgnoreInvalid bool     // skip non-PNG files instead of failing
	Sort          SortMode // directory ordering; empty means SortLexical
}

// InvalidFileError reports a file that is not a PNG.
type InvalidFileError struct {
	Path string
}

func (e *InvalidFileError) Error() string {
	return fmt.Sprintf("file %q is not a valid PNG file", e.Path)
}

// MixedInputError reports a directory given alongside other arguments.
type MixedInputError struct {
	Path string
}

func (e *MixedInputError) Error() string {
	return fmt.Sprintf("can not mix and match files and folders: %q is a directory", e.Path)
}

// MissingPathError reports an argument that cannot be accessed.
type MissingPathError struct {
	Path string
	Err  error
}

func (e *MissingPathError) Error() string {
	return fmt.Sprintf("could not access %q: %v", e.Path, e.Err)
}

func (e *MissingPathError) Unwrap() error {
	return e.Err
}

// Resolve expands args into an ordered list of PNG paths.
//
// A single directory argument is replaced by the regular files it contains,
// ordered by opts.Sort. Otherwise every argument must be a regular file and
// argument order is kept.
func Resolve(args []string, opts Options) ([]string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, &MissingPathError{Path: args[0], Err: err}
		}
		if info.IsDir() {
			return resolveDir(args[0], opts)
		}
	}

	files := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, &MissingPathError{Path: arg, Err: err}
		}
		if info.IsDir() {
			return nil, &MixedInputError{Path: arg}
		}
		if !info.Mode().IsRegular() || !IsPNGName(arg) {
			if opts.IgnoreInvalid {
				continue
			}
			return nil, &InvalidFileError{Path: arg}
		}
		files = append(files, arg)
	}

	if len(files) == 0 {
		return nil, ErrNoInputs
	}
	return files, nil
}

func resolveDir(dir string, opts Options) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read directory %q", dir)
	}

	var names []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		// Stat rather than e.Info so symlinked frames are followed.
		info, err := os.Stat(path)
		if err != nil {
			return nil, &MissingPathError{Path: path, Err: err}
		}
		if info.IsDir() {
			continue
		}
		if !info.Mode().IsRegular() || !IsPNGName(e.Name()) {
			if opts.IgnoreInvalid {
				continue
			}
			return nil, &InvalidFileError{Path: path}
		}
		names = append(names, e.Name())
	}

	if len(names) == 0 {
		return nil, ErrNoInputs
	}

	collatorFor(opts.Sort).SortStrings(names)

	files := make([]string, len(names))
	for i, name := range names {
		files[i] = filepath.Join(dir, name)
	}
	return files, nil
}

func collatorFor(mode SortMode) *collate.Collator {
	if mode == SortNatural {
		return collate.New(language.Und, collate.Numeric)
	}
	return collate.New(language.Und)
}

// IsPNGName reports whether path has a .png extension (any case).
func IsPNGName(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".png")
}

// ParseSortMode validates a sort mode name.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case SortLexical, SortNatural:
		return SortMode(s), nil
	case "":
		return SortLexical, nil
	default:
		return "", fmt.Errorf("invalid sort mode %q (use %q or %q)", s, SortLexical, SortNatural)
	}
}
