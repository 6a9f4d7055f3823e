// Package docroot maps request targets onto files below a document root.
//
// Targets are joined to the root verbatim. Dot-dot segments and duplicate
// slashes are not cleaned, so a target can name files outside the root.
package docroot

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const DefaultIndex = "index.html"

var ErrNotFound = errors.New("not found")

// Root is immutable once built.
type Root struct {
	Dir   string
	Index string
}

func New(dir, index string) Root {
	if index == "" {
		index = DefaultIndex
	}
	return Root{Dir: dir, Index: index}
}

// Verify checks that the document root itself can be opened.
func (r Root) Verify() error {
	f, err := os.Open(r.Dir)
	if err != nil {
		return fmt.Errorf("document root: %w", err)
	}
	return f.Close()
}

// Resolve concatenates the root and target and appends the index filename
// when the result is empty or names a directory.
func (r Root) Resolve(target string) string {
	path := r.Dir + target
	if path == "" || strings.HasSuffix(path, "/") {
		path += r.Index
	}
	return path
}

// Open resolves target and opens it for reading. Every failure, including
// targets that are not regular files, is reported as ErrNotFound.
func (r Root) Open(target string) (*os.File, error) {
	path := r.Resolve(target)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, path)
	}
	return f, nil
}
