package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BernhardRuhm/OSUE-3-http/internal/docroot"
)

const (
	Scheme = "http://"

	// delimiters end the host part of a URL.
	delimiters = ";/?:@=&"
)

var (
	ErrMissingScheme = errors.New("url must start with " + Scheme)
	ErrMalformedURL  = errors.New("malformed url")
)

// Target is a URL split into the host to connect to and the request path
// without its leading slash.
type Target struct {
	Host string
	Path string
}

func CheckScheme(raw string) error {
	if !strings.HasPrefix(raw, Scheme) {
		return fmt.Errorf("%w: %q", ErrMissingScheme, raw)
	}
	return nil
}

// SplitURL splits raw, which must start with http://, at the first delimiter
// after the host. The delimiter itself is dropped and the rest is kept as is,
// so "http://h:8080/x" yields host "h" and path "8080/x".
func SplitURL(raw string) (Target, error) {
	rest := strings.TrimPrefix(raw, Scheme)
	host, path := rest, ""
	if i := strings.IndexAny(rest, delimiters); i >= 0 {
		host, path = rest[:i], rest[i+1:]
	}
	if host == "" {
		return Target{}, fmt.Errorf("%w: empty host in %q", ErrMalformedURL, raw)
	}
	return Target{Host: host, Path: path}, nil
}

// OutputName picks the file name used when saving path into a directory.
func OutputName(path string) string {
	if path == "" || strings.HasSuffix(path, "/") {
		return docroot.DefaultIndex
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
