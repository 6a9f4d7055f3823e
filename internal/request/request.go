package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	MethodGet   = "GET"
	HttpVersion = "HTTP/1.1"

	// versionLine is the exact remainder a request line must end with.
	versionLine = HttpVersion + "\r\n"
)

var (
	ErrUnreadableLine = errors.New("request line could not be read")
	ErrMalformedLine  = errors.New("malformed request line")
)

// RequestLine is the first line of a request. Version keeps the line ending
// as read, so "HTTP/1.1\r\n" is the only accepted value.
type RequestLine struct {
	Method        string
	RequestTarget string
	HttpVersion   string
}

// ValidVersion reports whether the version token is exactly HTTP/1.1 followed by CRLF.
func (rl RequestLine) ValidVersion() bool {
	return rl.HttpVersion == versionLine
}

func PrintRequestLine(w io.Writer, rl RequestLine) {
	fmt.Fprintln(w, "Request line:")
	fmt.Fprintln(w, "- Method: "+rl.Method)
	fmt.Fprintln(w, "- Target: "+rl.RequestTarget)
	fmt.Fprintf(w, "- Version: %q\n", rl.HttpVersion)
}

// ParseRequestLine splits a raw line into its three parts. The line must
// contain exactly two spaces, whatever the tokens look like.
func ParseRequestLine(line string) (RequestLine, error) {
	if strings.Count(line, " ") != 2 {
		return RequestLine{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	parts := strings.SplitN(line, " ", 3)
	return RequestLine{
		Method:        parts[0],
		RequestTarget: parts[1],
		HttpVersion:   parts[2],
	}, nil
}

// ReadRequestLine reads one line from r and parses it. A line that cannot be
// read in full is reported as ErrUnreadableLine, and the caller must not try
// to drain the header block.
func ReadRequestLine(r *bufio.Reader) (RequestLine, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return RequestLine{}, fmt.Errorf("%w: %w", ErrUnreadableLine, err)
	}
	return ParseRequestLine(line)
}

// Write sends a GET request for path on host and flushes it. path is given
// without its leading slash.
func Write(w io.Writer, host, path string) error {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	if _, err := fmt.Fprintf(bw, "%s /%s %s\r\nHost: %s\r\nConnection: close\r\n\r\n", MethodGet, path, HttpVersion, host); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}
