package response

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BernhardRuhm/OSUE-3-http/internal/headers"
)

const HttpVersion = "HTTP/1.1"

type StatusCode int

const (
	StatusOK             StatusCode = 200
	StatusBadRequest     StatusCode = 400
	StatusNotFound       StatusCode = 404
	StatusNotImplemented StatusCode = 501
)

func (c StatusCode) Reason() string {
	return http.StatusText(int(c))
}

// ErrProtocol marks a status line or header block that fails structural validation.
var ErrProtocol = errors.New("protocol error")

// RejectedError is a well-formed response whose status is not 200.
type RejectedError struct {
	Code   StatusCode
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("server responded with %d %s", e.Code, e.Reason)
}

type StatusLine struct {
	Version string
	Code    StatusCode
	Reason  string
}

func WriteStatusLine(w io.Writer, statusCode StatusCode) error {
	_, err := fmt.Fprintf(w, "%s %d %s\r\n", HttpVersion, statusCode, statusCode.Reason())
	return err
}

func GetDefaultHeaders(now time.Time, contentLen int64) headers.Headers {
	h := headers.NewHeaders()
	h.Set("Date", now.UTC().Format(http.TimeFormat))
	h.Set("Content-Length", strconv.FormatInt(contentLen, 10))
	h.Set("Connection", "close")
	return h
}

// WriteSuccess emits the 200 status line and header block and flushes. The
// caller streams the body afterwards.
func WriteSuccess(w *bufio.Writer, now time.Time, contentLen int64) error {
	if err := WriteStatusLine(w, StatusOK); err != nil {
		return err
	}
	if err := headers.Write(w, GetDefaultHeaders(now, contentLen)); err != nil {
		return err
	}
	return w.Flush()
}

// WriteError emits only the status line for code and flushes.
func WriteError(w *bufio.Writer, code StatusCode) error {
	if err := WriteStatusLine(w, code); err != nil {
		return err
	}
	return w.Flush()
}

// ParseStatusLine checks, in order, the version token, the token count and
// the numeric code. The reason may contain spaces.
func ParseStatusLine(line string) (StatusLine, error) {
	line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
	parts := strings.SplitN(line, " ", 3)
	if parts[0] != HttpVersion {
		return StatusLine{}, fmt.Errorf("%w: unsupported version %q", ErrProtocol, parts[0])
	}
	if len(parts) != 3 {
		return StatusLine{}, fmt.Errorf("%w: malformed status line %q", ErrProtocol, line)
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return StatusLine{}, fmt.Errorf("%w: non-numeric status %q", ErrProtocol, parts[1])
	}
	return StatusLine{Version: parts[0], Code: StatusCode(code), Reason: parts[2]}, nil
}

func ReadStatusLine(r *bufio.Reader) (StatusLine, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return StatusLine{}, fmt.Errorf("%w: read status line: %w", ErrProtocol, err)
	}
	return ParseStatusLine(line)
}

// Validate reads the status line and, for a 200 response, the header block,
// leaving r at the first body byte. Any other code is returned as a
// *RejectedError and nothing past the status line is read.
func Validate(r *bufio.Reader) (StatusLine, error) {
	sl, err := ReadStatusLine(r)
	if err != nil {
		return StatusLine{}, err
	}
	if sl.Code != StatusOK {
		return sl, &RejectedError{Code: sl.Code, Reason: sl.Reason}
	}
	if _, err := headers.Discard(r); err != nil {
		return sl, fmt.Errorf("%w: %w", ErrProtocol, err)
	}
	return sl, nil
}
