package headers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Terminator is the bare CRLF line that ends a header block.
const Terminator = "\r\n"

// ErrUnterminated is returned when the stream ends before the bare CRLF.
var ErrUnterminated = errors.New("header block not terminated")

// Field is a single header line. Keys are written exactly as given.
type Field struct {
	Key   string
	Value string
}

// Headers is an ordered header block as it is put on the wire.
type Headers []Field

func NewHeaders() Headers {
	return make(Headers, 0, 4)
}

// Set appends key unless it is already present, in which case the value is replaced in place.
func (h *Headers) Set(key, value string) {
	for i := range *h {
		if (*h)[i].Key == key {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Field{Key: key, Value: value})
}

// Write emits every field followed by the terminator.
func Write(w io.Writer, h Headers) error {
	for _, f := range h {
		if _, err := fmt.Fprintf(w, "%s: %s\r\n", f.Key, f.Value); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, Terminator)
	return err
}

// Discard consumes lines up to and including the first bare CRLF.
// Header contents are never interpreted. It returns the number of bytes consumed.
func Discard(r *bufio.Reader) (n int, err error) {
	return Scan(r, nil)
}

// Scan is Discard with a callback receiving every header line (CRLF included,
// terminator excluded). The callback must not retain the line.
func Scan(r *bufio.Reader, fn func(line string)) (n int, err error) {
	for {
		line, err := r.ReadString('\n')
		n += len(line)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, ErrUnterminated
			}
			return n, err
		}
		if line == Terminator {
			return n, nil
		}
		if fn != nil {
			fn(line)
		}
	}
}
