// Package transfer moves a payload between streams one line at a time.
package transfer

import (
	"bufio"
	"errors"
	"io"
	"iter"
)

// Lines yields every line of r with its trailing '\n' kept. A final line
// without newline is yielded too. Lines grow without bound and are only valid
// until the next iteration. If r is already a *bufio.Reader it is used as is,
// so bytes it has buffered are not lost.
func Lines(r io.Reader) iter.Seq2[[]byte, error] {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return func(yield func([]byte, error) bool) {
		for {
			line, err := br.ReadBytes('\n')
			if len(line) > 0 {
				if !yield(line, nil) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					yield(nil, err)
				}
				return
			}
		}
	}
}

// Copy writes every line of src to dst unchanged until end of stream, then
// flushes dst. It returns the number of bytes written.
func Copy(dst io.Writer, src io.Reader) (int64, error) {
	bw, ok := dst.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(dst)
	}
	var written int64
	for line, err := range Lines(src) {
		if err != nil {
			bw.Flush()
			return written, err
		}
		n, err := bw.Write(line)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, bw.Flush()
}
