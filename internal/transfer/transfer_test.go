package transfer

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	var got []string
	for line, err := range Lines(strings.NewReader("one\r\ntwo\n\nlast")) {
		require.NoError(t, err)
		got = append(got, string(line))
	}
	assert.Equal(t, []string{"one\r\n", "two\n", "\n", "last"}, got)
}

func TestLinesStopEarly(t *testing.T) {
	count := 0
	for range Lines(strings.NewReader("a\nb\nc\n")) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestLinesReusesBufferedReader(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("status\nbody\n"))
	_, err := br.ReadString('\n')
	require.NoError(t, err)

	var got []string
	for line, err := range Lines(br) {
		require.NoError(t, err)
		got = append(got, string(line))
	}
	assert.Equal(t, []string{"body\n"}, got)
}

func TestCopy(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"single line", "hello\n"},
		{"no trailing newline", "hello\nworld"},
		{"crlf", "a\r\nb\r\n\r\n"},
		{"binary", "\x00\x01\xff\n\x00"},
		{"long line", strings.Repeat("x", 1<<17) + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			n, err := Copy(&out, strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.in)), n)
			assert.Equal(t, tt.in, out.String())
		})
	}
}

func TestCopyFlushesBufferedWriter(t *testing.T) {
	var out bytes.Buffer
	bw := bufio.NewWriter(&out)
	_, err := Copy(bw, strings.NewReader("x\ny\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, bw.Buffered())
	assert.Equal(t, "x\ny\n", out.String())
}

func TestCopyReadError(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	_, err := Copy(&out, iotest.ErrReader(boom))
	require.ErrorIs(t, err, boom)
}
