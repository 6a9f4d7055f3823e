// Package cli holds the option handling shared by the command line programs.
package cli

import (
	"errors"
	"io"
	"log/slog"
)

var ErrRepeated = errors.New("option given more than once")

// OnceString is a flag.Value that refuses to be set twice.
type OnceString struct {
	Value string
	set   bool
}

func (s *OnceString) String() string {
	if s == nil {
		return ""
	}
	return s.Value
}

func (s *OnceString) Set(value string) error {
	if s.set {
		return ErrRepeated
	}
	s.Value, s.set = value, true
	return nil
}

func (s *OnceString) IsSet() bool {
	return s.set
}

// NewLogger returns a text logger on w, at debug level when verbose.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
