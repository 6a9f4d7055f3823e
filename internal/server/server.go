package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BernhardRuhm/OSUE-3-http/internal/docroot"
	"github.com/BernhardRuhm/OSUE-3-http/internal/headers"
	"github.com/BernhardRuhm/OSUE-3-http/internal/request"
	"github.com/BernhardRuhm/OSUE-3-http/internal/response"
	"github.com/BernhardRuhm/OSUE-3-http/internal/transfer"
)

const DefaultPort = "8080"

type Config struct {
	// Addr is the listen address, ":8080" when empty.
	Addr   string
	Root   docroot.Root
	Logger *slog.Logger
	// Now stamps the Date header. Defaults to time.Now.
	Now func() time.Time
}

// Server handles one connection at a time.
type Server struct {
	listener net.Listener
	closed   atomic.Bool
	root     docroot.Root
	logger   *slog.Logger
	now      func() time.Time
}

// Outcome is what the server decided for a request before any body is sent.
// File is set only for a 200 outcome and is owned by the caller.
type Outcome struct {
	Code   response.StatusCode
	Target string
	File   *os.File
	Size   int64
}

func (o Outcome) Success() bool {
	return o.Code == response.StatusOK
}

func (o Outcome) ClientError() bool {
	return o.Code >= 400 && o.Code < 500
}

func (o Outcome) ServerError() bool {
	return o.Code >= 500
}

// Listen binds the listening socket. Nothing is accepted until Serve runs.
func Listen(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = ":" + DefaultPort
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	lc := listenConfig()
	listener, err := lc.Listen(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	return &Server{
		listener: listener,
		root:     cfg.Root,
		logger:   cfg.Logger,
		now:      cfg.Now,
	}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Close stops the accept loop. A blocked Accept returns immediately.
func (s *Server) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.listener.Close()
}

// Serve runs the accept loop until ctx is cancelled or Close is called, in
// which case it returns nil. Accept failures and local I/O failures end the
// loop with an error. Client mistakes never do.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		return s.Close()
	})
	g.Go(func() error {
		defer cancel()
		return s.listen()
	})
	return g.Wait()
}

func (s *Server) listen() error {
	s.logger.Info("server listening", "addr", s.Addr().String(), "root", s.root.Dir, "index", s.root.Index)
	for {
		if s.closed.Load() {
			return nil
		}
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				// Listener is closed, exit the loop without logging an error
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		if err := s.handle(conn); err != nil {
			return err
		}
	}
}

func (s *Server) handle(conn net.Conn) error {
	defer conn.Close()
	log := s.logger.With("remote", conn.RemoteAddr().String())

	br := bufio.NewReader(conn)
	bw := bufio.NewWriter(conn)

	out, err := s.decide(br, log)
	if err != nil {
		return err
	}
	if !out.Success() {
		switch {
		case out.ServerError():
			log.Warn("request not supported", "target", out.Target, "status", int(out.Code))
		case out.ClientError():
			log.Info("request rejected", "target", out.Target, "status", int(out.Code))
		}
		if err := response.WriteError(bw, out.Code); err != nil {
			log.Warn("could not write response", "error", err)
		}
		return nil
	}
	defer out.File.Close()

	if err := response.WriteSuccess(bw, s.now(), out.Size); err != nil {
		log.Warn("could not write response", "error", err)
		return nil
	}
	n, err := transfer.Copy(bw, out.File)
	if err != nil {
		log.Warn("body transfer failed", "target", out.Target, "bytes", n, "error", err)
		return nil
	}
	log.Info("request served", "target", out.Target, "status", int(out.Code), "bytes", n)
	return nil
}

// decide reads the request line and header block and picks the response.
// The returned error is reserved for failures that must stop the server.
func (s *Server) decide(br *bufio.Reader, log *slog.Logger) (Outcome, error) {
	rl, err := request.ReadRequestLine(br)
	if err != nil {
		log.Debug("bad request line", "error", err)
		if !errors.Is(err, request.ErrUnreadableLine) {
			drain(br, log)
		}
		return Outcome{Code: response.StatusBadRequest}, nil
	}
	out := Outcome{Target: rl.RequestTarget}

	if rl.Method != request.MethodGet {
		drain(br, log)
		out.Code = response.StatusNotImplemented
		return out, nil
	}

	f, err := s.root.Open(rl.RequestTarget)
	if err != nil {
		log.Debug("cannot open target", "error", err)
		drain(br, log)
		out.Code = response.StatusNotFound
		return out, nil
	}

	if !rl.ValidVersion() {
		drain(br, log)
		f.Close()
		out.Code = response.StatusBadRequest
		return out, nil
	}

	drain(br, log)
	size, err := fileSize(f)
	if err != nil {
		f.Close()
		return Outcome{}, fmt.Errorf("size of %s: %w", s.root.Resolve(rl.RequestTarget), err)
	}
	out.Code = response.StatusOK
	out.File = f
	out.Size = size
	return out, nil
}

func drain(br *bufio.Reader, log *slog.Logger) {
	if _, err := headers.Discard(br); err != nil {
		log.Debug("header block not drained", "error", err)
	}
}

func fileSize(f io.Seeker) (int64, error) {
	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
