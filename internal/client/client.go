package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/BernhardRuhm/OSUE-3-http/internal/request"
	"github.com/BernhardRuhm/OSUE-3-http/internal/response"
	"github.com/BernhardRuhm/OSUE-3-http/internal/transfer"
)

const DefaultPort = "80"

type Config struct {
	// Port overrides the default port 80.
	Port   string
	Logger *slog.Logger
	Dialer *net.Dialer
}

type Client struct {
	port   string
	logger *slog.Logger
	dialer *net.Dialer
}

func New(cfg Config) *Client {
	c := &Client{port: cfg.Port, logger: cfg.Logger, dialer: cfg.Dialer}
	if c.port == "" {
		c.port = DefaultPort
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.dialer == nil {
		c.dialer = &net.Dialer{}
	}
	return c
}

// Get fetches rawURL and streams the body into dst. Non-200 responses come
// back as *response.RejectedError, malformed ones wrap response.ErrProtocol.
// Cancelling ctx closes the connection, unblocking any pending read or write.
// Nothing is retried.
func (c *Client) Get(ctx context.Context, rawURL string, dst io.Writer) (int64, error) {
	if err := CheckScheme(rawURL); err != nil {
		return 0, err
	}
	target, err := SplitURL(rawURL)
	if err != nil {
		return 0, err
	}

	addr := net.JoinHostPort(target.Host, c.port)
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("connect to %s: %w", addr, err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()
	c.logger.Debug("connected", "addr", addr, "path", "/"+target.Path)

	if err := request.Write(conn, target.Host, target.Path); err != nil {
		return 0, interrupted(ctx, err)
	}

	br := bufio.NewReader(conn)
	sl, err := response.Validate(br)
	if err != nil {
		return 0, interrupted(ctx, err)
	}
	c.logger.Debug("response accepted", "status", int(sl.Code), "reason", sl.Reason)

	n, err := transfer.Copy(dst, br)
	if err != nil {
		return n, interrupted(ctx, fmt.Errorf("transfer body: %w", err))
	}
	return n, nil
}

// interrupted reports a cancelled ctx instead of the I/O error caused by
// closing the connection underneath a blocked read or write.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("request interrupted: %w", context.Cause(ctx))
	}
	return err
}
