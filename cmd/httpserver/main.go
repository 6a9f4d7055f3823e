package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/BernhardRuhm/OSUE-3-http/internal/cli"
	"github.com/BernhardRuhm/OSUE-3-http/internal/docroot"
	"github.com/BernhardRuhm/OSUE-3-http/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	prog := filepath.Base(args[0])
	usage := func() int {
		fmt.Fprintf(stderr, "usage %s: %s [-p PORT] [-i INDEX] DOC_ROOT\n", prog, prog)
		return 1
	}

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var port, index cli.OnceString
	fs.Var(&port, "p", "port to listen on (default 8080)")
	fs.Var(&index, "i", "index file served for directories (default index.html)")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 1 {
		return usage()
	}
	if !port.IsSet() {
		port.Value = server.DefaultPort
	}
	logger := cli.NewLogger(stderr, *verbose)

	root := docroot.New(fs.Arg(0), index.Value)
	if err := root.Verify(); err != nil {
		logger.Error("cannot serve", "error", err)
		return 1
	}

	srv, err := server.Listen(ctx, server.Config{
		Addr:   ":" + port.Value,
		Root:   root,
		Logger: logger,
	})
	if err != nil {
		logger.Error("Error starting server", "error", err)
		return 1
	}
	if err := srv.Serve(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	logger.Info("Server gracefully stopped")
	return 0
}
