package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/BernhardRuhm/OSUE-3-http/internal/cli"
	"github.com/BernhardRuhm/OSUE-3-http/internal/client"
	"github.com/BernhardRuhm/OSUE-3-http/internal/response"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitProtocol = 2
	exitRejected = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	prog := filepath.Base(args[0])
	usage := func() int {
		fmt.Fprintf(stderr, "usage %s: %s [-p PORT] [ -o FILE | -d DIR ] URL\n", prog, prog)
		return exitFailure
	}

	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var port, file, dir cli.OnceString
	fs.Var(&port, "p", "port to connect to (default 80)")
	fs.Var(&file, "o", "write the body to FILE")
	fs.Var(&dir, "d", "write the body into DIR")
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args[1:]); err != nil {
		return usage()
	}
	if file.IsSet() && dir.IsSet() || fs.NArg() != 1 {
		return usage()
	}
	logger := cli.NewLogger(stderr, *verbose)

	rawURL := fs.Arg(0)
	if err := client.CheckScheme(rawURL); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return exitFailure
	}
	target, err := client.SplitURL(rawURL)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", prog, err)
		return exitFailure
	}

	out := stdout
	outPath := file.Value
	if dir.IsSet() {
		outPath = filepath.Join(dir.Value, client.OutputName(target.Path))
	}
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", prog, err)
			return exitFailure
		}
		defer f.Close()
		out = f
	}

	c := client.New(client.Config{Port: port.Value, Logger: logger})
	n, err := c.Get(ctx, rawURL, out)
	if err != nil {
		var rejected *response.RejectedError
		switch {
		case errors.As(err, &rejected):
			fmt.Fprintf(stderr, "%d %s\n", rejected.Code, rejected.Reason)
			return exitRejected
		case errors.Is(err, response.ErrProtocol):
			fmt.Fprintf(stderr, "%s: %v\n", prog, err)
			return exitProtocol
		default:
			fmt.Fprintf(stderr, "%s: %v\n", prog, err)
			return exitFailure
		}
	}
	logger.Debug("body written", "bytes", n, "output", outPath)
	return exitOK
}
