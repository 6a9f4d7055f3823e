package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"

	"github.com/BernhardRuhm/OSUE-3-http/internal/headers"
	"github.com/BernhardRuhm/OSUE-3-http/internal/request"
)

// tcplistener accepts a single connection and prints the request it received.
func main() {
	port := flag.String("p", "42069", "port to listen on")
	flag.Parse()

	lsnr, err := net.Listen("tcp", "127.0.0.1:"+*port)
	if err != nil {
		log.Fatalf("could not listen: %s", err)
	}
	defer lsnr.Close()

	conn, err := lsnr.Accept()
	if err != nil {
		log.Fatalf("could not accept: %s", err)
	}
	defer conn.Close()

	if err := printRequest(os.Stdout, conn); err != nil {
		log.Fatalf("could not read request: %s", err)
	}
}

// printRequest writes the request line and each raw header line read from r.
func printRequest(w io.Writer, r io.Reader) error {
	br := bufio.NewReader(r)
	rl, err := request.ReadRequestLine(br)
	if err != nil {
		return err
	}
	request.PrintRequestLine(w, rl)

	fmt.Fprintln(w, "Headers:")
	_, err = headers.Scan(br, func(line string) {
		fmt.Fprintf(w, "- %q\n", line)
	})
	return err
}
