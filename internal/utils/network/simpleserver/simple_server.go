// Package simpleserver runs a minimal line-oriented server on a unix domain
// socket.  It answers the way HAProxy's admin socket does in non-interactive
// mode: read one command line, write the response, close the connection.
package simpleserver

import (
	"bufio"
	"net"
	"os"
	"strings"
	"sync/atomic"
)

// Run creates and runs a server on the unix socket at path that calls handler
// with each received command (without the trailing newline) and writes back
// whatever it returns.  Returns a function that stops the server.
func Run(path string, handler func(command string) string, errs func(error)) (func(), error) {
	var closed int32
	os.Remove(path)

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if atomic.LoadInt32(&closed) > 0 {
				return
			}
			if err != nil {
				errs(err)
				continue
			}
			serve(conn, handler, errs)
		}
	}()

	return func() {
		atomic.StoreInt32(&closed, 1)
		listener.Close()
	}, nil
}

func serve(conn net.Conn, handler func(string) string, errs func(error)) {
	defer conn.Close()

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		errs(err)
		return
	}

	if _, err := conn.Write([]byte(handler(strings.TrimSuffix(line, "\n")))); err != nil {
		errs(err)
	}
}
