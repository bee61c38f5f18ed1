// Package netx is the byte-stream transport used by endpoints: a TCP
// implementation for real sockets and an in-process one for tests.
package netx

import (
	"errors"
	"io"
	"time"
)

type Addr string

var (
	// ErrListen wraps socket creation, bind and listen failures.
	ErrListen = errors.New("listen failed")
	// ErrDial wraps connect failures.
	ErrDial = errors.New("dial failed")
)

type Conn interface {
	io.ReadWriteCloser
	RemoteAddr() Addr
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	// Shutdown stops both directions of the stream without releasing it.
	Shutdown() error
}

type Network interface {
	Listen(bindAddr string) (listenAddr Addr, err error)
	Accept() (Conn, error)
	Dial(addr Addr) (Conn, error)
	Close() error
}
