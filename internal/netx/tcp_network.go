package netx

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// TCPOptions tunes the TCP network. Zero values keep the blocking
// behaviour of plain sockets.
type TCPOptions struct {
	DialTimeout time.Duration // 0 blocks until the kernel gives up
	ReuseAddr   bool          // set SO_REUSEADDR on listeners
}

type tcpNetwork struct {
	opts TCPOptions

	mu       sync.Mutex
	listener net.Listener
}

func NewTCPNetwork(opts TCPOptions) Network {
	return &tcpNetwork{opts: opts}
}

func (t *tcpNetwork) Listen(bindAddr string) (Addr, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	lc := net.ListenConfig{}
	if t.opts.ReuseAddr {
		lc.Control = reuseAddrControl
	}
	l, err := lc.Listen(context.Background(), "tcp", bindAddr)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrListen, bindAddr, err)
	}
	t.listener = l
	return Addr(l.Addr().String()), nil
}

func (t *tcpNetwork) Accept() (Conn, error) {
	t.mu.Lock()
	l := t.listener
	t.mu.Unlock()

	if l == nil {
		return nil, net.ErrClosed
	}
	c, err := l.Accept()
	if err != nil {
		return nil, err
	}
	return &tcpConn{Conn: c}, nil
}

func (t *tcpNetwork) Dial(addr Addr) (Conn, error) {
	d := net.Dialer{Timeout: t.opts.DialTimeout}
	c, err := d.Dial("tcp", string(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDial, addr, err)
	}
	return &tcpConn{Conn: c}, nil
}

func (t *tcpNetwork) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listener != nil {
		err := t.listener.Close()
		t.listener = nil
		return err
	}
	return nil
}

type tcpConn struct {
	net.Conn
}

func (c *tcpConn) RemoteAddr() Addr {
	return Addr(c.Conn.RemoteAddr().String())
}

func (c *tcpConn) Shutdown() error {
	return shutdownBoth(c.Conn)
}
