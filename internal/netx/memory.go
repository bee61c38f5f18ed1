package netx

import (
	"fmt"
	"net"
	"strconv"
	"sync"
)

const firstMemoryPort = 40000

// MemoryHub connects in-process networks to each other by port number; the
// host part of an address is ignored. Each hub is an isolated port space, so
// parallel tests do not collide.
type MemoryHub struct {
	mu        sync.Mutex
	listeners map[string]*memoryNetwork
	nextPort  int
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{
		listeners: make(map[string]*memoryNetwork),
		nextPort:  firstMemoryPort,
	}
}

// Network returns a fresh Network attached to the hub.
func (h *MemoryHub) Network() Network {
	return &memoryNetwork{hub: h}
}

type memoryNetwork struct {
	hub *MemoryHub

	mu      sync.Mutex
	port    string
	backlog chan Conn
	done    chan struct{}
}

func (m *memoryNetwork) Listen(bindAddr string) (Addr, error) {
	_, port, err := net.SplitHostPort(bindAddr)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrListen, bindAddr, err)
	}

	m.hub.mu.Lock()
	defer m.hub.mu.Unlock()

	if port == "0" {
		m.hub.nextPort++
		port = strconv.Itoa(m.hub.nextPort)
	}
	if _, taken := m.hub.listeners[port]; taken {
		return "", fmt.Errorf("%w: %s: address in use", ErrListen, bindAddr)
	}

	m.mu.Lock()
	m.port = port
	m.backlog = make(chan Conn, 16)
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.hub.listeners[port] = m
	return Addr(net.JoinHostPort("127.0.0.1", port)), nil
}

func (m *memoryNetwork) Accept() (Conn, error) {
	m.mu.Lock()
	backlog, done := m.backlog, m.done
	m.mu.Unlock()

	if backlog == nil {
		return nil, net.ErrClosed
	}
	select {
	case c := <-backlog:
		return c, nil
	case <-done:
		return nil, net.ErrClosed
	}
}

func (m *memoryNetwork) Dial(addr Addr) (Conn, error) {
	_, port, err := net.SplitHostPort(string(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDial, addr, err)
	}

	m.hub.mu.Lock()
	target, ok := m.hub.listeners[port]
	m.hub.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s: no listener", ErrDial, addr)
	}

	target.mu.Lock()
	backlog, done := target.backlog, target.done
	target.mu.Unlock()

	local, remote := net.Pipe()
	closed := func() (Conn, error) {
		_ = local.Close()
		_ = remote.Close()
		return nil, fmt.Errorf("%w: %s: listener closed", ErrDial, addr)
	}
	select {
	case backlog <- &memConn{Conn: remote, remote: "dialer"}:
	case <-done:
		return closed()
	}
	// Close may have drained the backlog before our send landed.
	select {
	case <-done:
		drainBacklog(backlog)
		return closed()
	default:
	}
	return &memConn{Conn: local, remote: addr}, nil
}

func (m *memoryNetwork) Close() error {
	m.mu.Lock()
	if m.done == nil {
		m.mu.Unlock()
		return nil
	}
	select {
	case <-m.done:
		m.mu.Unlock()
		return nil
	default:
		close(m.done)
	}
	port, backlog := m.port, m.backlog
	m.mu.Unlock()

	m.hub.mu.Lock()
	if m.hub.listeners[port] == m {
		delete(m.hub.listeners, port)
	}
	m.hub.mu.Unlock()

	drainBacklog(backlog)
	return nil
}

// drainBacklog closes dials that were never accepted; their dialers see EOF.
func drainBacklog(backlog chan Conn) {
	for {
		select {
		case c := <-backlog:
			_ = c.Close()
		default:
			return
		}
	}
}

type memConn struct {
	net.Conn
	remote Addr
}

func (c *memConn) RemoteAddr() Addr { return c.remote }

// Shutdown closes the pipe; in-memory pipes have no half-close.
func (c *memConn) Shutdown() error { return c.Conn.Close() }
