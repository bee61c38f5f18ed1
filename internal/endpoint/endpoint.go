// Package endpoint implements a host/client text messaging endpoint over a
// byte stream. A host accepts any number of peers and broadcasts to all of
// them; a client is attached to exactly one host. Inbound messages are
// queued by per-connection receive loops and drained with Poll.
package endpoint

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"lobbynet/internal/netx"
	"lobbynet/internal/wire"
)

var (
	// ErrAlreadyStarted is returned by Start on anything but an idle endpoint.
	ErrAlreadyStarted = errors.New("endpoint already started")
	// ErrBadPort is returned by Start for ports outside 0-65535.
	ErrBadPort = errors.New("port out of range")
)

type Role int

const (
	Host Role = iota
	Client
)

func (r Role) String() string {
	if r == Host {
		return "host"
	}
	return "client"
}

// Logger is satisfied by *log.Logger.
type Logger interface {
	Printf(format string, args ...any)
}

type Config struct {
	Role         Role          // fixed for the endpoint's lifetime
	Network      netx.Network  // transport; nil means TCP
	Framing      wire.Mode     // message framing on the wire
	BufferSize   int           // receive buffer in bytes
	DialTimeout  time.Duration // 0 blocks indefinitely
	ReadTimeout  time.Duration // idle time before a peer is dropped; 0 disables
	WriteTimeout time.Duration // per-write deadline; 0 disables
	Logger       Logger        // errors always go here; chatter only with Debug
	Debug        bool
}

// DefaultConfig mirrors the classic behaviour: raw framing, 1 KiB reads and
// no timeouts anywhere.
func DefaultConfig(role Role) Config {
	return Config{
		Role:       role,
		Framing:    wire.Raw,
		BufferSize: wire.DefaultBufferSize,
	}
}

// PeerSnapshot is a read-only view of a live connection.
type PeerSnapshot struct {
	ID   string
	Addr string
}

type Endpoint struct {
	cfg    Config
	framer wire.Framer
	state  atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// lifeMu serialises Start and Shutdown.
	lifeMu   sync.Mutex
	stopOnce sync.Once

	mu        sync.Mutex
	addr      netx.Addr
	client    *peer
	listening bool

	peers  *registry
	inbox  *inboundQueue
	events chan Event
}

func New(cfg Config) *Endpoint {
	if cfg.Logger == nil {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = wire.DefaultBufferSize
	}
	if cfg.Network == nil {
		cfg.Network = netx.NewTCPNetwork(netx.TCPOptions{
			DialTimeout: cfg.DialTimeout,
			ReuseAddr:   true,
		})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Endpoint{
		cfg:    cfg,
		framer: wire.For(cfg.Framing),
		ctx:    ctx,
		cancel: cancel,
		peers:  &registry{},
		inbox:  &inboundQueue{},
		events: make(chan Event, 128),
	}
}

func (e *Endpoint) Role() Role { return e.cfg.Role }

func (e *Endpoint) State() State { return State(e.state.Load()) }

// Addr returns the bound listen address for a host and the remote address
// for a client. It is empty until Start succeeds.
func (e *Endpoint) Addr() netx.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addr
}

// Events returns a channel of connection events. Events are dropped when
// nobody drains it.
func (e *Endpoint) Events() <-chan Event { return e.events }

// Poll removes and returns the oldest queued message.
func (e *Endpoint) Poll() (string, bool) {
	return e.inbox.pop()
}

// Pending reports how many messages are waiting to be polled.
func (e *Endpoint) Pending() int { return e.inbox.len() }

// PeerCount returns the number of live connections.
func (e *Endpoint) PeerCount() int {
	if e.cfg.Role == Host {
		return e.peers.len()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil || e.client.isClosed() {
		return 0
	}
	return 1
}

// Peers returns a snapshot of live connections in connection order.
func (e *Endpoint) Peers() []PeerSnapshot {
	var ps []*peer
	if e.cfg.Role == Host {
		ps = e.peers.snapshot()
	} else {
		e.mu.Lock()
		if e.client != nil && !e.client.isClosed() {
			ps = []*peer{e.client}
		}
		e.mu.Unlock()
	}
	out := make([]PeerSnapshot, 0, len(ps))
	for _, p := range ps {
		out = append(out, PeerSnapshot{ID: p.id, Addr: string(p.addr)})
	}
	return out
}

// goTracked runs fn on a goroutine that Shutdown waits for.
func (e *Endpoint) goTracked(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}
