package endpoint

import (
	"io"
	"log"
	"net"
	"strconv"
	"testing"
	"time"

	"lobbynet/internal/netx"
	"lobbynet/internal/wire"
)

type endpointTestOpt func(*Config)

// WithNetwork swaps the transport (default is real TCP on loopback).
func WithNetwork(n netx.Network) endpointTestOpt {
	return func(cfg *Config) { cfg.Network = n }
}

// WithFraming overrides the framing mode (default raw).
func WithFraming(m wire.Mode) endpointTestOpt {
	return func(cfg *Config) { cfg.Framing = m }
}

// WithLogger lets you override the logger (default is io.Discard).
func WithLogger(l *log.Logger) endpointTestOpt {
	return func(cfg *Config) { cfg.Logger = l }
}

// WithReadTimeout sets an idle read timeout.
func WithReadTimeout(d time.Duration) endpointTestOpt {
	return func(cfg *Config) { cfg.ReadTimeout = d }
}

func newTestEndpoint(t *testing.T, role Role, opts ...endpointTestOpt) *Endpoint {
	t.Helper()

	cfg := DefaultConfig(role)
	cfg.Logger = log.New(io.Discard, "", log.LstdFlags)
	cfg.Debug = true
	cfg.DialTimeout = 2 * time.Second
	for _, opt := range opts {
		opt(&cfg)
	}

	e := New(cfg)
	t.Cleanup(e.Shutdown)
	return e
}

// startTestHost starts a host on an ephemeral port and returns it with the
// port it got.
func startTestHost(t *testing.T, opts ...endpointTestOpt) (*Endpoint, int) {
	t.Helper()

	h := newTestEndpoint(t, Host, opts...)
	if err := h.Start("", 0); err != nil {
		t.Fatalf("host Start error: %v", err)
	}
	return h, portOf(t, h.Addr())
}

func startTestClient(t *testing.T, port int, opts ...endpointTestOpt) *Endpoint {
	t.Helper()

	c := newTestEndpoint(t, Client, opts...)
	if err := c.Start("127.0.0.1", port); err != nil {
		t.Fatalf("client Start error: %v", err)
	}
	return c
}

func portOf(t *testing.T, addr netx.Addr) int {
	t.Helper()
	_, p, err := net.SplitHostPort(string(addr))
	if err != nil {
		t.Fatalf("bad addr %q: %v", addr, err)
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		t.Fatalf("bad port %q: %v", p, err)
	}
	return port
}

func waitPeers(t *testing.T, e *Endpoint, want int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if e.PeerCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for peers: role=%s have=%d want=%d", e.Role(), e.PeerCount(), want)
}

// waitPoll polls until a message arrives or the timeout passes.
func waitPoll(t *testing.T, e *Endpoint, timeout time.Duration) string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if msg, ok := e.Poll(); ok {
			return msg
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for a message on %s", e.Role())
	return ""
}

// collect polls until want messages arrive or the timeout passes.
func collect(t *testing.T, e *Endpoint, want int, timeout time.Duration) []string {
	t.Helper()
	var got []string
	deadline := time.Now().Add(timeout)
	for len(got) < want && time.Now().Before(deadline) {
		if msg, ok := e.Poll(); ok {
			got = append(got, msg)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(got) != want {
		t.Fatalf("collected %d messages, want %d: %q", len(got), want, got)
	}
	return got
}
