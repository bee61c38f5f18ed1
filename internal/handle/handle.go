// Package handle exposes endpoints through integer handles so they can be
// driven across a foreign call boundary without handing out pointers.
package handle

import (
	"sync"
	"sync/atomic"

	"lobbynet/internal/endpoint"
)

// Handle identifies one endpoint in a Table. Zero is never issued.
type Handle int64

type Table struct {
	configure func(*endpoint.Config)

	next atomic.Int64

	mu        sync.RWMutex
	endpoints map[Handle]*endpoint.Endpoint
}

// NewTable returns an empty table. configure, if non-nil, adjusts the
// default config of every endpoint the table creates.
func NewTable(configure func(*endpoint.Config)) *Table {
	return &Table{
		configure: configure,
		endpoints: make(map[Handle]*endpoint.Endpoint),
	}
}

// Default backs the C exports.
var Default = NewTable(nil)

// Create makes an endpoint; role 0 is a host, anything else a client.
func (t *Table) Create(role int) Handle {
	r := endpoint.Client
	if role == 0 {
		r = endpoint.Host
	}
	cfg := endpoint.DefaultConfig(r)
	if t.configure != nil {
		t.configure(&cfg)
	}

	h := Handle(t.next.Add(1))
	t.mu.Lock()
	t.endpoints[h] = endpoint.New(cfg)
	t.mu.Unlock()
	return h
}

func (t *Table) lookup(h Handle) *endpoint.Endpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.endpoints[h]
}

// Start reports whether the endpoint came up. The reason for a failure is
// written to the endpoint's logger.
func (t *Table) Start(h Handle, address string, port int) bool {
	e := t.lookup(h)
	if e == nil {
		return false
	}
	return e.Start(address, port) == nil
}

// Poll copies the oldest queued message into buf as a NUL-terminated
// string and removes it from the queue. At most len(buf)-1 bytes are
// copied: longer messages are silently truncated and the rest is lost.
// It returns false, consuming nothing, when the handle is unknown, the
// queue is empty or buf has no room for the terminator.
func (t *Table) Poll(h Handle, buf []byte) bool {
	e := t.lookup(h)
	if e == nil || len(buf) == 0 {
		return false
	}
	msg, ok := e.Poll()
	if !ok {
		return false
	}
	n := copy(buf[:len(buf)-1], msg)
	buf[n] = 0
	return true
}

// Send routes text by role. Unknown handles are ignored.
func (t *Table) Send(h Handle, text string) {
	if e := t.lookup(h); e != nil {
		e.Send(text)
	}
}

// Destroy shuts the endpoint down and forgets the handle.
func (t *Table) Destroy(h Handle) {
	t.mu.Lock()
	e := t.endpoints[h]
	delete(t.endpoints, h)
	t.mu.Unlock()

	if e != nil {
		e.Shutdown()
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.endpoints)
}
