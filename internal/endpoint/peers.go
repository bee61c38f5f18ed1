package endpoint

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"lobbynet/internal/netx"
	"lobbynet/internal/wire"
)

type peer struct {
	id     string
	addr   netx.Addr
	conn   netx.Conn
	reader wire.Reader

	writeMu sync.Mutex
	closed  atomic.Bool
	once    sync.Once
}

func (e *Endpoint) newPeer(conn netx.Conn) *peer {
	return &peer{
		id:     uuid.NewString(),
		addr:   conn.RemoteAddr(),
		conn:   conn,
		reader: e.framer.NewReader(conn, e.cfg.BufferSize),
	}
}

func (p *peer) write(frame []byte, timeout time.Duration) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if timeout > 0 {
		_ = p.conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	_, err := p.conn.Write(frame)
	return err
}

// close shuts the stream down in both directions and releases it. Safe to
// call more than once.
func (p *peer) close() {
	p.once.Do(func() {
		p.closed.Store(true)
		_ = p.conn.Shutdown()
		_ = p.conn.Close()
	})
}

func (p *peer) isClosed() bool { return p.closed.Load() }

// registry is the host's ordered list of live peers.
type registry struct {
	mu     sync.Mutex
	peers  []*peer
	closed bool
}

// add appends p. It refuses once the registry has been closed so a
// connection accepted during shutdown cannot slip past closeAll.
func (r *registry) add(p *peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.peers = append(r.peers, p)
	return true
}

func (r *registry) remove(p *peer) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.peers, p)
	if i < 0 {
		return false
	}
	r.peers = slices.Delete(r.peers, i, i+1)
	return true
}

// forEach visits the peers registered at the time of the call. fn runs
// without the lock, so a write stuck on one peer cannot hold up add, remove
// or closeAll.
func (r *registry) forEach(fn func(p *peer)) {
	for _, p := range r.snapshot() {
		fn(p)
	}
}

func (r *registry) snapshot() []*peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.peers)
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}

// closeAll stops further adds and closes every registered peer. Entries
// are left for the receive loops to remove as they exit.
func (r *registry) closeAll() {
	r.mu.Lock()
	r.closed = true
	ps := slices.Clone(r.peers)
	r.mu.Unlock()

	for _, p := range ps {
		p.close()
	}
}
