package endpoint

import (
	"errors"
	"net"
	"time"
)

const maxAcceptBackoff = time.Second

// acceptLoop registers every inbound connection until the listener is
// closed. Other accept errors (EMFILE and friends) are retried with backoff.
func (e *Endpoint) acceptLoop() {
	var backoff time.Duration
	for {
		conn, err := e.cfg.Network.Accept()
		if err != nil {
			if e.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff = min(2*backoff, maxAcceptBackoff)
			}
			e.errorf("accept failed: %v; retrying in %s", err, backoff)
			select {
			case <-e.ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		p := e.newPeer(conn)
		if e.ctx.Err() != nil || !e.peers.add(p) {
			p.close()
			return
		}

		e.Logf("peer %s connected from %s", p.id, p.addr)
		e.emit(Event{Type: EventPeerConnected, PeerID: p.id, PeerAddr: string(p.addr)})
		e.goTracked(func() { e.receiveLoop(p) })
	}
}
