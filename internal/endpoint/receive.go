package endpoint

import "time"

// receiveLoop drains one connection into the inbound queue until the
// endpoint stops or the stream fails. Messages from one peer keep their
// arrival order.
func (e *Endpoint) receiveLoop(p *peer) {
	var cause error
	defer func() { e.dropPeer(p, cause) }()

	for e.ctx.Err() == nil {
		if e.cfg.ReadTimeout > 0 {
			_ = p.conn.SetReadDeadline(time.Now().Add(e.cfg.ReadTimeout))
		}
		msg, err := p.reader.ReadMessage()
		if err != nil {
			if e.ctx.Err() == nil {
				cause = err
				e.Logf("read from %s ended: %v", p.id, err)
			}
			return
		}
		e.inbox.push(msg)
	}
}

// dropPeer closes p and forgets it, so later broadcasts skip it.
func (e *Endpoint) dropPeer(p *peer, cause error) {
	p.close()
	e.peers.remove(p)

	ev := Event{Type: EventPeerDisconnected, PeerID: p.id, PeerAddr: string(p.addr)}
	if cause != nil {
		ev.Err = cause.Error()
	}
	e.emit(ev)
}
