package endpoint

// Send transmits text. A host broadcasts to every registered peer; a client
// writes to its one connection. Delivery is best effort: write errors are
// only logged in debug mode, and one dead peer does not stop the others.
// Send before Start or after Shutdown does nothing.
func (e *Endpoint) Send(text string) {
	if e.State() != StateRunning {
		return
	}
	frame := e.framer.Encode(text)

	if e.cfg.Role == Host {
		e.broadcast(frame)
		return
	}

	e.mu.Lock()
	p := e.client
	e.mu.Unlock()
	if p == nil {
		return
	}
	if err := p.write(frame, e.cfg.WriteTimeout); err != nil {
		e.Logf("write to %s failed: %v", p.addr, err)
	}
}

func (e *Endpoint) broadcast(frame []byte) {
	e.peers.forEach(func(p *peer) {
		if p.isClosed() {
			return
		}
		if err := p.write(frame, e.cfg.WriteTimeout); err != nil {
			e.Logf("write to %s failed: %v", p.id, err)
		}
	})
}
