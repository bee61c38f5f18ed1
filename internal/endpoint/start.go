package endpoint

import (
	"fmt"
	"net"
	"strconv"

	"lobbynet/internal/netx"
)

// Start brings the endpoint online. A host listens on port on all
// interfaces and ignores address; a client makes a single connection
// attempt to address:port. Failures are logged, returned, and leave the
// endpoint stopped: there is no retry and no restart.
func (e *Endpoint) Start(address string, port int) error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateStarting)) {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, e.State())
	}

	var err error
	if port < 0 || port > 65535 {
		err = fmt.Errorf("%w: %d", ErrBadPort, port)
	} else if e.cfg.Role == Host {
		err = e.startHost(port)
	} else {
		err = e.startClient(address, port)
	}
	if err != nil {
		e.errorf("start failed: %v", err)
		e.cancel()
		e.state.Store(int32(StateStopped))
		return err
	}

	e.state.Store(int32(StateRunning))
	return nil
}

func (e *Endpoint) startHost(port int) error {
	addr, err := e.cfg.Network.Listen(":" + strconv.Itoa(port))
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.addr = addr
	e.listening = true
	e.mu.Unlock()

	e.Logf("hosting on %s", addr)
	e.goTracked(e.acceptLoop)
	return nil
}

func (e *Endpoint) startClient(address string, port int) error {
	target := net.JoinHostPort(address, strconv.Itoa(port))
	conn, err := e.cfg.Network.Dial(netx.Addr(target))
	if err != nil {
		return err
	}
	p := e.newPeer(conn)

	e.mu.Lock()
	e.addr = p.addr
	e.client = p
	e.mu.Unlock()

	e.Logf("connected to %s", p.addr)
	e.emit(Event{Type: EventPeerConnected, PeerID: p.id, PeerAddr: string(p.addr)})
	e.goTracked(func() { e.receiveLoop(p) })
	return nil
}
