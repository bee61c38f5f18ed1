package endpoint

type EventType string

const (
	EventPeerConnected    EventType = "peer_connected"
	EventPeerDisconnected EventType = "peer_disconnected"
)

type Event struct {
	Type     EventType
	PeerID   string
	PeerAddr string
	Err      string
}

func (e *Endpoint) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		// drop rather than stall a network goroutine
	}
}
