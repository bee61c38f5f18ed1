package main

import (
	"fmt"
	"hash/fnv"
	"io"
	"net"
	"sync"
	"time"

	"lobbynet/internal/endpoint"
)

const (
	sgrReset = "\033[0m"
	sgrDim   = "\033[2m"
)

// console writes the harness's stdout. Output from the pump goroutine and
// the command goroutine is serialised line by line.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func newConsole(w io.Writer) *console { return &console{w: w} }

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

// message prints one polled message. The text is printed as received.
func (c *console) message(at time.Time, text string) {
	c.printf("%s %s\n", stamp(at), text)
}

// event prints a join or leave line. The peer tag is coloured by remote
// address so a reconnecting client keeps its colour across sessions.
func (c *console) event(at time.Time, ev endpoint.Event) {
	tag := addrColor(ev.PeerAddr) + ev.PeerAddr + sgrReset + " " + sgrDim + "(" + shortID(ev.PeerID) + ")" + sgrReset
	switch ev.Type {
	case endpoint.EventPeerConnected:
		c.printf("%s + %s\n", stamp(at), tag)
	case endpoint.EventPeerDisconnected:
		if ev.Err != "" {
			c.printf("%s - %s: %s\n", stamp(at), tag, ev.Err)
			return
		}
		c.printf("%s - %s\n", stamp(at), tag)
	}
}

func stamp(t time.Time) string {
	return sgrDim + t.Format(time.TimeOnly) + sgrReset
}

// addrColor maps the host part of addr onto the 216-colour cube, skipping
// the darkest shades.
func addrColor(addr string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(hostOf(addr)))
	return fmt.Sprintf("\033[38;5;%dm", 52+h.Sum32()%160)
}

func hostOf(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
