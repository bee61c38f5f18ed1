package main

import (
	"context"
	"time"

	"lobbynet/internal/endpoint"
	"lobbynet/internal/storage/msgbolt"
)

const pollInterval = 50 * time.Millisecond

// pump drains the endpoint's queue and event channel until ctx is done.
// Every polled message is printed and, when arch is non-nil, archived.
func pump(ctx context.Context, ep *endpoint.Endpoint, con *console, arch *msgbolt.Archive) {
	t := time.NewTicker(pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			drain(ep, con, arch)
			return
		case ev := <-ep.Events():
			con.event(time.Now(), ev)
		case <-t.C:
			drain(ep, con, arch)
		}
	}
}

func drain(ep *endpoint.Endpoint, con *console, arch *msgbolt.Archive) {
	for {
		msg, ok := ep.Poll()
		if !ok {
			return
		}
		now := time.Now()
		con.message(now, msg)
		if arch == nil {
			continue
		}
		if _, err := arch.Append(msg, now); err != nil {
			con.printf("%s archive: %v\n", stamp(now), err)
		}
	}
}
