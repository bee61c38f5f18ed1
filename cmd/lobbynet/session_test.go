package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"lobbynet/internal/endpoint"
	"lobbynet/internal/storage/msgbolt"
	"lobbynet/internal/wire"
)

// syncBuffer lets a test read command output while the command still runs.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitOutput(t *testing.T, b *syncBuffer, substr string, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if strings.Contains(b.String(), substr) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q:\n%s", substr, b.String())
}

func quietConfig(role endpoint.Role) endpoint.Config {
	cfg := endpoint.DefaultConfig(role)
	cfg.Framing = wire.Line
	cfg.DialTimeout = 2 * time.Second
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}

var hostingRE = regexp.MustCompile(`hosting on \S*:(\d+) `)

func TestHostRecordsMessages(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "inbox.db")
	out := &syncBuffer{}

	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs([]string{"host", "0", "--framing", "line", "--record", "--archive", archive, "--duration", "3s"})
	hostDone := make(chan error, 1)
	go func() { hostDone <- root.Execute() }()

	waitOutput(t, out, "hosting on", 3*time.Second)
	m := hostingRE.FindStringSubmatch(out.String())
	if m == nil {
		t.Fatalf("no port in output:\n%s", out.String())
	}
	port, _ := strconv.Atoi(m[1])

	client := endpoint.New(quietConfig(endpoint.Client))
	if err := client.Start("127.0.0.1", port); err != nil {
		t.Fatalf("client Start: %v", err)
	}
	client.Send("a")
	client.Send("b")

	waitOutput(t, out, sgrReset+" b\n", 3*time.Second)
	client.Shutdown()

	select {
	case err := <-hostDone:
		if err != nil {
			t.Fatalf("host: %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatalf("host did not stop after --duration")
	}
	if !strings.Contains(out.String(), sgrReset+" a\n") {
		t.Fatalf("host did not print the first message:\n%s", out.String())
	}

	arch, err := msgbolt.Open(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer arch.Close()
	n, err := arch.Count()
	if err != nil || n != 2 {
		t.Fatalf("Count = %d, %v; want 2", n, err)
	}
	recs, _ := arch.ListSince(0, 0)
	if recs[0].Text != "a" || recs[1].Text != "b" {
		t.Fatalf("archived %+v", recs)
	}
}

func startLineHost(t *testing.T) (*endpoint.Endpoint, int) {
	t.Helper()
	host := endpoint.New(quietConfig(endpoint.Host))
	t.Cleanup(host.Shutdown)
	if err := host.Start("", 0); err != nil {
		t.Fatalf("host Start: %v", err)
	}
	addr := string(host.Addr())
	port, err := strconv.Atoi(addr[strings.LastIndexByte(addr, ':')+1:])
	if err != nil {
		t.Fatalf("bad host addr %q", addr)
	}
	return host, port
}

func pollWithin(t *testing.T, e *endpoint.Endpoint, timeout time.Duration) string {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if msg, ok := e.Poll(); ok {
			return msg
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out polling the host")
	return ""
}

func TestClientForwardsStdinLines(t *testing.T) {
	host, port := startLineHost(t)

	stdin, feed := io.Pipe()
	out := &syncBuffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(stdin)
	root.SetArgs([]string{"client", strconv.Itoa(port), "--framing", "line", "--archive", filepath.Join(t.TempDir(), "x.db")})
	clientDone := make(chan error, 1)
	go func() { clientDone <- root.Execute() }()

	waitOutput(t, out, "connected to", 3*time.Second)
	if _, err := io.WriteString(feed, "a\nb\n"); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	if got := pollWithin(t, host, 3*time.Second); got != "a" {
		t.Fatalf("host polled %q, want a", got)
	}
	if got := pollWithin(t, host, 3*time.Second); got != "b" {
		t.Fatalf("host polled %q, want b", got)
	}

	host.Send("welcome")
	waitOutput(t, out, sgrReset+" welcome\n", 3*time.Second)

	_ = feed.Close()
	select {
	case err := <-clientDone:
		if err != nil {
			t.Fatalf("client: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("client did not exit on stdin EOF")
	}
}

func TestClientStopsOnCancelWhileStdinIdle(t *testing.T) {
	_, port := startLineHost(t)

	stdin, feed := io.Pipe()
	defer feed.Close()
	out := &syncBuffer{}
	root := newRootCmd()
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(stdin)
	root.SetArgs([]string{"client", strconv.Itoa(port), "--framing", "line", "--archive", filepath.Join(t.TempDir(), "x.db")})

	ctx, cancel := context.WithCancel(context.Background())
	clientDone := make(chan error, 1)
	go func() { clientDone <- root.ExecuteContext(ctx) }()

	waitOutput(t, out, "connected to", 3*time.Second)
	cancel()
	select {
	case err := <-clientDone:
		if err != nil {
			t.Fatalf("client: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("client ignored cancellation while waiting on stdin")
	}
}
