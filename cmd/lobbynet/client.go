package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lobbynet/internal/endpoint"
	"lobbynet/internal/wire"
)

func newClientCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client <port>",
		Short: "Connect to a host and send each stdin line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := parsePort(args[0])
			if err != nil {
				return err
			}
			return runClient(cmd.Context(), cmd, opts, port)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1", "host address to connect to")
	return cmd
}

// runClient sends stdin line by line until EOF or until ctx is cancelled
// (SIGINT, SIGTERM), whichever comes first.
func runClient(parent context.Context, cmd *cobra.Command, opts *options, port int) error {
	cfg, err := opts.endpointConfig(endpoint.Client)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ep := endpoint.New(cfg)
	defer ep.Shutdown()
	if err := ep.Start(opts.addr, port); err != nil {
		return err
	}

	con := newConsole(cmd.OutOrStdout())
	con.printf("connected to %s (framing %s)\n", ep.Addr(), cfg.Framing)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		pump(ctx, ep, con, nil)
	}()

	// The reader may stay parked in Read after a signal; it is abandoned
	// with the process.
	lines, readErr := readLines(ctx, cmd.InOrStdin())
	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case line, ok := <-lines:
			if !ok {
				done = true
				break
			}
			ep.Send(line)
		}
	}
	cancel()
	<-pumped

	select {
	case err := <-readErr:
		return err
	default:
		return nil
	}
}

func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), wire.MaxMessageSize)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}
