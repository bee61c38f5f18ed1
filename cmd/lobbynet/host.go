package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lobbynet/internal/endpoint"
	"lobbynet/internal/storage/msgbolt"
)

func newHostCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host <port>",
		Short: "Accept clients on a port and print what they send",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := parsePort(args[0])
			if err != nil {
				return err
			}
			return runHost(cmd.Context(), cmd, opts, port)
		},
	}
	cmd.Flags().DurationVar(&opts.duration, "duration", 60*time.Second, "how long to stay up (0 runs until interrupted)")
	cmd.Flags().BoolVar(&opts.record, "record", false, "append received messages to the archive")
	return cmd
}

func runHost(parent context.Context, cmd *cobra.Command, opts *options, port int) error {
	cfg, err := opts.endpointConfig(endpoint.Host)
	if err != nil {
		return err
	}

	var arch *msgbolt.Archive
	if opts.record {
		arch, err = msgbolt.Open(opts.archive)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer arch.Close()
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.duration)
		defer cancel()
	}

	ep := endpoint.New(cfg)
	defer ep.Shutdown()
	if err := ep.Start("", port); err != nil {
		return err
	}

	con := newConsole(cmd.OutOrStdout())
	con.printf("hosting on %s (framing %s)\n", ep.Addr(), cfg.Framing)
	pump(ctx, ep, con, arch)
	con.printf("host shutting down\n")
	return nil
}
