package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lobbynet/internal/endpoint"
	"lobbynet/internal/paths"
	"lobbynet/internal/wire"
)

type options struct {
	framing     string
	debug       bool
	dialTimeout time.Duration
	readTimeout time.Duration
	archive     string

	// host
	duration time.Duration
	record   bool

	// client
	addr string

	// history
	since uint64
	limit int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "lobbynet",
		Short:         "Host or join a plain-text TCP lobby",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("mode required: host <port> or client <port>")
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.framing, "framing", "raw", "wire framing: raw, line or length")
	pf.BoolVar(&opts.debug, "debug", false, "log connection chatter to stderr")
	pf.DurationVar(&opts.dialTimeout, "dial-timeout", 0, "client connect timeout (0 waits forever)")
	pf.DurationVar(&opts.readTimeout, "read-timeout", 0, "drop peers idle for this long (0 disables)")
	pf.StringVar(&opts.archive, "archive", paths.ArchivePath(), "message archive path")

	root.AddCommand(newHostCmd(opts), newClientCmd(opts), newHistoryCmd(opts))
	return root
}

func (o *options) endpointConfig(role endpoint.Role) (endpoint.Config, error) {
	mode, err := wire.ParseMode(o.framing)
	if err != nil {
		return endpoint.Config{}, err
	}
	cfg := endpoint.DefaultConfig(role)
	cfg.Framing = mode
	cfg.DialTimeout = o.dialTimeout
	cfg.ReadTimeout = o.readTimeout
	cfg.Debug = o.debug
	cfg.Logger = log.New(os.Stderr, "", log.LstdFlags)
	return cfg, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
