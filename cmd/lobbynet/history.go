package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"lobbynet/internal/storage/msgbolt"
)

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print archived messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(opts.archive); err != nil {
				return fmt.Errorf("no archive at %s", opts.archive)
			}
			arch, err := msgbolt.Open(opts.archive)
			if err != nil {
				return fmt.Errorf("open archive: %w", err)
			}
			defer arch.Close()

			recs, err := arch.ListSince(opts.since, opts.limit)
			if err != nil {
				return err
			}
			total, err := arch.Count()
			if err != nil {
				return err
			}
			created, err := arch.CreatedAt()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "archive %s, started %s\n", opts.archive, created.Format(time.DateTime))
			for _, r := range recs {
				fmt.Fprintf(out, "%6d  %s  %s\n", r.Seq, r.At.Format(time.DateTime), r.Text)
			}
			fmt.Fprintf(out, "%d of %d archived messages\n", len(recs), total)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&opts.since, "since", 0, "only messages with a sequence number above this")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum messages to print (0 uses the archive default)")
	return cmd
}
