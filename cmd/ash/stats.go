package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/keshon/ash/internal/chain"
	"github.com/keshon/ash/internal/logging"
	"github.com/keshon/ash/internal/room"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [config.toml]",
		Short: "Replay the message log and print what each chain has learned",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			closer, err := logging.Setup(logging.Options{Level: "warn", File: cfg.LogFile})
			if err != nil {
				return err
			}
			defer closer.Close()

			a, err := build(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.store.Close()

			return printStats(cmd.OutOrStdout(), a.rooms, a.pool)
		},
	}
}

func printStats(w io.Writer, rooms *room.Registry, pool *chain.Pool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAIN\tWORDS\tPRIMARY FOR")
	for i := 0; i < pool.Size(); i++ {
		var primaryFor []string
		for _, r := range rooms.Rooms() {
			if r.Primary() == i {
				primaryFor = append(primaryFor, r.Address.String())
			}
		}
		fmt.Fprintf(tw, "%d\t%d\t%v\n", i, pool.WordCount(i), primaryFor)
	}
	return tw.Flush()
}
