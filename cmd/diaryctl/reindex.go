package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"daybook/internal/usecase/reindex"
)

func newReindexCmd(a *app) *cobra.Command {
	var parallelism int
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the record store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := reindex.DefaultConfig()
			if parallelism > 0 {
				cfg.Parallelism = parallelism
			}
			// interactive runs are not throttled
			cfg.RatePerSecond = 0

			svc := &reindex.Service{Records: a.stores.Records, Index: a.stores.Index, Config: cfg}
			stats, err := svc.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("reindex: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "indexed %d, removed %d, failed %d in %s\n",
				stats.Indexed, stats.Removed, stats.Failed, stats.Duration.Round(time.Millisecond))
			return err
		},
	}
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "concurrent index writes (default 4)")
	return cmd
}
