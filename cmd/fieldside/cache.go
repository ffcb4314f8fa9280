package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fieldside-ai/fieldside/pkg/cache"
	"github.com/fieldside-ai/fieldside/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the AI response cache",
	}

	openResponseCache := func() (*cache.ResponseCache, func(), error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		store, err := openStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return cache.New(store, buildPolicy(cfg)), func() { _ = store.Close() }, nil
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show live cache contents by operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, cleanup, err := openResponseCache()
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := rc.Stats(context.Background())
			if err != nil {
				return err
			}
			if stats.Entries == 0 {
				fmt.Println("Cache is empty.")
				return nil
			}

			ops := make([]string, 0, len(stats.ByOperation))
			for op := range stats.ByOperation {
				ops = append(ops, op)
			}
			sort.Strings(ops)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tENTRIES\tHITS")
			for _, op := range ops {
				s := stats.ByOperation[op]
				fmt.Fprintf(w, "%s\t%d\t%d\n", op, s.Entries, s.Hits)
			}
			fmt.Fprintf(w, "TOTAL\t%d\t%d\n", stats.Entries, stats.Hits)
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, cleanup, err := openResponseCache()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := rc.SweepExpired(context.Background()); err != nil {
				return err
			}
			fmt.Println("Expired cache entries removed.")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <operation>",
		Short: "Remove every cached result for an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, cleanup, err := openResponseCache()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := rc.InvalidateCategory(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Cleared cached results for %s.\n", args[0])
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fieldside.yaml", "path to config file")
	cmd.AddCommand(statsCmd, sweepCmd, clearCmd)
	return cmd
}
