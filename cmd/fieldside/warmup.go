package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldside-ai/fieldside/pkg/config"
	"github.com/fieldside-ai/fieldside/pkg/models"
	"github.com/fieldside-ai/fieldside/pkg/roster"
	"github.com/fieldside-ai/fieldside/pkg/warmup"
)

func newWarmupCmd() *cobra.Command {
	var (
		configPath string
		history    bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "warmup",
		Short: "Pre-populate the cache for common requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			hist, err := warmup.NewHistory(cfg.DBPath)
			if err != nil {
				return err
			}
			defer hist.Close()

			if history {
				return printHistory(hist, limit)
			}

			adv, cleanup, err := newAdvisor(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			players, err := roster.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer players.Close()

			orch := warmup.New(adv, players,
				warmup.WithMaxPlayers(cfg.Warmup.MaxPlayers),
				warmup.WithHistory(hist),
			)

			report, err := orch.RunFull(context.Background())
			printReport(report)
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fieldside.yaml", "path to config file")
	cmd.Flags().BoolVar(&history, "history", false, "list past warmup runs instead of running")
	cmd.Flags().IntVar(&limit, "limit", 20, "how many past runs to list")
	return cmd
}

func printReport(report *models.WarmupReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BATCH\tSUCCESS\tFAILED")
	fmt.Fprintf(w, "player analyses\t%d\t%d\n", report.PlayerAnalyses.Success, report.PlayerAnalyses.Failed)
	fmt.Fprintf(w, "training plans\t%d\t%d\n", report.TrainingPlans.Success, report.TrainingPlans.Failed)
	fmt.Fprintf(w, "drill recommendations\t%d\t%d\n", report.DrillRecommendations.Success, report.DrillRecommendations.Failed)
	fmt.Fprintf(w, "match strategies\t%d\t%d\n", report.MatchStrategies.Success, report.MatchStrategies.Failed)
	fmt.Fprintf(w, "TOTAL\t%d\t%d\n", report.TotalSuccess(), report.TotalFailed())
	w.Flush()
	fmt.Printf("Run %s finished in %s.\n", report.RunID, report.Duration.Round(time.Millisecond))

	for _, batch := range []models.BatchReport{
		report.PlayerAnalyses, report.TrainingPlans,
		report.DrillRecommendations, report.MatchStrategies,
	} {
		for _, msg := range batch.Errors {
			fmt.Fprintf(os.Stderr, "warmup error: %s\n", msg)
		}
	}
}

func printHistory(hist *warmup.History, limit int) error {
	runs, err := hist.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No warmup runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tDURATION\tSUCCESS\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			r.RunID, r.StartedAt.Format("2006-01-02T15:04:05"), r.Duration.Round(time.Millisecond), r.Success, r.Failed)
	}
	return w.Flush()
}
