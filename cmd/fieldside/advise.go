package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldside-ai/fieldside/pkg/advisor"
	"github.com/fieldside-ai/fieldside/pkg/config"
	"github.com/fieldside-ai/fieldside/pkg/roster"
)

func newAdviseCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Get cached AI coaching advice",
	}

	playerCmd := &cobra.Command{
		Use:   "player <player-id>",
		Short: "Analyze a player's development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
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

			ctx := context.Background()
			active, err := players.ListActivePlayers(ctx, 0)
			if err != nil {
				return err
			}
			for _, p := range active {
				if p.ID != args[0] {
					continue
				}
				recent, err := players.RecentPerformance(ctx, p.ID, 5)
				if err != nil {
					return err
				}
				text, err := adv.PlayerAnalysis(ctx, advisor.PlayerAnalysisRequest{Player: p, Recent: recent})
				if err != nil {
					return err
				}
				fmt.Println(text)
				return nil
			}
			return fmt.Errorf("no active player with id %q", args[0])
		},
	}

	var plan advisor.TrainingPlanRequest
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a training plan for an archetype",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			adv, cleanup, err := newAdvisor(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			text, err := adv.TrainingPlan(context.Background(), plan)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	planCmd.Flags().StringVar(&plan.Position, "position", "midfielder", "player position")
	planCmd.Flags().StringVar(&plan.AgeGroup, "age-group", "U14", "age group")
	planCmd.Flags().StringVar(&plan.Strengths, "strengths", "", "comma-separated strengths")
	planCmd.Flags().StringVar(&plan.Weaknesses, "weaknesses", "", "comma-separated weaknesses")

	var drills advisor.DrillRecommendationsRequest
	drillsCmd := &cobra.Command{
		Use:   "drills",
		Short: "Recommend drills for a focus area",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			adv, cleanup, err := newAdvisor(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			text, err := adv.DrillRecommendations(context.Background(), drills)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	drillsCmd.Flags().StringVar(&drills.FocusArea, "focus", "passing", "focus area")
	drillsCmd.Flags().StringVar(&drills.AgeGroup, "age-group", "U14", "age group")
	drillsCmd.Flags().StringVar(&drills.SkillLevel, "level", "intermediate", "skill level")

	var strategy advisor.MatchStrategyRequest
	strategyCmd := &cobra.Command{
		Use:   "strategy",
		Short: "Generate a match strategy for a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			adv, cleanup, err := newAdvisor(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			text, err := adv.MatchStrategy(context.Background(), strategy)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	strategyCmd.Flags().StringVar(&strategy.Importance, "importance", "league", "match importance")
	strategyCmd.Flags().StringVar(&strategy.Weather, "weather", "clear", "weather conditions")
	strategyCmd.Flags().StringVar(&strategy.Opponent, "opponent", "", "opponent name")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fieldside.yaml", "path to config file")
	cmd.AddCommand(playerCmd, planCmd, drillsCmd, strategyCmd)
	return cmd
}
