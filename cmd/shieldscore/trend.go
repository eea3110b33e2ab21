package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ShieldDesk/go-api/shield/postgres"
	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/ShieldDesk/go-api/shield/snapshot"
	"github.com/ShieldDesk/go-api/shield/store"
	"github.com/spf13/cobra"
)

// Trend sources.
const (
	sourceKV = "kv"
	sourceDB = "db"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Print an organization's score history, oldest first",
	Long: `trend prints a score series, oldest first. The kv source reads the recent
snapshot history for any category; the db source reads stored overall scores
calculated within --since.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		orgID, _ := cmd.Flags().GetString("org")
		category, _ := cmd.Flags().GetString("category")
		limit, _ := cmd.Flags().GetInt("limit")
		source, _ := cmd.Flags().GetString("source")
		since, _ := cmd.Flags().GetDuration("since")

		if err := validateTrendArgs(source, category, since); err != nil {
			return err
		}

		var (
			samples []score.TrendSample
			err     error
		)
		switch source {
		case sourceDB:
			samples, err = dbTrend(cmd.Context(), orgID, time.Now().Add(-since))
		default:
			samples, err = kvTrend(cmd.Context(), orgID, category, limit)
		}
		if err != nil {
			return fmt.Errorf("load trend for %s: %w", orgID, err)
		}
		return writeJSON(cmd.OutOrStdout(), newestSamples(samples, limit))
	},
}

func init() {
	trendCmd.Flags().String("org", "", "Organization ID")
	trendCmd.Flags().String("category", score.CategoryOverall, "Score category")
	trendCmd.Flags().Int("limit", 10, "Maximum number of samples")
	trendCmd.Flags().String("source", sourceKV, "History source: kv or db")
	trendCmd.Flags().Duration("since", 90*24*time.Hour, "Window for the db source")
	_ = trendCmd.MarkFlagRequired("org")
}

func kvTrend(ctx context.Context, orgID, category string, limit int) ([]score.TrendSample, error) {
	kv, err := store.NewValkeyStore(cfg.ValkeyAddr)
	if err != nil {
		return nil, err
	}
	defer kv.Close()

	manager := snapshot.NewScoreManager(kv, cfg.HistoryLimit, cfg.CacheTTL)
	return manager.GetTrendData(ctx, orgID, category, limit)
}

func dbTrend(ctx context.Context, orgID string, since time.Time) ([]score.TrendSample, error) {
	db, err := postgres.Connect(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return postgres.GetScoreHistory(ctx, db, orgID, since)
}

func validateTrendArgs(source, category string, since time.Duration) error {
	if !validCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	switch source {
	case sourceKV:
		return nil
	case sourceDB:
		if category != score.CategoryOverall {
			return fmt.Errorf("the db source only records the %s category", score.CategoryOverall)
		}
		if since <= 0 {
			return fmt.Errorf("--since must be positive")
		}
		return nil
	default:
		return fmt.Errorf("unknown source %q (want %s or %s)", source, sourceKV, sourceDB)
	}
}

// newestSamples keeps the last limit samples of an oldest-first series.
func newestSamples(samples []score.TrendSample, limit int) []score.TrendSample {
	if limit <= 0 || len(samples) <= limit {
		return samples
	}
	return samples[len(samples)-limit:]
}

func validCategory(c string) bool {
	switch c {
	case score.CategoryOverall, score.CategoryMFA, score.CategoryAgent, score.CategoryBreach,
		score.CategoryTraining, score.CategorySimulation, score.CategoryPassword:
		return true
	}
	return false
}
