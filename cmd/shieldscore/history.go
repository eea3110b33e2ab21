package main

import (
	"fmt"
	"time"

	"github.com/ShieldDesk/go-api/shield/postgres"
	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored scores from the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		orgID, _ := cmd.Flags().GetString("org")
		risk, _ := cmd.Flags().GetString("risk")
		limit, _ := cmd.Flags().GetInt("limit")
		stats, _ := cmd.Flags().GetBool("stats")

		if risk != "" {
			if _, err := score.ParseRiskLevel(risk); err != nil {
				return err
			}
		}

		db, err := postgres.Connect(cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		if stats {
			summary, err := postgres.GetScoreStatistics(cmd.Context(), db)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summary)
		}

		rows, total, err := postgres.GetScores(cmd.Context(), db, postgres.ScoreFilters{
			OrganizationID: orgID,
			RiskLevel:      risk,
			Limit:          limit,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d scores\n", len(rows), total)
		return writeJSON(cmd.OutOrStdout(), rows)
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete stored scores older than a retention period",
	RunE: func(cmd *cobra.Command, args []string) error {
		olderThan, _ := cmd.Flags().GetDuration("older-than")
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}

		db, err := postgres.Connect(cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		deleted, err := postgres.DeleteOldScores(cmd.Context(), db, olderThan)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d scores older than %s\n", deleted, olderThan)
		return nil
	},
}

func init() {
	historyCmd.Flags().String("org", "", "Organization ID")
	historyCmd.Flags().String("risk", "", "Only scores with this risk level")
	historyCmd.Flags().Int("limit", 50, "Maximum number of rows")
	historyCmd.Flags().Bool("stats", false, "Print aggregate statistics instead of rows")

	pruneCmd.Flags().Duration("older-than", 365*24*time.Hour, "Retention period")
}
