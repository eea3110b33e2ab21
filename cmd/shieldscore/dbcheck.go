package main

import (
	"fmt"

	"github.com/ShieldDesk/go-api/shield/postgres"
	"github.com/spf13/cobra"
)

var dbcheckCmd = &cobra.Command{
	Use:   "dbcheck",
	Short: "Verify the database connection and schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := postgres.Connect(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := postgres.Ping(db); err != nil {
			return err
		}

		var result int
		if err := db.WithContext(cmd.Context()).Raw("SELECT 1").Scan(&result).Error; err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✅ Database is connected and the schema is migrated")
		return nil
	},
}
