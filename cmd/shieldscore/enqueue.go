package main

import (
	"fmt"

	"github.com/ShieldDesk/go-api/shield/events"
	"github.com/ShieldDesk/go-api/shield/queue"
	"github.com/spf13/cobra"
)

var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Request a score calculation for an organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		orgID, _ := cmd.Flags().GetString("org")

		body, err := events.ScoreRequest{OrganizationID: orgID}.Marshal()
		if err != nil {
			return err
		}
		if err := queue.NewPublisher(cfg.RabbitMQURL).Send(cfg.ScoreQueue, body); err != nil {
			return fmt.Errorf("enqueue score request: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Queued score request for %s on %s\n", orgID, cfg.ScoreQueue)
		return nil
	},
}

func init() {
	enqueueCmd.Flags().String("org", "", "Organization ID")
	_ = enqueueCmd.MarkFlagRequired("org")
}
