package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/spf13/cobra"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Score a JSON snapshot file and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		withRecs, _ := cmd.Flags().GetBool("recommendations")

		result, err := calculateFile(file, withRecs)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	calculateCmd.Flags().String("file", "", "Snapshot JSON file (- for stdin)")
	calculateCmd.Flags().Bool("recommendations", false, "Include remediation recommendations")
	_ = calculateCmd.MarkFlagRequired("file")
}

func calculateFile(path string, withRecommendations bool) (score.SecurityScoreResult, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return score.SecurityScoreResult{}, fmt.Errorf("read snapshot: %w", err)
	}

	var in score.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return score.SecurityScoreResult{}, fmt.Errorf("decode snapshot: %w", err)
	}

	if withRecommendations {
		return score.Assess(in), nil
	}
	return score.CalculateSecurityScore(in), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
