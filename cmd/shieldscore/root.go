package main

import (
	"log/slog"
	"net/url"

	"github.com/ShieldDesk/go-api/shield/config"
	"github.com/ShieldDesk/go-api/shield/slogger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debugMode  bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "shieldscore",
	Short: "ShieldDesk security posture scoring",
	Long: `shieldscore calculates an organization's 0-100 security posture score from
its employees, devices, threats, phishing simulations and training, and runs
the worker that scores organizations on request.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if debugMode {
			loaded.LogLevel = "debug"
		}
		cfg = loaded
		slogger.InitWith(cfg.LogLevel, cfg.LogFormat)
		if slogger.IsDebug() {
			slog.Debug("Resolved configuration", configAttrs(cfg)...)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "shieldscore.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(workerCmd, calculateCmd, trendCmd, historyCmd, pruneCmd, enqueueCmd, dbcheckCmd)
}

// configAttrs lists the settings for debug logging, with credentials removed
// from the broker URL and the database DSN left out.
func configAttrs(c *config.Config) []any {
	return []any{
		"config", configPath,
		"valkey_addr", c.ValkeyAddr,
		"rabbitmq_url", redactURL(c.RabbitMQURL),
		"score_queue", c.ScoreQueue,
		"event_queue", c.EventQueue,
		"metrics_addr", c.MetricsAddr,
		"max_retries", c.MaxRetries,
		"retry_delay", c.RetryDelay,
		"history_limit", c.HistoryLimit,
		"cache_ttl", c.CacheTTL,
	}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
