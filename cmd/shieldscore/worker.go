package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShieldDesk/go-api/shield/jobs"
	"github.com/ShieldDesk/go-api/shield/metrics"
	"github.com/ShieldDesk/go-api/shield/postgres"
	"github.com/ShieldDesk/go-api/shield/queue"
	"github.com/ShieldDesk/go-api/shield/snapshot"
	"github.com/ShieldDesk/go-api/shield/store"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume score requests from the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		db, err := postgres.Connect(cfg.DatabaseDSN)
		if err != nil {
			return err
		}

		kv, err := store.NewValkeyStore(cfg.ValkeyAddr)
		if err != nil {
			return err
		}
		defer kv.Close()

		history := snapshot.NewScoreManager(kv, cfg.HistoryLimit, cfg.CacheTTL)
		repo := postgres.NewScoreRepository(db)
		recorder := metrics.NewRecorder()

		job := &jobs.ScoreJob{
			Source:     repo,
			Sinks:      []jobs.ResultSink{repo, history},
			Previous:   history,
			Publisher:  queue.NewPublisher(cfg.RabbitMQURL),
			EventQueue: cfg.EventQueue,
			Metrics:    recorder,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}

		srv := serveMetrics(cfg.MetricsAddr, recorder.Handler())
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		slog.Info("Score worker started", "queue", cfg.ScoreQueue, "metrics", cfg.MetricsAddr)
		queue.ListenWithRetry(ctx, cfg.RabbitMQURL, cfg.ScoreQueue, job.Processor(ctx))
		slog.Info("Score worker stopped")
		return nil
	},
}

func serveMetrics(addr string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "addr", addr, "error", err)
		}
	}()
	return srv
}
