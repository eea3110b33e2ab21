// Package jobs runs the score pipeline for queued requests: load an
// organization's snapshot, score it, persist the result and announce it.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShieldDesk/go-api/shield/events"
	"github.com/ShieldDesk/go-api/shield/metrics"
	"github.com/ShieldDesk/go-api/shield/queue"
	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/ShieldDesk/go-api/shield/store"
)

// ErrInvalidRequest marks messages that are rejected without retry.
var ErrInvalidRequest = errors.New("invalid score request")

// SnapshotSource loads an organization's scoring inputs.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, orgID string, asOf time.Time) (score.Input, error)
}

// ResultSink persists a calculated score.
type ResultSink interface {
	SaveScore(ctx context.Context, snap *store.ScoreSnapshot) error
}

// PreviousScores looks up the last recorded overall score.
type PreviousScores interface {
	LatestOverall(ctx context.Context, orgID string) (int, bool, error)
}

// Publisher sends a message body to a named queue.
type Publisher interface {
	Send(qName string, message string) error
}

// ScoreJob wires the pipeline collaborators. Previous, Publisher and Metrics
// are optional.
type ScoreJob struct {
	Source     SnapshotSource
	Sinks      []ResultSink
	Previous   PreviousScores
	Publisher  Publisher
	EventQueue string
	Metrics    *metrics.Recorder

	MaxRetries int
	RetryDelay time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (j *ScoreJob) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Handle processes one queue message body.
func (j *ScoreJob) Handle(ctx context.Context, body string) error {
	req, err := events.ParseScoreRequest(body)
	if err != nil {
		j.jobDone(metrics.ResultRejected)
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if _, err := j.Run(ctx, req.OrganizationID); err != nil {
		j.jobDone(metrics.ResultFailed)
		return err
	}

	j.jobDone(metrics.ResultSuccess)
	return nil
}

// Run scores one organization and returns the persisted snapshot.
func (j *ScoreJob) Run(ctx context.Context, orgID string) (*store.ScoreSnapshot, error) {
	if j.Source == nil {
		return nil, fmt.Errorf("score job has no snapshot source")
	}

	calculatedAt := j.now().UTC()
	start := time.Now()

	var in score.Input
	err := retry(ctx, j.MaxRetries, j.RetryDelay, "load snapshot", func() error {
		var loadErr error
		in, loadErr = j.Source.LoadSnapshot(ctx, orgID, calculatedAt)
		return loadErr
	})
	if err != nil {
		return nil, fmt.Errorf("organization %s: %w", orgID, err)
	}

	result := score.Assess(in)
	elapsed := time.Since(start)
	if j.Metrics != nil {
		j.Metrics.ObserveCalculation(elapsed)
	}

	previous := j.previousScore(ctx, orgID)

	snap := &store.ScoreSnapshot{
		OrganizationID: orgID,
		Timestamp:      calculatedAt,
		Result:         result,
		Metadata: store.SnapshotMetadata{
			TotalEmployees:        in.TotalEmployees,
			TotalDevices:          in.TotalDevices,
			ThreatCount:           len(in.Threats),
			SimulationCount:       len(in.Simulations),
			CalculationDurationMs: elapsed.Milliseconds(),
		},
	}

	for i, sink := range j.Sinks {
		err := retry(ctx, j.MaxRetries, j.RetryDelay, fmt.Sprintf("save score (sink %d)", i), func() error {
			return sink.SaveScore(ctx, snap)
		})
		if err != nil {
			return nil, fmt.Errorf("organization %s: %w", orgID, err)
		}
	}

	if j.Metrics != nil {
		j.Metrics.SetScore(orgID, result.OverallScore)
	}

	slog.Info("Security score calculated",
		"organization", orgID,
		"score", result.OverallScore,
		"risk_level", result.RiskLevel,
		"recommendations", len(result.Recommendations),
		"duration_ms", elapsed.Milliseconds())

	j.publish(ctx, events.NewScoreEvent(orgID, result, previous, calculatedAt))

	return snap, nil
}

// previousScore returns the last overall score, or -1 when there is none or it
// cannot be read.
func (j *ScoreJob) previousScore(ctx context.Context, orgID string) int {
	if j.Previous == nil {
		return -1
	}
	prev, ok, err := j.Previous.LatestOverall(ctx, orgID)
	if err != nil {
		slog.Warn("Failed to read previous score", "organization", orgID, "error", err)
		return -1
	}
	if !ok {
		return -1
	}
	return prev
}

// publish is best effort: the score is already persisted.
func (j *ScoreJob) publish(ctx context.Context, event events.ScoreEvent) {
	if j.Publisher == nil || j.EventQueue == "" {
		return
	}

	body, err := event.Marshal()
	if err != nil {
		slog.Error("Failed to encode score event", "organization", event.OrganizationID, "error", err)
		return
	}

	err = retry(ctx, j.MaxRetries, j.RetryDelay, "publish score event", func() error {
		return j.Publisher.Send(j.EventQueue, body)
	})
	if err != nil {
		slog.Warn("Failed to publish score event", "organization", event.OrganizationID, "error", err)
	}
}

func (j *ScoreJob) jobDone(result string) {
	if j.Metrics != nil {
		j.Metrics.JobDone(result)
	}
}

// Processor adapts the job to a queue listener. Errors are logged.
func (j *ScoreJob) Processor(ctx context.Context) queue.MessageProcessor {
	return func(msg string) {
		if err := j.Handle(ctx, msg); err != nil {
			if errors.Is(err, ErrInvalidRequest) {
				slog.Warn("Rejected score request", "error", err)
				return
			}
			slog.Error("Score job failed", "error", err)
		}
	}
}
