package store

import (
	"errors"
	"time"

	"github.com/ShieldDesk/go-api/shield/score"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("key not found")

// SnapshotIDFormat produces sortable snapshot IDs (e.g. 2025-11-03-143025).
const SnapshotIDFormat = "2006-01-02-150405"

// ScoreSnapshot is a persisted security score for one organization at a point in time
type ScoreSnapshot struct {
	SnapshotID     string                    `json:"snapshot_id"` // YYYY-MM-DD-HHMMSS format
	OrganizationID string                    `json:"organization_id"`
	Timestamp      time.Time                 `json:"timestamp"`
	Result         score.SecurityScoreResult `json:"result"`
	Metadata       SnapshotMetadata          `json:"metadata"`
}

// SnapshotMetadata describes the inputs behind a snapshot
type SnapshotMetadata struct {
	TotalEmployees        int   `json:"total_employees"`
	TotalDevices          int   `json:"total_devices"`
	ThreatCount           int   `json:"threat_count"`
	SimulationCount       int   `json:"simulation_count"`
	CalculationDurationMs int64 `json:"calculation_duration_ms"`
}

// Samples expands the snapshot into one trend sample per category.
func (s *ScoreSnapshot) Samples() []score.TrendSample {
	return score.Samples(s.Timestamp, s.Result.OverallScore, s.Result.Breakdown)
}
