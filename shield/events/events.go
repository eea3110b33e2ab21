// Package events defines the messages the score pipeline publishes for
// downstream reporting and notification services.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/google/uuid"
)

// EventTypeScoreCalculated is emitted after a score has been persisted.
const EventTypeScoreCalculated = "score_calculated"

// ScoreEvent announces a newly calculated security score.
type ScoreEvent struct {
	EventID             string          `json:"event_id"`
	EventType           string          `json:"event_type"`
	OrganizationID      string          `json:"organization_id"`
	OverallScore        int             `json:"overall_score"`
	RiskLevel           score.RiskLevel `json:"risk_level"`
	Movement            score.Movement  `json:"movement"`
	RecommendationCount int             `json:"recommendation_count"`
	Timestamp           time.Time       `json:"timestamp"`
}

// NewScoreEvent builds the event for result. previous is the organization's
// prior overall score, or negative when this is the first run.
func NewScoreEvent(orgID string, result score.SecurityScoreResult, previous int, at time.Time) ScoreEvent {
	return ScoreEvent{
		EventID:             uuid.NewString(),
		EventType:           EventTypeScoreCalculated,
		OrganizationID:      orgID,
		OverallScore:        result.OverallScore,
		RiskLevel:           result.RiskLevel,
		Movement:            score.CompareScores(previous, result.OverallScore),
		RecommendationCount: len(result.Recommendations),
		Timestamp:           at.UTC(),
	}
}

// Marshal encodes the event as the queue message body.
func (e ScoreEvent) Marshal() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", e.EventType, err)
	}
	return string(data), nil
}

// ScoreRequest asks the worker to score one organization.
type ScoreRequest struct {
	OrganizationID string `json:"organization_id"`
}

// ParseScoreRequest decodes and validates a queue message body.
func ParseScoreRequest(body string) (ScoreRequest, error) {
	var req ScoreRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return ScoreRequest{}, fmt.Errorf("decode score request: %w", err)
	}
	if req.OrganizationID == "" {
		return ScoreRequest{}, fmt.Errorf("score request has no organization_id")
	}
	return req, nil
}

// Marshal encodes the request as a queue message body.
func (r ScoreRequest) Marshal() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal score request: %w", err)
	}
	return string(data), nil
}
