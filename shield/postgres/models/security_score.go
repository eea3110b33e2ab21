// File: security_score.go
package models

import (
	"time"

	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/google/uuid"
)

// SecurityScore is one persisted scoring run for an organization
type SecurityScore struct {
	ID              uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID  string                 `gorm:"not null;size:255;index:idx_security_scores_org_calculated,priority:1" json:"organization_id"`
	TotalScore      int                    `gorm:"not null" json:"total_score"`
	RiskLevel       string                 `gorm:"not null;size:20" json:"risk_level"`
	MFAScore        float64                `json:"mfa_score"`
	AgentScore      float64                `json:"agent_score"`
	BreachScore     float64                `json:"breach_score"`
	TrainingScore   float64                `json:"training_score"`
	SimulationScore float64                `json:"simulation_score"`
	PasswordScore   float64                `json:"password_score"`
	Details         []string               `gorm:"type:jsonb;serializer:json" json:"details"`
	Recommendations []score.Recommendation `gorm:"type:jsonb;serializer:json" json:"recommendations,omitempty"`
	CalculatedAt    time.Time              `gorm:"not null;index:idx_security_scores_org_calculated,priority:2,sort:desc" json:"calculated_at"`
	CreatedAt       time.Time              `json:"created_at"`
}

// TableName specifies the table name for the SecurityScore model
func (SecurityScore) TableName() string {
	return "security_scores"
}

// NewSecurityScore builds a row from a scoring result.
func NewSecurityScore(orgID string, result score.SecurityScoreResult, calculatedAt time.Time) SecurityScore {
	b := result.Breakdown
	return SecurityScore{
		ID:              uuid.New(),
		OrganizationID:  orgID,
		TotalScore:      result.OverallScore,
		RiskLevel:       result.RiskLevel.String(),
		MFAScore:        b.MFAScore,
		AgentScore:      b.AgentScore,
		BreachScore:     b.BreachScore,
		TrainingScore:   b.TrainingScore,
		SimulationScore: b.SimulationScore,
		PasswordScore:   b.PasswordScore,
		Details:         result.Details,
		Recommendations: result.Recommendations,
		CalculatedAt:    calculatedAt,
	}
}

// Breakdown returns the stored sub-scores.
func (s SecurityScore) Breakdown() score.Breakdown {
	return score.Breakdown{
		MFAScore:        s.MFAScore,
		AgentScore:      s.AgentScore,
		BreachScore:     s.BreachScore,
		TrainingScore:   s.TrainingScore,
		SimulationScore: s.SimulationScore,
		PasswordScore:   s.PasswordScore,
	}
}

// Result rebuilds the scoring result. An unknown stored risk level is
// reclassified from the total.
func (s SecurityScore) Result() score.SecurityScoreResult {
	level, err := score.ParseRiskLevel(s.RiskLevel)
	if err != nil {
		level = score.ClassifyRisk(s.TotalScore)
	}
	return score.SecurityScoreResult{
		OverallScore:    s.TotalScore,
		RiskLevel:       level,
		Breakdown:       s.Breakdown(),
		Details:         s.Details,
		Recommendations: s.Recommendations,
	}
}
