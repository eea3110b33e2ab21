// Package shield holds the organization entities that feed the security score.
// Collectors own these values; the scoring code only reads them.
package shield

import "time"

// ========================= Employee =========================
type Employee struct {
	ID                  string    `json:"id"`
	MFAEnabled          bool      `json:"mfaEnabled"`
	PasswordLastChanged time.Time `json:"passwordLastChanged"`
}

// ========================= Device =========================
type AgentStatus string

const (
	AgentOnline   AgentStatus = "online"
	AgentOffline  AgentStatus = "offline"
	AgentOutdated AgentStatus = "outdated"
)

type Device struct {
	ID          string      `json:"id"`
	AgentStatus AgentStatus `json:"agentStatus"`
}

// ========================= Threat =========================
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

type ThreatStatus string

const (
	ThreatDetected      ThreatStatus = "detected"
	ThreatQuarantined   ThreatStatus = "quarantined"
	ThreatResolved      ThreatStatus = "resolved"
	ThreatFalsePositive ThreatStatus = "false_positive"
)

type Threat struct {
	ID         string       `json:"id"`
	Severity   Severity     `json:"severity"`
	Status     ThreatStatus `json:"status"`
	ResolvedAt *time.Time   `json:"resolvedAt,omitempty"`
}

// IsResolved reports whether the threat has been closed out. Quarantined and
// false-positive threats still count as open.
func (t Threat) IsResolved() bool {
	return t.Status == ThreatResolved
}

// ========================= Simulation =========================

// SimulationMetrics carries phishing campaign rates as percentages (0-100).
type SimulationMetrics struct {
	ClickRate float64 `json:"clickRate"`
	OpenRate  float64 `json:"openRate"`
}

type Simulation struct {
	ID      string            `json:"id"`
	Metrics SimulationMetrics `json:"metrics"`
}

// ========================= Training =========================
type TrainingStatus string

const (
	TrainingAssigned   TrainingStatus = "assigned"
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingCompleted  TrainingStatus = "completed"
	TrainingOverdue    TrainingStatus = "overdue"
)

type TrainingAssignment struct {
	ID         string         `json:"id"`
	EmployeeID string         `json:"employeeId"`
	Status     TrainingStatus `json:"status"`
}
