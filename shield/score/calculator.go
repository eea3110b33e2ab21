package score

import (
	"math"
	"time"

	"github.com/ShieldDesk/go-api/shield"
)

// Point caps for each scoring dimension. They sum to 100.
const (
	MaxMFAScore        = 25.0
	MaxAgentScore      = 20.0
	MaxBreachScore     = 20.0
	MaxTrainingScore   = 15.0
	MaxSimulationScore = 10.0
	MaxPasswordScore   = 10.0
)

const (
	// recentResolutionWindow is how long a resolved threat keeps costing points.
	recentResolutionWindow = 30
	// passwordMaxAgeDays is the rotation window for a compliant password.
	passwordMaxAgeDays = 90
)

// Input is a point-in-time snapshot of an organization's security signals.
type Input struct {
	Employees           []shield.Employee           `json:"employees"`
	Devices             []shield.Device             `json:"devices"`
	Threats             []shield.Threat             `json:"threats"`
	Simulations         []shield.Simulation         `json:"simulations"`
	TrainingAssignments []shield.TrainingAssignment `json:"trainingAssignments"`
	TotalEmployees      int                         `json:"totalEmployees"`
	TotalDevices        int                         `json:"totalDevices"`

	// AsOf anchors the 30 and 90 day windows. Zero means time.Now().
	AsOf time.Time `json:"asOf,omitempty"`
}

func (in Input) now() time.Time {
	if in.AsOf.IsZero() {
		return time.Now()
	}
	return in.AsOf
}

// Breakdown holds the six unrounded sub-scores. Each field stays within [0, cap].
type Breakdown struct {
	MFAScore        float64 `json:"mfaScore"`
	AgentScore      float64 `json:"agentScore"`
	BreachScore     float64 `json:"breachScore"`
	TrainingScore   float64 `json:"trainingScore"`
	SimulationScore float64 `json:"simulationScore"`
	PasswordScore   float64 `json:"passwordScore"`
}

// Total returns the unrounded sum of all sub-scores.
func (b Breakdown) Total() float64 {
	return b.MFAScore + b.AgentScore + b.BreachScore + b.TrainingScore + b.SimulationScore + b.PasswordScore
}

// CalculateBreakdown scores every dimension of the snapshot. Empty collections
// are valid input and never produce NaN or an out-of-range field.
func CalculateBreakdown(in Input) Breakdown {
	now := in.now()
	return Breakdown{
		MFAScore:        clamp(mfaScore(in.Employees), MaxMFAScore),
		AgentScore:      clamp(agentScore(in.Devices), MaxAgentScore),
		BreachScore:     clamp(breachScore(in.Threats, now), MaxBreachScore),
		TrainingScore:   clamp(trainingScore(in.TrainingAssignments, in.TotalEmployees), MaxTrainingScore),
		SimulationScore: clamp(simulationScore(in.Simulations), MaxSimulationScore),
		PasswordScore:   clamp(passwordScore(in.Employees, now), MaxPasswordScore),
	}
}

func mfaScore(employees []shield.Employee) float64 {
	if len(employees) == 0 {
		return 0
	}
	enabled := 0
	for _, e := range employees {
		if e.MFAEnabled {
			enabled++
		}
	}
	return float64(enabled) / float64(len(employees)) * MaxMFAScore
}

func agentScore(devices []shield.Device) float64 {
	if len(devices) == 0 {
		return 0
	}
	online := 0
	for _, d := range devices {
		if d.AgentStatus == shield.AgentOnline {
			online++
		}
	}
	return float64(online) / float64(len(devices)) * MaxAgentScore
}

// breachScore starts from the cap and deducts for open and recently closed threats:
// 2 per open critical/high, 1 per open medium, 0.5 per threat resolved in the
// last 30 days.
func breachScore(threats []shield.Threat, now time.Time) float64 {
	score := MaxBreachScore
	cutoff := now.AddDate(0, 0, -recentResolutionWindow)

	for _, t := range threats {
		if !t.IsResolved() {
			switch t.Severity {
			case shield.SeverityCritical, shield.SeverityHigh:
				score -= 2
			case shield.SeverityMedium:
				score -= 1
			}
			continue
		}
		if t.ResolvedAt != nil && t.ResolvedAt.After(cutoff) {
			score -= 0.5
		}
	}

	return math.Max(0, score)
}

// trainingScore counts employees with at least one completed assignment, not
// completed rows.
func trainingScore(assignments []shield.TrainingAssignment, totalEmployees int) float64 {
	if totalEmployees <= 0 {
		return 0
	}
	trained := make(map[string]struct{})
	for _, a := range assignments {
		if a.Status == shield.TrainingCompleted {
			trained[a.EmployeeID] = struct{}{}
		}
	}
	return float64(len(trained)) / float64(totalEmployees) * MaxTrainingScore
}

// simulationScore gives full marks when no campaign has run yet.
func simulationScore(simulations []shield.Simulation) float64 {
	if len(simulations) == 0 {
		return MaxSimulationScore
	}
	var totalClickRate float64
	for _, s := range simulations {
		totalClickRate += s.Metrics.ClickRate
	}
	avgClickRate := totalClickRate / float64(len(simulations))
	return math.Max(0, MaxSimulationScore-avgClickRate/10)
}

func passwordScore(employees []shield.Employee, now time.Time) float64 {
	if len(employees) == 0 {
		return 0
	}
	cutoff := now.AddDate(0, 0, -passwordMaxAgeDays)
	compliant := 0
	for _, e := range employees {
		if e.PasswordLastChanged.After(cutoff) {
			compliant++
		}
	}
	return float64(compliant) / float64(len(employees)) * MaxPasswordScore
}

// clamp bounds v to [0, max]. NaN becomes 0.
func clamp(v, max float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > max:
		return max
	default:
		return v
	}
}
