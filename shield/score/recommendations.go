package score

import (
	"fmt"
	"math"
)

// Priority ranks how urgently a recommendation should be acted on.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Difficulty is the expected implementation effort of a recommendation.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Recommendation is a remediation item. Action is an opaque key the calling
// system maps to a workflow.
type Recommendation struct {
	ID                       string     `json:"id"`
	Priority                 Priority   `json:"priority"`
	Title                    string     `json:"title"`
	Description              string     `json:"description"`
	Action                   string     `json:"action"`
	EstimatedImpact          float64    `json:"estimatedImpact"`
	ImplementationDifficulty Difficulty `json:"implementationDifficulty"`
}

// Detail note thresholds. These are intentionally looser than the
// recommendation thresholds below; the two sets are reported independently.
const (
	mfaDetailThreshold        = 20.0
	agentDetailThreshold      = 16.0
	trainingDetailThreshold   = 12.0
	simulationDetailThreshold = 7.0
	passwordDetailThreshold   = 8.0
)

const allGoodDetail = "All security metrics are in good shape"

// GenerateDetails produces the human-readable findings for a breakdown, in
// field order. When nothing is flagged a single positive line is returned.
func GenerateDetails(b Breakdown, in Input) []string {
	details := make([]string, 0, 6)

	if b.MFAScore < mfaDetailThreshold {
		details = append(details, fmt.Sprintf("MFA enrollment at %d%% - Encourage all employees to enable MFA",
			percentOf(b.MFAScore, MaxMFAScore)))
	}

	if b.AgentScore < agentDetailThreshold {
		details = append(details, fmt.Sprintf("Agent installation at %d%% - Deploy agent to remaining devices",
			percentOf(b.AgentScore, MaxAgentScore)))
	}

	unresolved := 0
	for _, t := range in.Threats {
		if !t.IsResolved() {
			unresolved++
		}
	}
	if unresolved > 0 {
		details = append(details, fmt.Sprintf("%d unresolved threat(s) - Review and remediate threats in dashboard", unresolved))
	}

	if b.TrainingScore < trainingDetailThreshold {
		details = append(details, "Low training completion - Assign mandatory security training modules")
	}

	if b.SimulationScore < simulationDetailThreshold {
		details = append(details, "High phishing click rate - Consider additional training and simulations")
	}

	if b.PasswordScore < passwordDetailThreshold {
		details = append(details, "Password compliance issues - Enforce strong password policies")
	}

	if len(details) == 0 {
		details = append(details, allGoodDetail)
	}

	return details
}

// GenerateRecommendations returns one item per dimension that is short of its
// cap, carrying the points that fixing it would recover. Breach and simulation
// have no recommendation.
func GenerateRecommendations(b Breakdown) []Recommendation {
	recommendations := make([]Recommendation, 0, 4)

	if b.MFAScore < MaxMFAScore {
		recommendations = append(recommendations, Recommendation{
			ID:                       "mfa-001",
			Priority:                 PriorityCritical,
			Title:                    "Increase MFA Enrollment",
			Description:              "Multi-factor authentication significantly reduces account compromise risks",
			Action:                   "mfa_enrollment_campaign",
			EstimatedImpact:          MaxMFAScore - b.MFAScore,
			ImplementationDifficulty: DifficultyEasy,
		})
	}

	if b.AgentScore < MaxAgentScore {
		recommendations = append(recommendations, Recommendation{
			ID:                       "agent-001",
			Priority:                 PriorityCritical,
			Title:                    "Deploy Agent to All Devices",
			Description:              "The security agent provides real-time threat detection and response",
			Action:                   "agent_deployment",
			EstimatedImpact:          MaxAgentScore - b.AgentScore,
			ImplementationDifficulty: DifficultyMedium,
		})
	}

	if b.TrainingScore < MaxTrainingScore {
		recommendations = append(recommendations, Recommendation{
			ID:                       "training-001",
			Priority:                 PriorityHigh,
			Title:                    "Increase Training Completion",
			Description:              "Security awareness training is crucial for employee preparedness",
			Action:                   "training_assignment",
			EstimatedImpact:          MaxTrainingScore - b.TrainingScore,
			ImplementationDifficulty: DifficultyEasy,
		})
	}

	if b.PasswordScore < MaxPasswordScore {
		recommendations = append(recommendations, Recommendation{
			ID:                       "password-001",
			Priority:                 PriorityHigh,
			Title:                    "Strengthen Password Policies",
			Description:              "Enforce regular password changes and complexity requirements",
			Action:                   "password_policy_update",
			EstimatedImpact:          MaxPasswordScore - b.PasswordScore,
			ImplementationDifficulty: DifficultyMedium,
		})
	}

	return recommendations
}

func percentOf(v, max float64) int {
	return int(math.Round(v / max * 100))
}
