// Package score computes an organization's security posture score from a
// snapshot of its entities.
//
// Scoring breakdown (100 points):
//   - MFA enrollment:         25
//   - Agent health:           20
//   - Breach history:         20
//   - Training completion:    15
//   - Simulation performance: 10
//   - Password hygiene:       10
//
// Every function here is pure. Callers fetch the snapshot and persist the
// result; nothing in this package performs I/O or keeps state between calls,
// so independent snapshots can be scored concurrently.
package score

import "math"

// SecurityScoreResult is the outcome of one scoring run.
type SecurityScoreResult struct {
	OverallScore    int              `json:"overallScore"`
	RiskLevel       RiskLevel        `json:"riskLevel"`
	Breakdown       Breakdown        `json:"breakdown"`
	Details         []string         `json:"details"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// CalculateSecurityScore scores the snapshot without building recommendations.
func CalculateSecurityScore(in Input) SecurityScoreResult {
	breakdown := CalculateBreakdown(in)
	overall := OverallScore(breakdown)

	return SecurityScoreResult{
		OverallScore: overall,
		RiskLevel:    ClassifyRisk(overall),
		Breakdown:    breakdown,
		Details:      GenerateDetails(breakdown, in),
	}
}

// Assess scores the snapshot and attaches the remediation list.
func Assess(in Input) SecurityScoreResult {
	result := CalculateSecurityScore(in)
	result.Recommendations = GenerateRecommendations(result.Breakdown)
	return result
}

// OverallScore rounds the summed sub-scores once. Sub-scores are never rounded
// individually.
func OverallScore(b Breakdown) int {
	total := math.Round(b.Total())
	switch {
	case math.IsNaN(total), total < 0:
		return 0
	case total > 100:
		return 100
	}
	return int(total)
}
