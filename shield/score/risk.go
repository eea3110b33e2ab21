package score

import "fmt"

// RiskLevel is the ordinal tier derived from the overall score.
type RiskLevel string

const (
	RiskCritical  RiskLevel = "critical"
	RiskHigh      RiskLevel = "high"
	RiskMedium    RiskLevel = "medium"
	RiskLow       RiskLevel = "low"
	RiskExcellent RiskLevel = "excellent"
)

// ClassifyRisk maps an overall score to its tier. A score sitting exactly on a
// boundary (20, 40, 60, 80) belongs to the higher tier.
func ClassifyRisk(overall int) RiskLevel {
	switch {
	case overall < 20:
		return RiskCritical
	case overall < 40:
		return RiskHigh
	case overall < 60:
		return RiskMedium
	case overall < 80:
		return RiskLow
	default:
		return RiskExcellent
	}
}

// ParseRiskLevel reconstructs a RiskLevel from its stored string form.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow, RiskExcellent:
		return RiskLevel(s), nil
	default:
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
}

func (r RiskLevel) String() string {
	return string(r)
}
