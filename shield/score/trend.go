package score

import (
	"sort"
	"time"
)

// Trend categories recorded alongside each calculation.
const (
	CategoryOverall    = "overall"
	CategoryMFA        = "mfa"
	CategoryAgent      = "agent"
	CategoryBreach     = "breach"
	CategoryTraining   = "training"
	CategorySimulation = "simulation"
	CategoryPassword   = "password"
)

// TrendSample is one recorded score in a series.
type TrendSample struct {
	Date     time.Time `json:"date"`
	Score    float64   `json:"score"`
	Category string    `json:"category"`
}

// SortTrend returns the samples ordered by date, oldest first. Samples sharing a
// date keep their input order. The input slice is left untouched.
func SortTrend(samples []TrendSample) []TrendSample {
	out := make([]TrendSample, len(samples))
	copy(out, samples)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Samples expands a breakdown into one sample per category, overall first.
func Samples(date time.Time, overall int, b Breakdown) []TrendSample {
	return []TrendSample{
		{Date: date, Score: float64(overall), Category: CategoryOverall},
		{Date: date, Score: b.MFAScore, Category: CategoryMFA},
		{Date: date, Score: b.AgentScore, Category: CategoryAgent},
		{Date: date, Score: b.BreachScore, Category: CategoryBreach},
		{Date: date, Score: b.TrainingScore, Category: CategoryTraining},
		{Date: date, Score: b.SimulationScore, Category: CategorySimulation},
		{Date: date, Score: b.PasswordScore, Category: CategoryPassword},
	}
}

// Direction labels the change between two consecutive overall scores.
type Direction string

const (
	FirstRun  Direction = "first_run"
	Improving Direction = "improving"
	Declining Direction = "declining"
	Unchanged Direction = "unchanged"
)

// Movement compares a new overall score with the previous one.
type Movement struct {
	Previous  int       `json:"previous"`
	Current   int       `json:"current"`
	Delta     int       `json:"delta"`
	Direction Direction `json:"direction"`
}

// CompareScores builds the Movement from prev to curr. A negative prev means
// there is no earlier score.
func CompareScores(prev, curr int) Movement {
	m := Movement{Previous: prev, Current: curr, Direction: FirstRun}
	if prev < 0 {
		return m
	}

	m.Delta = curr - prev
	switch {
	case m.Delta > 0:
		m.Direction = Improving
	case m.Delta < 0:
		m.Direction = Declining
	default:
		m.Direction = Unchanged
	}
	return m
}
