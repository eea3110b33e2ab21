package postgres

import (
	"testing"
	"time"

	"github.com/ShieldDesk/go-api/shield"
	"github.com/ShieldDesk/go-api/shield/postgres/models"
	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInputScoresLikeEngineInput(t *testing.T) {
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	employees := []models.Employee{
		{ExternalID: "e1", Active: true, MFAEnabled: true, PasswordLastChanged: asOf.AddDate(0, 0, -10)},
		{ExternalID: "e2", Active: true, MFAEnabled: false, PasswordLastChanged: asOf.AddDate(0, 0, -200)},
	}
	devices := []models.Device{
		{ExternalID: "d1", AgentStatus: "online"},
		{ExternalID: "d2", AgentStatus: "offline"},
	}
	threats := []models.Threat{{ExternalID: "t1", Severity: "critical", Status: "detected"}}
	simulations := []models.Simulation{{ExternalID: "s1", ClickRate: 20, Status: models.SimulationCompleted}}
	assignments := []models.TrainingAssignment{{ExternalID: "a1", EmployeeID: "e1", Status: "completed"}}

	in := BuildInput(employees, devices, threats, simulations, assignments, asOf)

	require.Len(t, in.Employees, 2)
	assert.Equal(t, 2, in.TotalEmployees)
	assert.Equal(t, 2, in.TotalDevices)
	assert.Equal(t, asOf, in.AsOf)
	assert.Equal(t, shield.AgentOffline, in.Devices[1].AgentStatus)

	b := score.CalculateBreakdown(in)
	assert.InDelta(t, 12.5, b.MFAScore, 1e-9)
	assert.InDelta(t, 10.0, b.AgentScore, 1e-9)
	assert.InDelta(t, 18.0, b.BreachScore, 1e-9)
	assert.InDelta(t, 7.5, b.TrainingScore, 1e-9)
	assert.InDelta(t, 8.0, b.SimulationScore, 1e-9)
	assert.InDelta(t, 5.0, b.PasswordScore, 1e-9)
}

func TestBuildInputEmpty(t *testing.T) {
	in := BuildInput(nil, nil, nil, nil, nil, time.Time{})

	assert.Empty(t, in.Employees)
	assert.Zero(t, in.TotalEmployees)
	assert.Equal(t, 30, score.CalculateSecurityScore(in).OverallScore)
}

func TestBuildInputDropsTrainingOfDepartedEmployees(t *testing.T) {
	employees := []models.Employee{
		{ExternalID: "e1", Active: true},
		{ExternalID: "e2", Active: true},
	}
	assignments := []models.TrainingAssignment{
		{ExternalID: "a1", EmployeeID: "gone-1", Status: "completed"},
		{ExternalID: "a2", EmployeeID: "gone-2", Status: "completed"},
		{ExternalID: "a3", EmployeeID: "e2", Status: "completed"},
	}

	in := BuildInput(employees, nil, nil, nil, assignments, time.Now())

	require.Len(t, in.TrainingAssignments, 1)
	assert.Equal(t, "e2", in.TrainingAssignments[0].EmployeeID)
	assert.InDelta(t, 7.5, score.CalculateBreakdown(in).TrainingScore, 1e-9)
}
