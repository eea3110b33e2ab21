// File: snapshot_loader.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ShieldDesk/go-api/shield"
	"github.com/ShieldDesk/go-api/shield/postgres/models"
	"github.com/ShieldDesk/go-api/shield/score"
	"gorm.io/gorm"
)

// LoadSnapshot reads an organization's scoring inputs: active employees, all
// devices, all threats, completed simulations and the training assignments of
// active employees. TotalEmployees and TotalDevices are the lengths of the
// loaded lists.
func LoadSnapshot(ctx context.Context, db *gorm.DB, orgID string, asOf time.Time) (score.Input, error) {
	tx := db.WithContext(ctx)

	var employees []models.Employee
	if err := tx.Where("organization_id = ? AND active = ?", orgID, true).Find(&employees).Error; err != nil {
		return score.Input{}, fmt.Errorf("load employees: %w", err)
	}

	var devices []models.Device
	if err := tx.Where("organization_id = ?", orgID).Find(&devices).Error; err != nil {
		return score.Input{}, fmt.Errorf("load devices: %w", err)
	}

	var threats []models.Threat
	if err := tx.Where("organization_id = ?", orgID).Find(&threats).Error; err != nil {
		return score.Input{}, fmt.Errorf("load threats: %w", err)
	}

	var simulations []models.Simulation
	if err := tx.Where("organization_id = ? AND status = ?", orgID, models.SimulationCompleted).Find(&simulations).Error; err != nil {
		return score.Input{}, fmt.Errorf("load simulations: %w", err)
	}

	var assignments []models.TrainingAssignment
	activeIDs := tx.Model(&models.Employee{}).
		Select("external_id").
		Where("organization_id = ? AND active = ?", orgID, true)
	if err := tx.Where("organization_id = ? AND employee_id IN (?)", orgID, activeIDs).Find(&assignments).Error; err != nil {
		return score.Input{}, fmt.Errorf("load training assignments: %w", err)
	}

	return BuildInput(employees, devices, threats, simulations, assignments, asOf), nil
}

// BuildInput converts loaded rows into a scoring snapshot. Training assignments
// whose employee is not in employees are dropped, so completions never exceed
// the employee count they are divided by.
func BuildInput(
	employees []models.Employee,
	devices []models.Device,
	threats []models.Threat,
	simulations []models.Simulation,
	assignments []models.TrainingAssignment,
	asOf time.Time,
) score.Input {
	in := score.Input{
		Employees:           make([]shield.Employee, 0, len(employees)),
		Devices:             make([]shield.Device, 0, len(devices)),
		Threats:             make([]shield.Threat, 0, len(threats)),
		Simulations:         make([]shield.Simulation, 0, len(simulations)),
		TrainingAssignments: make([]shield.TrainingAssignment, 0, len(assignments)),
		TotalEmployees:      len(employees),
		TotalDevices:        len(devices),
		AsOf:                asOf,
	}

	employeeIDs := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		in.Employees = append(in.Employees, e.ToEntity())
		employeeIDs[e.ExternalID] = struct{}{}
	}
	for _, d := range devices {
		in.Devices = append(in.Devices, d.ToEntity())
	}
	for _, t := range threats {
		in.Threats = append(in.Threats, t.ToEntity())
	}
	for _, s := range simulations {
		in.Simulations = append(in.Simulations, s.ToEntity())
	}
	for _, a := range assignments {
		if _, ok := employeeIDs[a.EmployeeID]; !ok {
			continue
		}
		in.TrainingAssignments = append(in.TrainingAssignments, a.ToEntity())
	}

	return in
}
