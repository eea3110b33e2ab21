// File: organization.go
package models

import (
	"time"

	"github.com/ShieldDesk/go-api/shield"
	"gorm.io/gorm"
)

// Employee is an organization member. Inactive employees are excluded from
// scoring. Active has no column default, so a false value is always written.
type Employee struct {
	gorm.Model
	ExternalID          string `gorm:"size:255;uniqueIndex"`
	OrganizationID      string `gorm:"size:255;index;not null"`
	Email               string `gorm:"size:255"`
	Active              bool   `gorm:"not null;index"`
	MFAEnabled          bool
	PasswordLastChanged time.Time
}

func (e Employee) ToEntity() shield.Employee {
	return shield.Employee{
		ID:                  e.ExternalID,
		MFAEnabled:          e.MFAEnabled,
		PasswordLastChanged: e.PasswordLastChanged,
	}
}

type Device struct {
	gorm.Model
	ExternalID     string `gorm:"size:255;uniqueIndex"`
	OrganizationID string `gorm:"size:255;index;not null"`
	Hostname       string `gorm:"size:255"`
	AgentStatus    string `gorm:"size:20"`
	LastSeen       *time.Time
}

func (d Device) ToEntity() shield.Device {
	return shield.Device{
		ID:          d.ExternalID,
		AgentStatus: shield.AgentStatus(d.AgentStatus),
	}
}

type Threat struct {
	gorm.Model
	ExternalID     string `gorm:"size:255;uniqueIndex"`
	OrganizationID string `gorm:"size:255;index;not null"`
	DeviceID       string `gorm:"size:255"`
	Title          string `gorm:"size:255"`
	Severity       string `gorm:"size:20;index"`
	Status         string `gorm:"size:20;index"`
	DetectedAt     time.Time
	ResolvedAt     *time.Time
}

func (t Threat) ToEntity() shield.Threat {
	return shield.Threat{
		ID:         t.ExternalID,
		Severity:   shield.Severity(t.Severity),
		Status:     shield.ThreatStatus(t.Status),
		ResolvedAt: t.ResolvedAt,
	}
}

// Simulation is a phishing campaign. Rates are stored as percentages.
type Simulation struct {
	gorm.Model
	ExternalID     string `gorm:"size:255;uniqueIndex"`
	OrganizationID string `gorm:"size:255;index;not null"`
	Name           string `gorm:"size:255"`
	Status         string `gorm:"size:20;index"`
	ClickRate      float64
	OpenRate       float64
	CompletedAt    *time.Time
}

// SimulationCompleted is the only status that contributes to scoring.
const SimulationCompleted = "completed"

func (s Simulation) ToEntity() shield.Simulation {
	return shield.Simulation{
		ID: s.ExternalID,
		Metrics: shield.SimulationMetrics{
			ClickRate: s.ClickRate,
			OpenRate:  s.OpenRate,
		},
	}
}

type TrainingAssignment struct {
	gorm.Model
	ExternalID     string `gorm:"size:255;uniqueIndex"`
	OrganizationID string `gorm:"size:255;index;not null"`
	EmployeeID     string `gorm:"size:255;index"`
	ModuleName     string `gorm:"size:255"`
	Status         string `gorm:"size:20"`
	DueDate        *time.Time
}

func (a TrainingAssignment) ToEntity() shield.TrainingAssignment {
	return shield.TrainingAssignment{
		ID:         a.ExternalID,
		EmployeeID: a.EmployeeID,
		Status:     shield.TrainingStatus(a.Status),
	}
}
