// File: connection.go
package postgres

import (
	"fmt"
	"log/slog"

	"github.com/ShieldDesk/go-api/shield/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDSN is used when no DSN is configured.
const DefaultDSN = "host=localhost user=postgres password=password dbname=shielddesk port=5432 sslmode=disable"

// Open opens the database without touching the schema.
func Open(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	return conn, nil
}

// Connect opens the database and migrates the schema.
func Connect(dsn string) (*gorm.DB, error) {
	conn, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	slog.Info("Connected to database")
	return conn, nil
}

// Migrate creates or updates the tables used by the score pipeline.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Employee{},
		&models.Device{},
		&models.Threat{},
		&models.Simulation{},
		&models.TrainingAssignment{},
		&models.SecurityScore{},
	)
	if err != nil {
		return fmt.Errorf("error migrating database schema: %w", err)
	}
	return nil
}

// Ping checks that the underlying connection pool is reachable.
func Ping(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("get sql handle: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
