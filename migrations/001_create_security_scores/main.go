package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ShieldDesk/go-api/shield/config"
	"github.com/ShieldDesk/go-api/shield/postgres"
	"gorm.io/gorm"
)

func main() {
	rollback := len(os.Args) > 1 && os.Args[1] == "--rollback"

	cfg, err := config.Load(os.Getenv("SHIELD_CONFIG"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := postgres.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	if rollback {
		log.Println("🔄 Running migration rollback...")
		if err := migrateDown(db); err != nil {
			log.Fatalf("❌ Rollback failed: %v", err)
		}
		log.Println("✅ Rollback completed successfully")
		return
	}

	log.Println("🔄 Starting migration 001: Create security_scores table")
	if err := migrateUp(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Migration 001 completed successfully")
}

func migrateUp(db *gorm.DB) error {
	log.Println("📊 Creating security_scores table...")

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS security_scores (
		id UUID PRIMARY KEY,
		organization_id VARCHAR(255) NOT NULL,
		total_score INTEGER NOT NULL CHECK (total_score BETWEEN 0 AND 100),
		risk_level VARCHAR(20) NOT NULL,
		mfa_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		agent_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		breach_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		training_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		simulation_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		password_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		details JSONB,
		recommendations JSONB,
		calculated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	if err := db.Exec(createTableSQL).Error; err != nil {
		return fmt.Errorf("failed to create security_scores table: %w", err)
	}

	log.Println("✅ security_scores table created")

	indexSQL := "CREATE INDEX IF NOT EXISTS idx_security_scores_org_calculated ON security_scores(organization_id, calculated_at DESC);"
	if err := db.Exec(indexSQL).Error; err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	log.Println("✅ Index created")

	return nil
}

func migrateDown(db *gorm.DB) error {
	if err := db.Exec("DROP INDEX IF EXISTS idx_security_scores_org_calculated;").Error; err != nil {
		log.Printf("⚠️  Warning: Failed to drop index: %v", err)
	}

	if err := db.Exec("DROP TABLE IF EXISTS security_scores;").Error; err != nil {
		return fmt.Errorf("failed to drop security_scores table: %w", err)
	}

	log.Println("✅ security_scores table rolled back")

	return nil
}
