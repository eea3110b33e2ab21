// File: score_operations.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShieldDesk/go-api/shield/postgres/models"
	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/ShieldDesk/go-api/shield/store"
	"gorm.io/gorm"
)

// ErrNoScore is returned when an organization has never been scored.
var ErrNoScore = errors.New("no security score recorded")

func SaveSecurityScore(ctx context.Context, db *gorm.DB, row *models.SecurityScore) error {
	result := db.WithContext(ctx).Create(row)
	if result.Error != nil {
		return fmt.Errorf("save security score for %s: %w", row.OrganizationID, result.Error)
	}

	slog.Debug("Saved security score", "organization", row.OrganizationID, "score", row.TotalScore)
	return nil
}

func GetLatestSecurityScore(ctx context.Context, db *gorm.DB, orgID string) (models.SecurityScore, error) {
	var row models.SecurityScore
	result := db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("calculated_at DESC").
		First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return models.SecurityScore{}, fmt.Errorf("organization %s: %w", orgID, ErrNoScore)
	}
	if result.Error != nil {
		return models.SecurityScore{}, result.Error
	}

	return row, nil
}

// GetScoreHistory returns the overall scores calculated since the given time,
// oldest first.
func GetScoreHistory(ctx context.Context, db *gorm.DB, orgID string, since time.Time) ([]score.TrendSample, error) {
	var rows []models.SecurityScore
	result := db.WithContext(ctx).
		Select("total_score", "calculated_at").
		Where("organization_id = ? AND calculated_at >= ?", orgID, since).
		Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return overallSamples(rows), nil
}

// overallSamples turns stored rows into overall-category samples, oldest first.
func overallSamples(rows []models.SecurityScore) []score.TrendSample {
	samples := make([]score.TrendSample, 0, len(rows))
	for _, row := range rows {
		samples = append(samples, score.TrendSample{
			Date:     row.CalculatedAt,
			Score:    float64(row.TotalScore),
			Category: score.CategoryOverall,
		})
	}
	return score.SortTrend(samples)
}

// ScoreRepository binds the score operations to one database handle.
type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

// LoadSnapshot reads the organization's current scoring inputs.
func (r *ScoreRepository) LoadSnapshot(ctx context.Context, orgID string, asOf time.Time) (score.Input, error) {
	return LoadSnapshot(ctx, r.DB, orgID, asOf)
}

// SaveScore persists a calculated snapshot as a security_scores row.
func (r *ScoreRepository) SaveScore(ctx context.Context, snap *store.ScoreSnapshot) error {
	row := models.NewSecurityScore(snap.OrganizationID, snap.Result, snap.Timestamp)
	return SaveSecurityScore(ctx, r.DB, &row)
}

// LatestOverall returns the most recent overall score, or false if none exists.
func (r *ScoreRepository) LatestOverall(ctx context.Context, orgID string) (int, bool, error) {
	row, err := GetLatestSecurityScore(ctx, r.DB, orgID)
	if errors.Is(err, ErrNoScore) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.TotalScore, true, nil
}
