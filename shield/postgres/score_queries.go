// File: score_queries.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ShieldDesk/go-api/shield/postgres/models"
	"gorm.io/gorm"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 500
)

// ScoreFilters represents filters for querying stored scores
type ScoreFilters struct {
	Limit          int
	Offset         int
	OrganizationID string
	RiskLevel      string
	StartTime      *time.Time
	EndTime        *time.Time
}

// normalize clamps pagination to sane bounds.
func (f ScoreFilters) normalize() ScoreFilters {
	if f.Limit <= 0 {
		f.Limit = defaultQueryLimit
	}
	if f.Limit > maxQueryLimit {
		f.Limit = maxQueryLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// ScoreStats represents aggregated score statistics
type ScoreStats struct {
	TotalScores   int            `json:"total_scores"`
	Organizations int            `json:"organizations"`
	AverageScore  float64        `json:"average_score"`
	ByRiskLevel   map[string]int `json:"by_risk_level"`
}

// GetScores retrieves stored scores, newest first, and the total matching count.
func GetScores(ctx context.Context, db *gorm.DB, filters ScoreFilters) ([]models.SecurityScore, int, error) {
	filters = filters.normalize()

	query := db.WithContext(ctx).Model(&models.SecurityScore{})

	if filters.OrganizationID != "" {
		query = query.Where("organization_id = ?", filters.OrganizationID)
	}
	if filters.RiskLevel != "" {
		query = query.Where("risk_level = ?", filters.RiskLevel)
	}
	if filters.StartTime != nil {
		query = query.Where("calculated_at >= ?", filters.StartTime)
	}
	if filters.EndTime != nil {
		query = query.Where("calculated_at <= ?", filters.EndTime)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count scores: %w", err)
	}

	var rows []models.SecurityScore
	err := query.
		Order("calculated_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query scores: %w", err)
	}

	return rows, int(total), nil
}

// GetScoreStatistics aggregates every stored score.
func GetScoreStatistics(ctx context.Context, db *gorm.DB) (*ScoreStats, error) {
	tx := db.WithContext(ctx)
	stats := &ScoreStats{ByRiskLevel: make(map[string]int)}

	var summary struct {
		Total         int64
		Organizations int64
		Average       float64
	}
	if err := tx.Model(&models.SecurityScore{}).
		Select("COUNT(*) AS total, COUNT(DISTINCT organization_id) AS organizations, COALESCE(AVG(total_score), 0) AS average").
		Scan(&summary).Error; err != nil {
		return nil, fmt.Errorf("failed to summarize scores: %w", err)
	}
	stats.TotalScores = int(summary.Total)
	stats.Organizations = int(summary.Organizations)
	stats.AverageScore = summary.Average

	var riskCounts []struct {
		RiskLevel string
		Count     int
	}
	if err := tx.Model(&models.SecurityScore{}).
		Select("risk_level, COUNT(*) as count").
		Group("risk_level").
		Scan(&riskCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count by risk level: %w", err)
	}
	for _, item := range riskCounts {
		stats.ByRiskLevel[item.RiskLevel] = item.Count
	}

	return stats, nil
}

// DeleteOldScores removes scores calculated before now minus olderThan.
func DeleteOldScores(ctx context.Context, db *gorm.DB, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := db.WithContext(ctx).Where("calculated_at < ?", cutoff).Delete(&models.SecurityScore{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete old scores: %w", result.Error)
	}
	return result.RowsAffected, nil
}
