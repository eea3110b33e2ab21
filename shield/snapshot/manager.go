package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/ShieldDesk/go-api/shield/store"
)

const (
	// DefaultHistoryLimit is how many snapshots are kept per organization.
	DefaultHistoryLimit = 10
	// DefaultCacheTTL is the lifetime in seconds of the cached latest score.
	DefaultCacheTTL = 300

	snapshotKeyPrefix = "score:snapshot:"
	latestKeyPrefix   = "score:latest:"
)

// ErrNoSnapshots is returned when an organization has no recorded score.
var ErrNoSnapshots = errors.New("no snapshots available")

// ScoreManager handles score snapshot CRUD operations and retention
type ScoreManager struct {
	kvStore      store.KVStore
	historyLimit int
	cacheTTL     int
}

// NewScoreManager creates a new ScoreManager. Non-positive limits fall back to
// the defaults.
func NewScoreManager(kvStore store.KVStore, historyLimit, cacheTTL int) *ScoreManager {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &ScoreManager{
		kvStore:      kvStore,
		historyLimit: historyLimit,
		cacheTTL:     cacheTTL,
	}
}

func snapshotKey(orgID, snapshotID string) string {
	return fmt.Sprintf("%s%s:%s", snapshotKeyPrefix, orgID, snapshotID)
}

func latestKey(orgID string) string {
	return latestKeyPrefix + orgID
}

// SaveScore stores a snapshot, refreshes the cached latest score and trims old
// history. The snapshot ID is derived from the timestamp when empty.
func (sm *ScoreManager) SaveScore(ctx context.Context, snap *store.ScoreSnapshot) error {
	if snap.OrganizationID == "" {
		return fmt.Errorf("snapshot has no organization")
	}
	if snap.SnapshotID == "" {
		snap.SnapshotID = snap.Timestamp.UTC().Format(store.SnapshotIDFormat)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := sm.kvStore.SetValue(ctx, snapshotKey(snap.OrganizationID, snap.SnapshotID), string(data)); err != nil {
		return fmt.Errorf("failed to store snapshot %s: %w", snap.SnapshotID, err)
	}

	if err := sm.cacheLatest(ctx, snap.OrganizationID, string(data)); err != nil {
		slog.Warn("Failed to cache latest score", "organization", snap.OrganizationID, "error", err)
	}

	if err := sm.CleanupOldScores(ctx, snap.OrganizationID); err != nil {
		slog.Warn("Failed to cleanup old snapshots", "organization", snap.OrganizationID, "error", err)
	}

	return nil
}

// CacheLatest stores snap as the organization's cached latest score.
func (sm *ScoreManager) CacheLatest(ctx context.Context, snap *store.ScoreSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return sm.cacheLatest(ctx, snap.OrganizationID, string(data))
}

func (sm *ScoreManager) cacheLatest(ctx context.Context, orgID, data string) error {
	return sm.kvStore.SetValueWithTTL(ctx, latestKey(orgID), data, sm.cacheTTL)
}

// GetScore retrieves a specific snapshot by organization and snapshot ID
func (sm *ScoreManager) GetScore(ctx context.Context, orgID, snapshotID string) (*store.ScoreSnapshot, error) {
	resp, err := sm.kvStore.GetValue(ctx, snapshotKey(orgID, snapshotID))
	if err != nil {
		return nil, fmt.Errorf("snapshot not found for ID %s: %w", snapshotID, err)
	}
	return decode(resp.Message.Value)
}

// ListScores returns the organization's snapshot IDs, most recent first
func (sm *ScoreManager) ListScores(ctx context.Context, orgID string) ([]string, error) {
	prefix := snapshotKey(orgID, "")
	keys, err := sm.kvStore.ListKeys(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}

	snapshotIDs := make([]string, 0, len(keys))
	for _, key := range keys {
		// Guard against glob matches that belong to another organization.
		id := strings.TrimPrefix(key, prefix)
		if id == key || id == "" || strings.Contains(id, ":") {
			continue
		}
		snapshotIDs = append(snapshotIDs, id)
	}

	// Timestamp format is sortable
	sort.Slice(snapshotIDs, func(i, j int) bool {
		return snapshotIDs[i] > snapshotIDs[j]
	})

	return snapshotIDs, nil
}

// GetLatestScore returns the most recent snapshot, from cache when possible
func (sm *ScoreManager) GetLatestScore(ctx context.Context, orgID string) (*store.ScoreSnapshot, error) {
	if cached, err := sm.kvStore.GetValue(ctx, latestKey(orgID)); err == nil {
		if snap, err := decode(cached.Message.Value); err == nil {
			return snap, nil
		}
		slog.Debug("Cached score unreadable, falling back to history", "organization", orgID)
	}

	snapshotIDs, err := sm.ListScores(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(snapshotIDs) == 0 {
		return nil, fmt.Errorf("organization %s: %w", orgID, ErrNoSnapshots)
	}

	return sm.GetScore(ctx, orgID, snapshotIDs[0])
}

// LatestOverall returns the most recent overall score, or false when the
// organization has no history.
func (sm *ScoreManager) LatestOverall(ctx context.Context, orgID string) (int, bool, error) {
	snap, err := sm.GetLatestScore(ctx, orgID)
	if errors.Is(err, ErrNoSnapshots) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return snap.Result.OverallScore, true, nil
}

// GetTrendData returns up to limit of the most recent samples in category,
// oldest first. Snapshots that fail to load are skipped.
func (sm *ScoreManager) GetTrendData(ctx context.Context, orgID, category string, limit int) ([]score.TrendSample, error) {
	if limit <= 0 || limit > sm.historyLimit {
		limit = sm.historyLimit
	}

	snapshotIDs, err := sm.ListScores(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(snapshotIDs) > limit {
		snapshotIDs = snapshotIDs[:limit]
	}

	samples := make([]score.TrendSample, 0, len(snapshotIDs))
	for _, snapshotID := range snapshotIDs {
		snap, err := sm.GetScore(ctx, orgID, snapshotID)
		if err != nil {
			slog.Debug("Skipping unreadable snapshot", "organization", orgID, "snapshot", snapshotID, "error", err)
			continue
		}
		for _, s := range snap.Samples() {
			if s.Category == category {
				samples = append(samples, s)
			}
		}
	}

	return score.SortTrend(samples), nil
}

// CleanupOldScores keeps only the most recent snapshots for an organization
func (sm *ScoreManager) CleanupOldScores(ctx context.Context, orgID string) error {
	snapshotIDs, err := sm.ListScores(ctx, orgID)
	if err != nil {
		return err
	}

	if len(snapshotIDs) <= sm.historyLimit {
		return nil
	}

	for _, snapshotID := range snapshotIDs[sm.historyLimit:] {
		key := snapshotKey(orgID, snapshotID)
		if err := sm.kvStore.DeleteValue(ctx, key); err != nil {
			slog.Warn("Failed to delete old snapshot", "key", key, "error", err)
		}
	}

	return nil
}

func decode(raw string) (*store.ScoreSnapshot, error) {
	var snap store.ScoreSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
