package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ShieldDesk/go-api/shield/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{
  "employees": [
    {"id": "e1", "mfaEnabled": true, "passwordLastChanged": "2025-05-20T00:00:00Z"},
    {"id": "e2", "mfaEnabled": false, "passwordLastChanged": "2024-01-01T00:00:00Z"}
  ],
  "devices": [{"id": "d1", "agentStatus": "online"}],
  "threats": [{"id": "t1", "severity": "medium", "status": "detected"}],
  "simulations": [],
  "trainingAssignments": [{"id": "a1", "employeeId": "e1", "status": "completed"}],
  "totalEmployees": 2,
  "totalDevices": 1,
  "asOf": "2025-06-01T00:00:00Z"
}`

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(snapshotJSON), 0600))
	return path
}

func TestCalculateFile(t *testing.T) {
	path := writeSnapshot(t)

	result, err := calculateFile(path, false)
	require.NoError(t, err)

	// 12.5 + 20 + 19 + 7.5 + 10 + 5
	assert.Equal(t, 74, result.OverallScore)
	assert.Equal(t, score.RiskLow, result.RiskLevel)
	assert.Empty(t, result.Recommendations)

	withRecs, err := calculateFile(path, true)
	require.NoError(t, err)
	assert.Len(t, withRecs.Recommendations, 3)
}

func TestCalculateFileErrors(t *testing.T) {
	_, err := calculateFile(filepath.Join(t.TempDir(), "missing.json"), false)
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0600))
	_, err = calculateFile(bad, false)
	assert.Error(t, err)
}

func TestWriteJSONAndCategories(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"overallScore": 74}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 74, decoded["overallScore"])

	assert.True(t, validCategory(score.CategoryPassword))
	assert.False(t, validCategory("firewall"))
}
