package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/migrakit/migrakit/internal/adapters/outbound/report"
	"github.com/migrakit/migrakit/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport(ts time.Time, rec domain.Recommendation) *domain.ReadinessReport {
	return &domain.ReadinessReport{
		RunID:     uuid.New(),
		Timestamp: ts,
		Decision: domain.Decision{
			Recommendation: rec,
			Confidence:     65,
			Blockers: []domain.DecisionFinding{{
				Type:     "REFERENTIAL_INTEGRITY",
				Severity: domain.SeverityCritical,
				Message:  "1 critical referential integrity violations found",
				Category: "data",
			}},
			SystemChecks: domain.SystemChecks{domain.CheckDatabaseConnection: true},
		},
		Quality:   &domain.QualityReport{OverallScore: 96.67, QualityLevel: domain.QualityExcellent},
		NextSteps: rec.NextSteps(),
	}
}

func TestStore_SaveAndLatest(t *testing.T) {
	dir := t.TempDir()
	s := report.New(".migrakit/reports", domain.FormatJSON)

	ts := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	want := sampleReport(ts, domain.RecommendBlock)

	path, err := s.Save(dir, want)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".migrakit", "reports", "migration-go-no-go-2026-02-25T10-00-00Z.json"), path)

	got, err := s.Latest(dir)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.RunID, got.RunID)
	assert.True(t, want.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, want.Decision, got.Decision)
	assert.Equal(t, want.NextSteps, got.NextSteps)
}

func TestStore_LatestPicksNewest(t *testing.T) {
	dir := t.TempDir()
	s := report.New(".migrakit/reports", domain.FormatJSON)

	base := time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	_, err := s.Save(dir, sampleReport(base.Add(time.Hour), domain.RecommendGo))
	require.NoError(t, err)
	_, err = s.Save(dir, sampleReport(base, domain.RecommendBlock))
	require.NoError(t, err)

	got, err := s.Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.RecommendGo, got.Decision.Recommendation)
}

func TestStore_YAML(t *testing.T) {
	dir := t.TempDir()
	s := report.New(".migrakit/reports", domain.FormatYAML)
	want := sampleReport(time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC), domain.RecommendDelay)

	path, err := s.Save(dir, want)
	require.NoError(t, err)
	assert.Equal(t, ".yaml", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "recommendation: DELAY")

	got, err := s.Latest(dir)
	require.NoError(t, err)
	assert.Equal(t, want.RunID, got.RunID)
	assert.Equal(t, domain.RecommendDelay, got.Decision.Recommendation)
	assert.Equal(t, 96.67, got.Quality.OverallScore)
}

func TestStore_AbsoluteDir(t *testing.T) {
	reports := t.TempDir()
	s := report.New(reports, "")

	path, err := s.Save(t.TempDir(), sampleReport(time.Now(), domain.RecommendGo))
	require.NoError(t, err)
	assert.Equal(t, reports, filepath.Dir(path))
}

func TestStore_LatestEmpty(t *testing.T) {
	got, err := report.New(".migrakit/reports", domain.FormatJSON).Latest(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_LatestCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "migration-go-no-go-2026-01-01T00-00-00Z.json"), []byte("{"), 0o644))

	_, err := report.New(dir, domain.FormatJSON).Latest(t.TempDir())
	assert.ErrorContains(t, err, "parsing")
}

func TestEncode_JSONFieldNames(t *testing.T) {
	data, err := report.Encode(sampleReport(time.Now(), domain.RecommendBlock), domain.FormatJSON)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"run_id", "timestamp", "execution_time_ms", "decision", "validation", "quality", "next_steps"} {
		assert.Contains(t, raw, key)
	}

	_, err = report.Encode(sampleReport(time.Now(), domain.RecommendGo), "xml")
	assert.Error(t, err)
}
