package reporting_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/config"
	"github.com/flexshop/jobshop-sim/pkg/reporting"
)

func testLogger() *reporting.Logger {
	return reporting.NewLogger(reporting.LoggerConfig{Level: reporting.LogLevelError, Format: reporting.LogFormatJSON})
}

func TestNewLoggerFromConfigMapsLevelWithTextFormat(t *testing.T) {
	log := reporting.NewLoggerFromConfig(config.ReportingConfig{LogLevel: "debug", LogFormat: "text"})
	require.NotNil(t, log)
	assert.Equal(t, "debug", log.GetZerologLogger().GetLevel().String())
}

func TestNewLoggerFromConfigMapsLevelWithJSONFormat(t *testing.T) {
	log := reporting.NewLoggerFromConfig(config.ReportingConfig{LogLevel: "info", LogFormat: "json"})
	require.NotNil(t, log)
	assert.Equal(t, "info", log.GetZerologLogger().GetLevel().String())
}

func TestSaveAndLoadSummaryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := reporting.NewStorage(dir, 20, testLogger())
	require.NoError(t, err)

	summary := &reporting.RunSummary{
		RunID:         "run-1",
		Seed:          7,
		StartTime:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2026, 1, 1, 12, 5, 0, 0, time.UTC),
		TicksRun:      300,
		JobsCompleted: 12,
		JobsFailed:    2,
		Status:        reporting.RunStatusCompleted,
	}

	path, err := storage.SaveSummary(summary)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := storage.LoadSummary(path)
	require.NoError(t, err)
	assert.Equal(t, summary.RunID, loaded.RunID)
	assert.Equal(t, summary.TicksRun, loaded.TicksRun)
	assert.Equal(t, summary.Status, loaded.Status)
}

func TestFindSummaryByRunIDReturnsErrorWhenMissing(t *testing.T) {
	dir := t.TempDir()
	storage, err := reporting.NewStorage(dir, 20, testLogger())
	require.NoError(t, err)

	_, err = storage.FindSummaryByRunID("does-not-exist")
	assert.Error(t, err)
}

func TestFindSummaryByRunIDLocatesSavedSummary(t *testing.T) {
	dir := t.TempDir()
	storage, err := reporting.NewStorage(dir, 20, testLogger())
	require.NoError(t, err)

	summary := &reporting.RunSummary{RunID: "run-find-me", StartTime: time.Now(), Status: reporting.RunStatusFailed}
	_, err = storage.SaveSummary(summary)
	require.NoError(t, err)

	found, err := storage.FindSummaryByRunID("run-find-me")
	require.NoError(t, err)
	assert.Equal(t, reporting.RunStatusFailed, found.Status)
}

func TestCleanupKeepsOnlyLastN(t *testing.T) {
	dir := t.TempDir()
	storage, err := reporting.NewStorage(dir, 2, testLogger())
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		summary := &reporting.RunSummary{
			RunID:     filepath.Base(filepath.Join("run", string(rune('a'+i)))),
			StartTime: base.Add(time.Duration(i) * time.Hour),
			Status:    reporting.RunStatusCompleted,
		}
		_, err := storage.SaveSummary(summary)
		require.NoError(t, err)
	}

	indexes, err := storage.ListSummaries()
	require.NoError(t, err)
	assert.Len(t, indexes, 2)
	// newest first
	assert.True(t, indexes[0].StartTime.After(indexes[1].StartTime))
}
