package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexshop/jobshop-sim/pkg/config"
)

func TestDefaultConfigMatchesReferenceDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, 1.0, cfg.Simulation.TickSeconds)
	assert.Equal(t, 5, cfg.Simulation.SeedJobs)
	assert.Equal(t, 10, cfg.Planner.IHAInterval)
	assert.Equal(t, 5, cfg.Predictor.Window)
	assert.Equal(t, 1, cfg.Predictor.FlushDelay)
	assert.Equal(t, 0.32, cfg.Predictor.ThresholdFloor)
	assert.Equal(t, 0.80, cfg.Predictor.NearLimitRatio)
	assert.Equal(t, 0.07, cfg.Physics.FailureSpikeProb)
	assert.True(t, cfg.Physics.RepairIdleReset)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadParsesYAMLAndExpandsEnv(t *testing.T) {
	t.Setenv("JOBSHOP_SEED_JOBS_NOTE", "env-expanded")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "simulation:\n  seed_jobs: 9\nreporting:\n  output_dir: \"${JOBSHOP_SEED_JOBS_NOTE}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Simulation.SeedJobs)
	assert.Equal(t, "env-expanded", cfg.Reporting.OutputDir)
}

func TestLoadAppliesPubSubProjectEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pubsub:\n  project_id: from-file\n"), 0o644))

	t.Setenv("JOBSHOP_PUBSUB_PROJECT", "from-env")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.PubSub.ProjectID)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.Seed = 42

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), loaded.Simulation.Seed)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Simulation.TickMinutes = 0
	assert.Error(t, cfg.Validate())

	cfg = config.DefaultConfig()
	cfg.Planner.IHAInterval = 0
	assert.Error(t, cfg.Validate())
}
