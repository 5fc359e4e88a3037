package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/contentrec/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.InDelta(t, 0.40, cfg.Scoring.Weights.Tag, 1e-12)
	assert.InDelta(t, 0.1, cfg.Scoring.Threshold, 1e-12)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Timeout)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contentrec.yaml")
	content := `
store:
  driver: memory
  prefix: test
scoring:
  default_limit: 5
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONTENTREC_BATCH_CONCURRENCY", "3")
	t.Setenv("CONTENTREC_SCORING__DECAY_DAYS", "15")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "test", cfg.Store.Prefix)
	assert.Equal(t, 5, cfg.Scoring.DefaultLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3, cfg.BatchConcurrency)
	assert.InDelta(t, 15.0, cfg.Scoring.DecayDays, 1e-12)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"unknown driver", func(s *Settings) { s.Store.Driver = "mongo" }},
		{"redis without addr", func(s *Settings) { s.Store.Driver = "redis"; s.Store.RedisAddr = "" }},
		{"weights do not sum to one", func(s *Settings) { s.Scoring.Weights.Tag = 0.9 }},
		{"zero concurrency", func(s *Settings) { s.BatchConcurrency = 0 }},
		{"bad log level", func(s *Settings) { s.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err), "got %v", err)
		})
	}

	require.NoError(t, DefaultSettings().Validate())
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "scoring.weights.tag", envTransformFunc("CONTENTREC_SCORING__WEIGHTS__TAG"))
	assert.Equal(t, "pipeline_path", envTransformFunc("CONTENTREC_PIPELINE_PATH"))
}
