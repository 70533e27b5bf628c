package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "https://api.openai.com", cfg.AI.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.AI.DescModel)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.SummaryModel)
	assert.Equal(t, 4, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, 3, cfg.Pipeline.MaxRetries)
	assert.Equal(t, 900, cfg.Pipeline.DescTokens)
	assert.True(t, cfg.Pipeline.GenerateFAQs)
	assert.Equal(t, "data/history.db", cfg.History.DatabasePath)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("GO_ENV", "production")
	t.Setenv("OPENAI_DESCRIPTION_MODEL", "gpt-4.1")
	t.Setenv("PIPELINE_MAX_WORKERS", "16")
	t.Setenv("OPENAI_RATE_PER_SECOND", "0.5")
	t.Setenv("PIPELINE_DRY_RUN", "true")

	cfg := Load()

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, "gpt-4.1", cfg.AI.DescModel)
	assert.Equal(t, 16, cfg.Pipeline.MaxWorkers)
	assert.Equal(t, 0.5, cfg.AI.RatePerSecond)
	assert.True(t, cfg.Pipeline.DryRun)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("PIPELINE_MAX_WORKERS", "many")
	cfg := Load()
	assert.Equal(t, 4, cfg.Pipeline.MaxWorkers)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, Load().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Load()
	cfg.App.Environment = "staging"
	assert.Error(t, cfg.Validate(), "environment is restricted to development or production")

	cfg = Load()
	cfg.AI.BaseURL = "not-a-url"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Pipeline.MaxWorkers = 0
	assert.Error(t, cfg.Validate())
}
