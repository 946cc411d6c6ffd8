package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Search.MaxResults)
	assert.Equal(t, 200, cfg.Scrape.MinContentLen)
	assert.Equal(t, 3000, cfg.Scrape.MaxContentLen)
	assert.Equal(t, 2500, cfg.Scrape.PromptRefLen)
	assert.Equal(t, 2000, cfg.Batch.ArticleDelayMs)
	assert.NotEmpty(t, cfg.Anthropic.Model)
	assert.NotEmpty(t, cfg.OpenAI.Model)
	assert.Contains(t, cfg.Search.ExcludeDomains, "youtube.com")
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENHANCE_STORE_DRIVER", "postgres")
	t.Setenv("ENHANCE_SERVER_PORT", "8081")
	t.Setenv("ENHANCE_ANTHROPIC_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.Anthropic.Key)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	assert.Error(t, err)
}

func TestInitLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		assert.NoError(t, InitLogger(LogConfig{Level: level, Format: "console"}))
	}
}
