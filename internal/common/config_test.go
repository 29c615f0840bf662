package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("RISK_MAX_ATTEMPTS", "")
	t.Setenv("ANALYSIS_TICK", "")

	cfg := LoadConfig()
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 3, cfg.Analysis.RiskAttempts)
	assert.Equal(t, time.Second, cfg.Analysis.TickInterval)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "GEMINI")
	t.Setenv("LLM_API_KEY", "key")
	t.Setenv("RISK_BACKOFF_STEP", "250ms")
	t.Setenv("MAX_SESSIONS", "not-a-number")
	t.Setenv("LLM_LENIENT", "false")
	t.Setenv("VIEW_STORE", "Redis")
	t.Setenv("LLM_MAX_TOKENS", "4096")
	t.Setenv("OPENAI_ORGANIZATION", "org-legal")

	cfg := LoadConfig()
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 250*time.Millisecond, cfg.Analysis.RiskBackoffStep)
	assert.Equal(t, 100, cfg.Server.MaxSessions)
	assert.False(t, cfg.LLM.Lenient)
	assert.Equal(t, "redis", cfg.Resource.Store)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, "org-legal", cfg.LLM.OpenAIOrg)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LLM:      LLMConfig{Provider: "gemini", APIKey: "k"},
			Resource: ResourceConfig{Store: "memory"},
			Analysis: AnalysisConfig{RiskAttempts: 3},
		}
	}
	require.NoError(t, base().Validate())

	c := base()
	c.LLM.APIKey = ""
	assert.ErrorIs(t, c.Validate(), ErrInvalidInput)

	c = base()
	c.LLM.Provider = "ollama"
	assert.Equal(t, CodeConfig, CodeOf(c.Validate()))

	c = base()
	c.Resource.Store = "disk"
	assert.Error(t, c.Validate())

	c = base()
	c.Analysis.RiskAttempts = 0
	assert.Error(t, c.Validate())
}
