package openai

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// Config selects the OpenAI-compatible endpoint used for the four document
// analyses. Any server speaking chat/completions with JSON mode works.
type Config struct {
	APIKey       string // falls back to LLM_API_KEY, then OPENAI_API_KEY
	BaseURL      string
	Model        string
	Organization string // sent as OpenAI-Organization when set
	Temperature  float32
	MaxTokens    int // 0 leaves the provider default; long risk reports need room
	Timeout      time.Duration
}

func (c Config) withDefaults() Config {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("LLM_API_KEY")
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// headers returns the per-request auth headers.
func (c Config) headers() map[string]string {
	h := map[string]string{"Authorization": "Bearer " + c.APIKey}
	if c.Organization != "" {
		h["OpenAI-Organization"] = c.Organization
	}
	return h
}

// Client completes analysis prompts against an OpenAI-compatible API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	logger.Debug("llm.openai.configured", "model", cfg.Model, "base_url", cfg.BaseURL, "max_tokens", cfg.MaxTokens)
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
