// Package gemini implements llm.Completer on Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/joseph-ayodele/legalease/internal/llm"
)

type Config struct {
	APIKey      string
	Model       string // default "gemini-2.0-flash"
	Temperature float32
	MaxTokens   int // 0 = model default
	Timeout     time.Duration
	BaseURL     string // optional endpoint override
}

type Client struct {
	cfg    Config
	client *genai.Client
	logger *slog.Logger
}

var _ llm.Completer = (*Client)(nil)

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{cfg: cfg, client: client, logger: logger}, nil
}

func (c *Client) Name() string { return "gemini:" + c.cfg.Model }

// Complete asks the model for a JSON response. The schema is appended to the
// system instruction rather than sent as a response schema, so the same
// validation path covers both providers.
func (c *Client) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	sys := p.System + "\n\n" + llm.SchemaInstruction(p.Schema)
	gc := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(c.cfg.Temperature),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(sys, genai.RoleUser),
	}
	if c.cfg.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(c.cfg.MaxTokens)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(p.User), gc)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", p.Operation, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini %s: empty response", p.Operation)
	}
	return text, nil
}
