package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/legalease/internal/llm"
)

var _ llm.Completer = (*Client)(nil)

func (c *Client) Name() string { return "openai:" + c.cfg.Model }

// Complete runs a chat/completions call in JSON mode. The schema travels as a
// second system message.
func (c *Client) Complete(ctx context.Context, p llm.Prompt) (string, error) {
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": p.System},
			{"role": "user", "content": p.User},
			{"role": "system", "content": llm.SchemaInstruction(p.Schema)},
		},
	}
	if c.cfg.MaxTokens > 0 {
		body["max_tokens"] = c.cfg.MaxTokens
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := llm.SendJSON(ctx, c.http, endpoint, body, c.cfg.headers(), c.logger)
	if err != nil {
		return "", fmt.Errorf("openai %s: %w", p.Operation, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	if cc.Choices[0].FinishReason == "length" {
		c.logger.Warn("llm.openai.truncated", "op", string(p.Operation), "model", c.cfg.Model)
	}
	return strings.TrimSpace(cc.Choices[0].Message.Content), nil
}
