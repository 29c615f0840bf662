package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type ClientOptions struct {
	// Lenient repairs near-miss responses (synonym keys, surplus suggestions)
	// before giving up on schema validation.
	Lenient bool
}

// Client implements Analyzer on top of any Completer: it builds the prompt,
// validates the JSON that comes back and decodes it into typed results.
type Client struct {
	completer Completer
	opts      ClientOptions
	logger    *slog.Logger
}

func NewClient(c Completer, opts ClientOptions, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{completer: c, opts: opts, logger: logger}
}

var _ Analyzer = (*Client)(nil)

func (c *Client) Summarize(ctx context.Context, documentText string) (SummaryResult, error) {
	var out SummaryResult
	err := c.invoke(ctx, SummarizePrompt(documentText), &out)
	if out.KeyPoints == nil {
		out.KeyPoints = []string{}
	}
	return out, err
}

func (c *Client) IdentifyRisks(ctx context.Context, documentText string) (RiskReport, error) {
	var out RiskReport
	err := c.invoke(ctx, IdentifyRisksPrompt(documentText), &out)
	if out.RiskyClauses == nil {
		out.RiskyClauses = []RiskyClause{}
	}
	return out, err
}

func (c *Client) AnswerQuery(ctx context.Context, documentText, question string) (QueryResult, error) {
	var out QueryResult
	err := c.invoke(ctx, AnswerQueryPrompt(documentText, question), &out)
	return out, err
}

func (c *Client) ExplainClause(ctx context.Context, clause, documentContext string) (ExplanationResult, error) {
	var out ExplanationResult
	err := c.invoke(ctx, ExplainClausePrompt(clause, documentContext), &out)
	return out, err
}

func (c *Client) invoke(ctx context.Context, p Prompt, out any) error {
	rid := uuid.New().String()
	start := time.Now()
	op := string(p.Operation)

	c.logger.Info("llm."+op+".start",
		"req_id", rid,
		"provider", c.completer.Name(),
		"user_len", len(p.User),
	)

	content, err := c.completer.Complete(ctx, p)
	if err != nil {
		c.logger.Error("llm."+op+".provider_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return err
	}

	raw := []byte(StripCodeFence(content))
	if err := ValidateJSONAgainstSchema(p.Schema, raw); err != nil {
		if !c.opts.Lenient {
			c.logger.Error("llm."+op+".schema_validation_failed",
				"req_id", rid, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, changed, sErr := NormalizeAndSanitizeJSON(p.Operation, raw, c.logger)
		if sErr != nil {
			c.logger.Error("llm."+op+".sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := ValidateJSONAgainstSchema(p.Schema, cleaned); vErr != nil {
			c.logger.Error("llm."+op+".schema_validation_failed",
				"req_id", rid, "error", vErr, "changes", changed,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.logger.Warn("llm."+op+".lenient_sanitize_applied",
			"req_id", rid, "changes", changed,
		)
		raw = cleaned
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.logger.Error("llm."+op+".unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("unmarshal %s result: %w", op, err)
	}

	c.logger.Info("llm."+op+".ok",
		"req_id", rid,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
