// Package gateway is the single door to the external inference and PDF
// extraction services. Every call is logged with a request id and duration,
// and failures come back as *Error values naming the operation.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/extract"
	"github.com/joseph-ayodele/legalease/internal/llm"
)

// Operation names used in logs and errors.
const (
	OpSummarize     = "summarize"
	OpIdentifyRisks = "identify_risks"
	OpAnswerQuery   = "answer_query"
	OpExplainClause = "explain_clause"
	OpExtractText   = "extract_text"
)

// Error is an external service failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

type Gateway struct {
	analyzer  llm.Analyzer
	extractor extract.TextExtractor
	logger    *slog.Logger
}

func New(analyzer llm.Analyzer, extractor extract.TextExtractor, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{analyzer: analyzer, extractor: extractor, logger: logger}
}

func (g *Gateway) Summarize(ctx context.Context, documentText string) (llm.SummaryResult, error) {
	return call(ctx, g, OpSummarize, func(ctx context.Context) (llm.SummaryResult, error) {
		return g.analyzer.Summarize(ctx, documentText)
	})
}

func (g *Gateway) IdentifyRisks(ctx context.Context, documentText string) (llm.RiskReport, error) {
	return call(ctx, g, OpIdentifyRisks, func(ctx context.Context) (llm.RiskReport, error) {
		return g.analyzer.IdentifyRisks(ctx, documentText)
	})
}

func (g *Gateway) AnswerQuery(ctx context.Context, documentText, question string) (llm.QueryResult, error) {
	return call(ctx, g, OpAnswerQuery, func(ctx context.Context) (llm.QueryResult, error) {
		return g.analyzer.AnswerQuery(ctx, documentText, question)
	})
}

func (g *Gateway) ExplainClause(ctx context.Context, clause, documentContext string) (llm.ExplanationResult, error) {
	return call(ctx, g, OpExplainClause, func(ctx context.Context) (llm.ExplanationResult, error) {
		return g.analyzer.ExplainClause(ctx, clause, documentContext)
	})
}

// ExtractText returns the plain text of a PDF.
func (g *Gateway) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	res, err := call(ctx, g, OpExtractText, func(ctx context.Context) (extract.TextExtractionResult, error) {
		if g.extractor == nil {
			return extract.TextExtractionResult{}, fmt.Errorf("no pdf extractor configured")
		}
		return g.extractor.ExtractText(ctx, pdf)
	})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func call[T any](ctx context.Context, g *Gateway, op string, fn func(context.Context) (T, error)) (T, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	logger := common.LoggerFrom(ctx, g.logger)
	start := time.Now()

	logger.Debug("gateway."+op+".start")
	out, err := fn(ctx)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		logger.Warn("gateway."+op+".failed", "error", err, "elapsed_ms", elapsed)
		var zero T
		return zero, &Error{Op: op, Err: err}
	}
	logger.Info("gateway."+op+".ok", "elapsed_ms", elapsed)
	return out, nil
}
