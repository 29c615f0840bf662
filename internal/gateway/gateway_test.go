package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/legalease/internal/extract"
	"github.com/joseph-ayodele/legalease/internal/llm"
)

type stubAnalyzer struct {
	err error
}

func (s stubAnalyzer) Summarize(context.Context, string) (llm.SummaryResult, error) {
	return llm.SummaryResult{Summary: "s", KeyPoints: []string{"k"}}, s.err
}

func (s stubAnalyzer) IdentifyRisks(context.Context, string) (llm.RiskReport, error) {
	return llm.RiskReport{RiskyClauses: []llm.RiskyClause{}}, s.err
}

func (s stubAnalyzer) AnswerQuery(_ context.Context, _, q string) (llm.QueryResult, error) {
	return llm.QueryResult{Answer: "answer to " + q}, s.err
}

func (s stubAnalyzer) ExplainClause(_ context.Context, clause, _ string) (llm.ExplanationResult, error) {
	return llm.ExplanationResult{Explanation: "explains " + clause}, s.err
}

type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) ExtractText(context.Context, []byte) (extract.TextExtractionResult, error) {
	return extract.TextExtractionResult{Text: s.text}, s.err
}

func TestGateway_Success(t *testing.T) {
	g := New(stubAnalyzer{}, stubExtractor{text: "pdf text"}, nil)
	ctx := context.Background()

	sum, err := g.Summarize(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "s", sum.Summary)

	ans, err := g.AnswerQuery(ctx, "doc", "term?")
	require.NoError(t, err)
	assert.Equal(t, "answer to term?", ans.Answer)

	exp, err := g.ExplainClause(ctx, "clause", "doc")
	require.NoError(t, err)
	assert.Equal(t, "explains clause", exp.Explanation)

	text, err := g.ExtractText(ctx, []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "pdf text", text)
}

func TestGateway_FailuresAreWrapped(t *testing.T) {
	boom := errors.New("upstream 503")
	g := New(stubAnalyzer{err: boom}, stubExtractor{err: boom}, nil)
	ctx := context.Background()

	tests := []struct {
		op   string
		call func() error
	}{
		{OpSummarize, func() error { _, err := g.Summarize(ctx, "d"); return err }},
		{OpIdentifyRisks, func() error { _, err := g.IdentifyRisks(ctx, "d"); return err }},
		{OpAnswerQuery, func() error { _, err := g.AnswerQuery(ctx, "d", "q"); return err }},
		{OpExplainClause, func() error { _, err := g.ExplainClause(ctx, "c", "d"); return err }},
		{OpExtractText, func() error { _, err := g.ExtractText(ctx, []byte("x")); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			var gwErr *Error
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, tt.op, gwErr.Op)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestGateway_FailureReturnsZeroValue(t *testing.T) {
	g := New(stubAnalyzer{err: errors.New("x")}, nil, nil)
	sum, err := g.Summarize(context.Background(), "d")
	assert.Error(t, err)
	assert.Equal(t, llm.SummaryResult{}, sum)

	_, err = g.ExtractText(context.Background(), []byte("x"))
	assert.Error(t, err)
}
