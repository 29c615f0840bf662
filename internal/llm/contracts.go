package llm

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Operation names an inference call.
type Operation string

const (
	OpSummarize     Operation = "summarize"
	OpIdentifyRisks Operation = "identify_risks"
	OpAnswerQuery   Operation = "answer_query"
	OpExplainClause Operation = "explain_clause"
)

// SuggestionsPerClause is the exact number of rewrites returned per risky clause.
const SuggestionsPerClause = 3

type SummaryResult struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}

type RiskyClause struct {
	Clause      string   `json:"clause"`
	Location    string   `json:"location"`
	Suggestions []string `json:"suggestions"`
}

// Preview is the short label shown for a clause: its location and the first
// 50 characters of its text.
func (c RiskyClause) Preview() string {
	text := c.Clause
	if utf8.RuneCountInString(text) > 50 {
		text = string([]rune(text)[:50]) + "..."
	}
	return fmt.Sprintf("%s: %q", c.Location, text)
}

type RiskReport struct {
	RiskyClauses []RiskyClause `json:"riskyClauses"`
}

type QueryResult struct {
	Answer string `json:"answer"`
	Source string `json:"source,omitempty"`
}

type ExplanationResult struct {
	Explanation string `json:"explanation"`
}

// Analyzer is the typed inference surface the orchestrator depends on.
type Analyzer interface {
	Summarize(ctx context.Context, documentText string) (SummaryResult, error)
	IdentifyRisks(ctx context.Context, documentText string) (RiskReport, error)
	AnswerQuery(ctx context.Context, documentText, question string) (QueryResult, error)
	ExplainClause(ctx context.Context, clause, documentContext string) (ExplanationResult, error)
}

// Prompt is one provider-neutral request for a JSON completion.
type Prompt struct {
	Operation Operation
	System    string
	User      string
	Schema    map[string]any
}

// Completer sends a prompt to a model and returns the raw JSON text it produced.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	Name() string
}
