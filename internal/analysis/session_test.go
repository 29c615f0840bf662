package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/llm"
	"github.com/joseph-ayodele/legalease/internal/resource"
	"github.com/joseph-ayodele/legalease/internal/selection"
)

func TestTransitions(t *testing.T) {
	s := NewSession()
	assert.Equal(t, constants.ViewInitial, s.ViewState)
	assert.False(t, s.HasDocument())

	s = tick(s)
	assert.Equal(t, 0, s.ElapsedSeconds, "tick outside Loading")

	s = beginIntake(Document{Text: "doc"})
	assert.Equal(t, constants.ViewLoading, s.ViewState)
	assert.True(t, s.Busy.Analysis)
	s = tick(tick(s))
	assert.Equal(t, 2, s.ElapsedSeconds)

	s = completeAnalysis(s, llm.SummaryResult{Summary: "s"}, llm.RiskReport{})
	assert.Equal(t, constants.ViewAnalyzed, s.ViewState)
	assert.NotNil(t, s.Summary)
	assert.NotNil(t, s.RiskReport)
	assert.False(t, s.Busy.Analysis)
	s = tick(s)
	assert.Equal(t, 2, s.ElapsedSeconds, "tick after Analyzed")

	s = beginQuestion(s)
	assert.True(t, s.Busy.Question)
	assert.Nil(t, s.Query)
	s = finishQuestion(s, &llm.QueryResult{Answer: "a"})
	assert.Equal(t, "a", s.Query.Answer)

	s = failAnalysis(s)
	assert.Equal(t, NewSession(), s)
}

func TestSelectText(t *testing.T) {
	ev := selection.Event{Text: "a qualifying selection"}

	textDoc := beginIntake(Document{Text: "doc"})
	assert.NotNil(t, selectText(textDoc, ev).Selection)

	pdfDoc := beginIntake(Document{Text: "doc", View: &resource.Handle{ID: "h"}})
	pdfDoc.Selection = &selection.Context{SelectedText: "leftover"}
	assert.Nil(t, selectText(pdfDoc, ev).Selection)

	assert.Nil(t, selectText(NewSession(), ev).Selection)
}

func TestElapsedLabel(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{65, "1:05"},
		{600, "10:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Session{ElapsedSeconds: tt.seconds}.ElapsedLabel())
	}
}

func TestClone(t *testing.T) {
	s := Session{
		Document:    Document{Text: "doc", View: &resource.Handle{ID: "h1"}},
		Summary:     &llm.SummaryResult{Summary: "s", KeyPoints: []string{"k"}},
		RiskReport:  &llm.RiskReport{RiskyClauses: []llm.RiskyClause{{Clause: "c", Suggestions: []string{"a", "b", "c"}}}},
		Query:       &llm.QueryResult{Answer: "a"},
		Explanation: &llm.ExplanationResult{Explanation: "e"},
		Selection:   &selection.Context{SelectedText: "sel"},
	}
	c := s.Clone()
	assert.Equal(t, s, c)

	c.Document.View.ID = "h2"
	c.Summary.KeyPoints[0] = "x"
	c.RiskReport.RiskyClauses[0].Suggestions[0] = "x"
	c.Query.Answer = "x"
	c.Explanation.Explanation = "x"
	c.Selection.SelectedText = "x"

	assert.Equal(t, "h1", s.Document.View.ID)
	assert.Equal(t, "k", s.Summary.KeyPoints[0])
	assert.Equal(t, "a", s.RiskReport.RiskyClauses[0].Suggestions[0])
	assert.Equal(t, "a", s.Query.Answer)
	assert.Equal(t, "e", s.Explanation.Explanation)
	assert.Equal(t, "sel", s.Selection.SelectedText)
}
