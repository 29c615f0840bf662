// Package analysis drives one document analysis session: intake, the joined
// summary and risk analyses, and the follow-up question and explanation
// requests served against the loaded document.
package analysis

import (
	"fmt"
	"slices"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/llm"
	"github.com/joseph-ayodele/legalease/internal/resource"
	"github.com/joseph-ayodele/legalease/internal/selection"
)

// Document is the loaded document. View is set only for binary (PDF) intake.
type Document struct {
	Text string           `json:"text"`
	View *resource.Handle `json:"view,omitempty"`
}

// Busy reports which operations are in flight.
type Busy struct {
	Analysis    bool `json:"analysis"`
	Question    bool `json:"question"`
	Explanation bool `json:"explanation"`
}

// Any reports whether any operation is in flight.
func (b Busy) Any() bool { return b.Analysis || b.Question || b.Explanation }

// Session is the observable state of an analysis session.
type Session struct {
	ViewState      constants.ViewState    `json:"viewState"`
	Document       Document               `json:"document"`
	ElapsedSeconds int                    `json:"elapsedSeconds"`
	Summary        *llm.SummaryResult     `json:"summary,omitempty"`
	RiskReport     *llm.RiskReport        `json:"riskReport,omitempty"`
	Query          *llm.QueryResult       `json:"query,omitempty"`
	Explanation    *llm.ExplanationResult `json:"explanation,omitempty"`
	Selection      *selection.Context     `json:"selection,omitempty"`
	Busy           Busy                   `json:"busy"`
}

// NewSession returns a session in the Initial state.
func NewSession() Session {
	return Session{ViewState: constants.ViewInitial}
}

// HasDocument reports whether a document has been taken in.
func (s Session) HasDocument() bool {
	return s.ViewState != constants.ViewInitial
}

// IsBinaryView reports whether the document is displayed as a binary view.
func (s Session) IsBinaryView() bool {
	return s.Document.View != nil
}

// ElapsedLabel formats the elapsed analysis time as m:ss.
func (s Session) ElapsedLabel() string {
	return fmt.Sprintf("%d:%02d", s.ElapsedSeconds/60, s.ElapsedSeconds%60)
}

// Clone returns a deep copy that shares no memory with s.
func (s Session) Clone() Session {
	out := s
	if s.Document.View != nil {
		v := *s.Document.View
		out.Document.View = &v
	}
	if s.Summary != nil {
		v := llm.SummaryResult{Summary: s.Summary.Summary, KeyPoints: slices.Clone(s.Summary.KeyPoints)}
		out.Summary = &v
	}
	if s.RiskReport != nil {
		clauses := make([]llm.RiskyClause, len(s.RiskReport.RiskyClauses))
		for i, c := range s.RiskReport.RiskyClauses {
			c.Suggestions = slices.Clone(c.Suggestions)
			clauses[i] = c
		}
		out.RiskReport = &llm.RiskReport{RiskyClauses: clauses}
	}
	if s.Query != nil {
		v := *s.Query
		out.Query = &v
	}
	if s.Explanation != nil {
		v := *s.Explanation
		out.Explanation = &v
	}
	if s.Selection != nil {
		v := *s.Selection
		out.Selection = &v
	}
	return out
}

// Transitions. Each takes the current session and returns the next one.

func beginIntake(doc Document) Session {
	return Session{
		ViewState: constants.ViewLoading,
		Document:  doc,
		Busy:      Busy{Analysis: true},
	}
}

func completeAnalysis(s Session, sum llm.SummaryResult, risks llm.RiskReport) Session {
	s.ViewState = constants.ViewAnalyzed
	s.Summary = &sum
	s.RiskReport = &risks
	s.Busy.Analysis = false
	return s
}

// failAnalysis discards the document and any partial results.
func failAnalysis(Session) Session {
	return NewSession()
}

func tick(s Session) Session {
	if s.ViewState == constants.ViewLoading {
		s.ElapsedSeconds++
	}
	return s
}

func beginQuestion(s Session) Session {
	s.Query = nil
	s.Busy.Question = true
	return s
}

func finishQuestion(s Session, res *llm.QueryResult) Session {
	s.Query = res
	s.Busy.Question = false
	return s
}

func selectText(s Session, ev selection.Event) Session {
	if !s.HasDocument() || s.IsBinaryView() {
		ev.Binary = true
	}
	if sel, ok := selection.Map(ev); ok {
		s.Selection = &sel
	} else {
		s.Selection = nil
	}
	return s
}

func beginExplanation(s Session) Session {
	s.Selection = nil
	s.Explanation = nil
	s.Busy.Explanation = true
	return s
}

func finishExplanation(s Session, res llm.ExplanationResult) Session {
	s.Explanation = &res
	s.Busy.Explanation = false
	return s
}
