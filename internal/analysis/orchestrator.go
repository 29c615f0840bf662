package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/llm"
	"github.com/joseph-ayodele/legalease/internal/resource"
	"github.com/joseph-ayodele/legalease/internal/retry"
	"github.com/joseph-ayodele/legalease/internal/selection"
)

// Services is the external service adapter the orchestrator calls.
type Services interface {
	Summarize(ctx context.Context, documentText string) (llm.SummaryResult, error)
	IdentifyRisks(ctx context.Context, documentText string) (llm.RiskReport, error)
	AnswerQuery(ctx context.Context, documentText, question string) (llm.QueryResult, error)
	ExplainClause(ctx context.Context, clause, documentContext string) (llm.ExplanationResult, error)
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// Views issues and revokes handles to binary document views.
type Views interface {
	Acquire(ctx context.Context, binary []byte, contentType string) (resource.Handle, error)
	Release(ctx context.Context, h resource.Handle) error
	Open(ctx context.Context, h resource.Handle) ([]byte, error)
}

type Options struct {
	SessionID    string
	TickInterval time.Duration // default 1s
	RiskRetry    retry.Policy  // default retry.Default()
	RunTimeout   time.Duration // 0 = none
	Notifier     Notifier
	Observer     RunObserver
}

// Orchestrator owns one session. All state changes happen under mu between
// external calls; intakeMu serializes the release/acquire of the document
// view so at most one handle is ever live.
type Orchestrator struct {
	id       string
	services Services
	views    Views
	opts     Options
	notifier Notifier
	observer RunObserver
	logger   *slog.Logger

	intakeMu sync.Mutex

	mu          sync.Mutex
	session     Session
	token       uint64
	questionSeq uint64
	explainSeq  uint64
	stopTick    func()
}

func NewOrchestrator(services Services, views Views, opts Options, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.RiskRetry.MaxAttempts == 0 {
		opts.RiskRetry = retry.Default()
	}
	if opts.RiskRetry.Logger == nil {
		opts.RiskRetry.Logger = logger
	}
	opts.RiskRetry.Name = "identify_risks"
	notifier := opts.Notifier
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	observer := opts.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &Orchestrator{
		id:       opts.SessionID,
		services: services,
		views:    views,
		opts:     opts,
		notifier: notifier,
		observer: observer,
		logger:   logger.With("session_id", opts.SessionID),
		session:  NewSession(),
	}
}

// ID returns the session id.
func (o *Orchestrator) ID() string { return o.id }

// Snapshot returns a deep copy of the current session.
func (o *Orchestrator) Snapshot() Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Clone()
}

// Busy reports the operations currently in flight.
func (o *Orchestrator) Busy() Busy {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session.Busy
}

// intake is one document submitted for analysis.
type intake struct {
	source      string
	text        string
	binary      []byte
	contentType string
}

// StartAnalysis loads a document and runs the summary and risk analyses
// concurrently. binary, when set, is the PDF shown as the document view.
// A newer call supersedes this one; the superseded call returns ErrSuperseded
// and leaves the newer state alone.
func (o *Orchestrator) StartAnalysis(ctx context.Context, text string, binary []byte) error {
	in := intake{source: constants.SourcePaste, text: text}
	if len(binary) > 0 {
		in.source = constants.SourceUpload
		in.binary = binary
		in.contentType = constants.ContentTypePDF
	}
	return o.start(ctx, in)
}

func (o *Orchestrator) start(ctx context.Context, in intake) error {
	ctx = common.WithSessionID(ctx, o.id)
	run := Run{
		ID:          uuid.NewString(),
		SessionID:   o.id,
		Source:      in.source,
		ContentType: in.contentType,
		Bytes:       len(in.text),
		Status:      constants.RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}
	if len(in.binary) > 0 {
		run.Bytes = len(in.binary)
	}
	logger := o.logger.With("run_id", run.ID)

	tok, err := o.load(ctx, in, logger)
	run.Token = tok
	if err != nil {
		run.Status = constants.RunStatusFailed
		run.FailureCode = common.CodeOf(err)
		run.FinishedAt = time.Now().UTC()
		o.observer.RunFinished(ctx, run)
		return err
	}
	o.observer.RunStarted(ctx, run)
	logger.Info("analysis.start", "token", tok, "source", in.source, "bytes", run.Bytes)

	sum, risks, attempts, joinErr := o.analyze(ctx, in.text)
	run.RiskAttempts = attempts
	run.FinishedAt = time.Now().UTC()
	elapsed := run.FinishedAt.Sub(run.StartedAt).Milliseconds()

	o.intakeMu.Lock()
	o.mu.Lock()
	if tok != o.token {
		o.mu.Unlock()
		o.intakeMu.Unlock()
		logger.Info("analysis.superseded", "token", tok, "elapsed_ms", elapsed)
		run.Status = constants.RunStatusSuperseded
		o.observer.RunFinished(ctx, run)
		return common.ErrSuperseded
	}
	stop := o.stopTick
	o.stopTick = nil

	var released *resource.Handle
	if joinErr != nil {
		released = o.session.Document.View
		o.session = failAnalysis(o.session)
	} else {
		o.session = completeAnalysis(o.session, sum, risks)
	}
	o.mu.Unlock()

	if stop != nil {
		stop()
	}
	if released != nil {
		o.release(ctx, *released)
	}
	o.intakeMu.Unlock()

	if joinErr != nil {
		logger.Error("analysis.failed", "token", tok, "error", joinErr, "risk_attempts", attempts, "elapsed_ms", elapsed)
		run.Status = constants.RunStatusFailed
		run.FailureCode = common.CodeAnalysisFailed
		o.observer.RunFinished(ctx, run)
		o.notifier.Notify(ctx, noticeAnalysisFailed)
		return common.NewAppError(common.CodeAnalysisFailed, noticeAnalysisFailed.Description, joinErr)
	}

	logger.Info("analysis.ok",
		"token", tok,
		"key_points", len(sum.KeyPoints),
		"risky_clauses", len(risks.RiskyClauses),
		"risk_attempts", attempts,
		"elapsed_ms", elapsed,
	)
	run.Status = constants.RunStatusAnalyzed
	o.observer.RunFinished(ctx, run)
	return nil
}

// load supersedes any prior run, swaps the document view and enters Loading.
func (o *Orchestrator) load(ctx context.Context, in intake, logger *slog.Logger) (uint64, error) {
	o.intakeMu.Lock()
	defer o.intakeMu.Unlock()

	o.mu.Lock()
	o.token++
	tok := o.token
	stop := o.stopTick
	o.stopTick = nil
	prev := o.session.Document.View
	o.session.Document.View = nil
	o.mu.Unlock()

	if stop != nil {
		stop()
	}
	if prev != nil {
		o.release(ctx, *prev)
	}

	var view *resource.Handle
	if len(in.binary) > 0 {
		if o.views == nil {
			return tok, o.abortLoad(ctx, tok, fmt.Errorf("no view store configured"), logger)
		}
		h, err := o.views.Acquire(ctx, in.binary, in.contentType)
		if err != nil {
			return tok, o.abortLoad(ctx, tok, err, logger)
		}
		view = &h
	}

	o.mu.Lock()
	o.session = beginIntake(Document{Text: in.text, View: view})
	o.stopTick = startTicker(o.opts.TickInterval, func() { o.onTick(tok) })
	o.mu.Unlock()
	return tok, nil
}

// abortLoad returns the session to Initial after the view could not be created.
func (o *Orchestrator) abortLoad(ctx context.Context, tok uint64, err error, logger *slog.Logger) error {
	logger.Error("analysis.view.acquire_failed", "error", err)
	o.mu.Lock()
	if tok == o.token {
		o.session = failAnalysis(o.session)
	}
	o.mu.Unlock()
	o.notifier.Notify(ctx, noticeFileError)
	return common.NewAppError(common.CodeExtractionFailed, noticeFileError.Description, err)
}

func (o *Orchestrator) onTick(tok uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if tok == o.token {
		o.session = tick(o.session)
	}
}

// analyze runs both primary analyses and returns as soon as either fails.
func (o *Orchestrator) analyze(ctx context.Context, text string) (llm.SummaryResult, llm.RiskReport, int, error) {
	if o.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.RunTimeout)
		defer cancel()
	}

	var (
		sum      llm.SummaryResult
		risks    llm.RiskReport
		attempts atomic.Int32
	)
	failed := make(chan error, 2)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := o.services.Summarize(gctx, text)
		if err != nil {
			failed <- fmt.Errorf("summarize: %w", err)
			return err
		}
		sum = s
		return nil
	})
	g.Go(func() error {
		r, err := retry.Do(gctx, o.opts.RiskRetry, func(ctx context.Context) (llm.RiskReport, error) {
			attempts.Add(1)
			return o.services.IdentifyRisks(ctx, text)
		})
		if err != nil {
			failed <- fmt.Errorf("identify risks: %w", err)
			return err
		}
		risks = r
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return llm.SummaryResult{}, llm.RiskReport{}, int(attempts.Load()), err
		}
		return sum, risks, int(attempts.Load()), nil
	case err := <-failed:
		// The other leg sees gctx cancelled; its result is not awaited.
		return llm.SummaryResult{}, llm.RiskReport{}, int(attempts.Load()), err
	}
}

// AskQuestion answers a free-form question about the loaded document. Blank
// questions are ignored. The previous answer is cleared before the call and
// stays cleared if it fails.
func (o *Orchestrator) AskQuestion(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}
	ctx = common.WithSessionID(ctx, o.id)

	o.mu.Lock()
	if !o.session.HasDocument() {
		o.mu.Unlock()
		return common.ErrNoDocument
	}
	tok := o.token
	o.questionSeq++
	seq := o.questionSeq
	text := o.session.Document.Text
	o.session = beginQuestion(o.session)
	o.mu.Unlock()

	start := time.Now()
	res, err := o.services.AnswerQuery(ctx, text, question)
	elapsed := time.Since(start).Milliseconds()

	o.mu.Lock()
	if tok != o.token || seq != o.questionSeq {
		o.mu.Unlock()
		o.logger.Info("analysis.question.superseded", "elapsed_ms", elapsed)
		return common.ErrSuperseded
	}
	if err != nil {
		o.session = finishQuestion(o.session, nil)
		o.mu.Unlock()
		o.logger.Warn("analysis.question.failed", "error", err, "elapsed_ms", elapsed)
		o.notifier.Notify(ctx, noticeQuestionFailed)
		return common.NewAppError(common.CodeQuestionFailed, noticeQuestionFailed.Description, err)
	}
	o.session = finishQuestion(o.session, &res)
	o.mu.Unlock()

	o.logger.Info("analysis.question.ok", "has_source", res.Source != "", "elapsed_ms", elapsed)
	return nil
}

// HandleSelection stores the selection context for ev, or clears it when ev
// does not qualify. Binary views never hold a selection.
func (o *Orchestrator) HandleSelection(ev selection.Event) (selection.Context, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session = selectText(o.session, ev)
	if o.session.Selection == nil {
		return selection.Context{}, false
	}
	return *o.session.Selection, true
}

// ExplainSelection consumes the stored selection and explains it against the
// full document. On failure the explanation becomes ExplanationErrorText.
func (o *Orchestrator) ExplainSelection(ctx context.Context) error {
	ctx = common.WithSessionID(ctx, o.id)

	o.mu.Lock()
	if o.session.Selection == nil {
		o.mu.Unlock()
		return common.ErrNoSelection
	}
	clause := o.session.Selection.SelectedText
	text := o.session.Document.Text
	tok := o.token
	o.explainSeq++
	seq := o.explainSeq
	o.session = beginExplanation(o.session)
	o.mu.Unlock()

	start := time.Now()
	res, err := o.services.ExplainClause(ctx, clause, text)
	elapsed := time.Since(start).Milliseconds()

	o.mu.Lock()
	if tok != o.token || seq != o.explainSeq {
		o.mu.Unlock()
		o.logger.Info("analysis.explanation.superseded", "elapsed_ms", elapsed)
		return common.ErrSuperseded
	}
	if err != nil {
		o.session = finishExplanation(o.session, llm.ExplanationResult{Explanation: ExplanationErrorText})
		o.mu.Unlock()
		o.logger.Warn("analysis.explanation.failed", "error", err, "elapsed_ms", elapsed)
		o.notifier.Notify(ctx, noticeExplanationFailed)
		return common.NewAppError(common.CodeExplanationFailed, noticeExplanationFailed.Description, err)
	}
	o.session = finishExplanation(o.session, res)
	o.mu.Unlock()

	o.logger.Info("analysis.explanation.ok", "clause_len", len(clause), "elapsed_ms", elapsed)
	return nil
}

// OpenView returns the bytes of the current binary document view.
func (o *Orchestrator) OpenView(ctx context.Context) (resource.Handle, []byte, error) {
	o.mu.Lock()
	view := o.session.Document.View
	o.mu.Unlock()
	if view == nil {
		return resource.Handle{}, nil, fmt.Errorf("document view: %w", common.ErrNotFound)
	}
	data, err := o.views.Open(ctx, *view)
	if err != nil {
		if errors.Is(err, resource.ErrReleased) {
			return resource.Handle{}, nil, fmt.Errorf("document view: %w", common.ErrNotFound)
		}
		return resource.Handle{}, nil, err
	}
	return *view, data, nil
}

// Close ends the session: in-flight results are ignored, the tick stops and
// the document view is released. The orchestrator is back in Initial and may
// be reused.
func (o *Orchestrator) Close(ctx context.Context) {
	o.intakeMu.Lock()
	defer o.intakeMu.Unlock()

	o.mu.Lock()
	o.token++
	stop := o.stopTick
	o.stopTick = nil
	view := o.session.Document.View
	o.session = NewSession()
	o.mu.Unlock()

	if stop != nil {
		stop()
	}
	if view != nil {
		o.release(ctx, *view)
	}
	o.logger.Info("analysis.closed")
}

func (o *Orchestrator) release(ctx context.Context, h resource.Handle) {
	if err := o.views.Release(ctx, h); err != nil {
		o.logger.Warn("analysis.view.release_failed", "handle", h.ID, "error", err)
	}
}
