package analysis

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/joseph-ayodele/legalease/internal/llm"
	"github.com/joseph-ayodele/legalease/internal/resource"
	"github.com/joseph-ayodele/legalease/internal/retry"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func threeSuggestions() []string {
	return []string{"Narrow the scope.", "Add a time limit.", "Define the term."}
}

// fakeServices answers every call with canned results unless a hook is set.
type fakeServices struct {
	mu    sync.Mutex
	calls map[string]int

	summarize func(ctx context.Context, text string) (llm.SummaryResult, error)
	risks     func(ctx context.Context, text string) (llm.RiskReport, error)
	answer    func(ctx context.Context, text, q string) (llm.QueryResult, error)
	explain   func(ctx context.Context, clause, doc string) (llm.ExplanationResult, error)
	extract   func(ctx context.Context, pdf []byte) (string, error)
}

func newFakeServices() *fakeServices {
	return &fakeServices{calls: map[string]int{}}
}

func (f *fakeServices) hit(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeServices) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeServices) Summarize(ctx context.Context, text string) (llm.SummaryResult, error) {
	f.hit("summarize")
	if f.summarize != nil {
		return f.summarize(ctx, text)
	}
	return llm.SummaryResult{Summary: "summary of " + text, KeyPoints: []string{"Five year term"}}, nil
}

func (f *fakeServices) IdentifyRisks(ctx context.Context, text string) (llm.RiskReport, error) {
	f.hit("risks")
	if f.risks != nil {
		return f.risks(ctx, text)
	}
	return llm.RiskReport{RiskyClauses: []llm.RiskyClause{
		{Clause: "shall survive for a period of five (5) years", Location: "Section 6", Suggestions: threeSuggestions()},
	}}, nil
}

func (f *fakeServices) AnswerQuery(ctx context.Context, text, q string) (llm.QueryResult, error) {
	f.hit("answer")
	if f.answer != nil {
		return f.answer(ctx, text, q)
	}
	return llm.QueryResult{Answer: "answer to " + q}, nil
}

func (f *fakeServices) ExplainClause(ctx context.Context, clause, doc string) (llm.ExplanationResult, error) {
	f.hit("explain")
	if f.explain != nil {
		return f.explain(ctx, clause, doc)
	}
	return llm.ExplanationResult{Explanation: "plain words for " + clause}, nil
}

func (f *fakeServices) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	f.hit("extract")
	if f.extract != nil {
		return f.extract(ctx, pdf)
	}
	return "text extracted from pdf", nil
}

// fakeViews records the acquire/release order and the peak live count.
type fakeViews struct {
	mu      sync.Mutex
	next    int
	live    map[string][]byte
	events  []string
	maxLive int
	failErr error
}

func newFakeViews() *fakeViews {
	return &fakeViews{live: map[string][]byte{}}
}

func (v *fakeViews) Acquire(_ context.Context, binary []byte, ct string) (resource.Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failErr != nil {
		return resource.Handle{}, v.failErr
	}
	v.next++
	id := fmt.Sprintf("h%d", v.next)
	v.live[id] = binary
	v.events = append(v.events, "acquire:"+id)
	if len(v.live) > v.maxLive {
		v.maxLive = len(v.live)
	}
	return resource.Handle{ID: id, ContentType: ct, Size: len(binary), CreatedAt: time.Now()}, nil
}

func (v *fakeViews) Release(_ context.Context, h resource.Handle) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.live[h.ID]; !ok {
		return nil
	}
	delete(v.live, h.ID)
	v.events = append(v.events, "release:"+h.ID)
	return nil
}

func (v *fakeViews) Open(_ context.Context, h resource.Handle) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	data, ok := v.live[h.ID]
	if !ok {
		return nil, resource.ErrReleased
	}
	return data, nil
}

func (v *fakeViews) snapshot() (events []string, live, maxLive int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...), len(v.live), v.maxLive
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

type waitRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.mu.Lock()
	w.waits = append(w.waits, d)
	w.mu.Unlock()
	return ctx.Err()
}

func (w *waitRecorder) total() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	var sum time.Duration
	for _, d := range w.waits {
		sum += d
	}
	return sum
}

type harness struct {
	o     *Orchestrator
	svc   *fakeServices
	views *fakeViews
	notes *recordingNotifier
	waits *waitRecorder
	runs  *recordingObserver
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []Run
	finished []Run
}

func (r *recordingObserver) RunStarted(_ context.Context, run Run) {
	r.mu.Lock()
	r.started = append(r.started, run)
	r.mu.Unlock()
}

func (r *recordingObserver) RunFinished(_ context.Context, run Run) {
	r.mu.Lock()
	r.finished = append(r.finished, run)
	r.mu.Unlock()
}

func (r *recordingObserver) finishedRuns() []Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Run(nil), r.finished...)
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		svc:   newFakeServices(),
		views: newFakeViews(),
		notes: &recordingNotifier{},
		waits: &waitRecorder{},
		runs:  &recordingObserver{},
	}
	h.o = NewOrchestrator(h.svc, h.views, Options{
		TickInterval: 10 * time.Millisecond,
		RiskRetry: retry.Policy{
			MaxAttempts: 3,
			Backoff:     retry.Linear(2 * time.Second),
			Wait:        h.waits.wait,
		},
		Notifier: h.notes,
		Observer: h.runs,
	}, nil)
	t.Cleanup(func() { h.o.Close(context.Background()) })
	return h
}
