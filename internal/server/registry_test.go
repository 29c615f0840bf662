package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/legalease/constants"
	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/common"
	"github.com/joseph-ayodele/legalease/internal/llm"
)

// gatedServices blocks Summarize until release is closed.
type gatedServices struct {
	stubServices
	started chan struct{}
	release chan struct{}
}

func (g gatedServices) Summarize(ctx context.Context, text string) (llm.SummaryResult, error) {
	close(g.started)
	select {
	case <-g.release:
	case <-ctx.Done():
		return llm.SummaryResult{}, ctx.Err()
	}
	return g.stubServices.Summarize(ctx, text)
}

func TestRegistry(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(func(id string) *analysis.Orchestrator {
		return analysis.NewOrchestrator(stubServices{}, nil, analysis.Options{SessionID: id}, nil)
	}, 0, nil)
	r.now = func() time.Time { return now }

	a, err := r.Create()
	require.NoError(t, err)
	b, err := r.Create()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, r.Len())

	got, err := r.Get(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	now = now.Add(20 * time.Minute)
	_, err = r.Get(b.ID())
	require.NoError(t, err)

	assert.Equal(t, 1, r.Sweep(context.Background(), 10*time.Minute))
	_, err = r.Get(a.ID())
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = r.Get(b.ID())
	assert.NoError(t, err)

	require.NoError(t, r.Close(context.Background(), b.ID()))
	assert.ErrorIs(t, r.Close(context.Background(), b.ID()), common.ErrNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryLimit(t *testing.T) {
	r := NewRegistry(func(id string) *analysis.Orchestrator {
		return analysis.NewOrchestrator(stubServices{}, nil, analysis.Options{SessionID: id}, nil)
	}, 1, nil)
	_, err := r.Create()
	require.NoError(t, err)
	_, err = r.Create()
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	r.CloseAll(context.Background())
	assert.Equal(t, 0, r.Len())
}

func TestRegistrySweepKeepsBusySessions(t *testing.T) {
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	svc := gatedServices{started: make(chan struct{}), release: make(chan struct{})}
	r := NewRegistry(func(id string) *analysis.Orchestrator {
		return analysis.NewOrchestrator(svc, nil, analysis.Options{SessionID: id}, nil)
	}, 0, nil)
	r.now = func() time.Time { return now }

	o, err := r.Create()
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- o.StartAnalysis(context.Background(), "A long master services agreement.", nil) }()
	<-svc.started

	now = now.Add(time.Hour)
	assert.Equal(t, 0, r.Sweep(context.Background(), 10*time.Minute))
	assert.Equal(t, 1, r.Len())

	close(svc.release)
	require.NoError(t, <-done)
	assert.Equal(t, constants.ViewAnalyzed, o.Snapshot().ViewState)

	// The in-flight run counted as use at the last sweep.
	now = now.Add(5 * time.Minute)
	assert.Equal(t, 0, r.Sweep(context.Background(), 10*time.Minute))
	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, r.Sweep(context.Background(), 10*time.Minute))
	assert.Equal(t, 0, r.Len())
}
