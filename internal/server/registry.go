package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/legalease/internal/analysis"
	"github.com/joseph-ayodele/legalease/internal/common"
)

// SessionFactory builds the orchestrator for a new session id.
type SessionFactory func(id string) *analysis.Orchestrator

type sessionEntry struct {
	o        *analysis.Orchestrator
	lastUsed time.Time
}

// Registry holds the live sessions of the server. Sessions are independent;
// each owns at most one document view.
type Registry struct {
	factory SessionFactory
	max     int
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewRegistry creates a registry holding at most max sessions (0 = unbounded).
func NewRegistry(factory SessionFactory, max int, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		factory:  factory,
		max:      max,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*sessionEntry),
	}
}

// Create starts a new session in the Initial state.
func (r *Registry) Create() (*analysis.Orchestrator, error) {
	id := uuid.NewString()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		return nil, fmt.Errorf("session limit %d reached: %w", r.max, common.ErrInvalidInput)
	}
	o := r.factory(id)
	r.sessions[id] = &sessionEntry{o: o, lastUsed: r.now()}
	r.logger.Info("session.created", "session_id", id, "live", len(r.sessions))
	return o, nil
}

// Get returns the session with id and marks it used.
func (r *Registry) Get(id string) (*analysis.Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	e.lastUsed = r.now()
	return e.o, nil
}

// Close ends the session with id and releases its document view.
func (r *Registry) Close(ctx context.Context, id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, common.ErrNotFound)
	}
	e.o.Close(ctx)
	r.logger.Info("session.closed", "session_id", id)
	return nil
}

// Sweep closes sessions idle for longer than idle and returns how many it
// closed. A session with an operation in flight counts as used.
func (r *Registry) Sweep(ctx context.Context, idle time.Duration) int {
	now := r.now()
	cutoff := now.Add(-idle)
	var stale []*analysis.Orchestrator
	r.mu.Lock()
	for id, e := range r.sessions {
		if !e.lastUsed.Before(cutoff) {
			continue
		}
		if e.o.Busy().Any() {
			e.lastUsed = now
			continue
		}
		stale = append(stale, e.o)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, o := range stale {
		o.Close(ctx)
	}
	if len(stale) > 0 {
		r.logger.Info("session.swept", "closed", len(stale))
	}
	return len(stale)
}

// CloseAll ends every session.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*sessionEntry)
	r.mu.Unlock()
	for _, e := range all {
		e.o.Close(ctx)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
