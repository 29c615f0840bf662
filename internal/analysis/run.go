package analysis

import (
	"context"
	"time"

	"github.com/joseph-ayodele/legalease/constants"
)

// Run describes one StartAnalysis call. It never carries document text or
// results.
type Run struct {
	ID           string              `json:"id"`
	SessionID    string              `json:"sessionId"`
	Token        uint64              `json:"token"`
	Source       string              `json:"source"`
	ContentType  string              `json:"contentType,omitempty"`
	Bytes        int                 `json:"bytes"`
	Status       constants.RunStatus `json:"status"`
	FailureCode  string              `json:"failureCode,omitempty"`
	RiskAttempts int                 `json:"riskAttempts"`
	StartedAt    time.Time           `json:"startedAt"`
	FinishedAt   time.Time           `json:"finishedAt"`
}

// Duration is the wall time of a finished run.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// RunObserver is told when runs start and finish.
type RunObserver interface {
	RunStarted(ctx context.Context, run Run)
	RunFinished(ctx context.Context, run Run)
}

type nopObserver struct{}

func (nopObserver) RunStarted(context.Context, Run)  {}
func (nopObserver) RunFinished(context.Context, Run) {}
