package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder replaces the timer wait and keeps the requested delays.
type recorder struct {
	waits []time.Duration
}

func (r *recorder) wait(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return ctx.Err()
}

func failingTimes(n int, calls *int) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		if *calls <= n {
			return "", errors.New("model overloaded")
		}
		return "ok", nil
	}
}

func TestDo(t *testing.T) {
	tests := []struct {
		name          string
		failures      int
		expectSuccess bool
		expectedCalls int
		expectedWaits []time.Duration
	}{
		{name: "Success on first try", failures: 0, expectSuccess: true, expectedCalls: 1},
		{name: "One failure then success", failures: 1, expectSuccess: true, expectedCalls: 2,
			expectedWaits: []time.Duration{2 * time.Second}},
		{name: "Two failures then success", failures: 2, expectSuccess: true, expectedCalls: 3,
			expectedWaits: []time.Duration{2 * time.Second, 4 * time.Second}},
		{name: "Always failing", failures: 10, expectSuccess: false, expectedCalls: 3,
			expectedWaits: []time.Duration{2 * time.Second, 4 * time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			p := Default()
			p.Wait = rec.wait

			calls := 0
			out, err := Do(context.Background(), p, failingTimes(tt.failures, &calls))

			assert.Equal(t, tt.expectedCalls, calls)
			assert.Equal(t, tt.expectedWaits, rec.waits)
			if tt.expectSuccess {
				require.NoError(t, err)
				assert.Equal(t, "ok", out)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrExhausted))
			var exhausted *ExhaustedError
			require.True(t, errors.As(err, &exhausted))
			assert.Equal(t, 3, exhausted.Attempts)
			assert.EqualError(t, exhausted.Err, "model overloaded")
		})
	}
}

func TestDo_FirstAttemptFailureIsNotExhaustedWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, Default(), failingTimes(10, &calls))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, errors.Is(err, ErrExhausted))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		MaxAttempts: 3,
		Backoff:     Linear(time.Hour),
	}

	calls := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, p, failingTimes(10, &calls))
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Equal(t, 1, calls)
	case <-time.After(2 * time.Second):
		t.Fatal("backoff did not honor cancellation")
	}
}

func TestDo_RealWaitElapses(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: Linear(10 * time.Millisecond)}
	calls := 0

	start := time.Now()
	out, err := Do(context.Background(), p, failingTimes(2, &calls))

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestLinear(t *testing.T) {
	b := Linear(2 * time.Second)
	assert.Equal(t, 2*time.Second, b(1))
	assert.Equal(t, 4*time.Second, b(2))
}
