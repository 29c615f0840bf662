package analysis

import (
	"sync"
	"time"
)

// startTicker calls fn every interval on its own goroutine until the returned
// stop func is called. stop waits for the goroutine to exit and may be called
// more than once; it must not be called while holding a lock fn takes.
func startTicker(interval time.Duration, fn func()) (stop func()) {
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}
