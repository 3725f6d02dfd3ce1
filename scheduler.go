package shepard

import (
	"fmt"
	"sync"
	"time"
)

// A Scheduler calls f every period until stop is called.  Calls to f must not
// overlap.
type Scheduler interface {
	Every(period time.Duration, f func()) (stop func(), err error)
}

// Ticker schedules on the wall clock, calling f from a single goroutine.  Its
// stop function waits for a call in progress to return, so it must not be
// called from f.
type Ticker struct{}

func (Ticker) Every(period time.Duration, f func()) (func(), error) {
	if period <= 0 {
		return nil, fmt.Errorf("ticker period %v must be positive", period)
	}
	t := time.NewTicker(period)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				f()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}, nil
}
