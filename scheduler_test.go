package shepard

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerEvery(t *testing.T) {
	var n atomic.Int32
	stop, err := Ticker{}.Every(time.Millisecond, func() { n.Add(1) })
	if err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	stop()
	if n.Load() < 3 {
		t.Fatalf("ticked %d times", n.Load())
	}
	time.Sleep(10 * time.Millisecond)
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if n.Load() != after {
		t.Errorf("ticked after stop")
	}
}

func TestTickerRejectsZeroPeriod(t *testing.T) {
	if _, err := (Ticker{}).Every(0, func() {}); err == nil {
		t.Error("expected error")
	}
}

func TestTickerStopWaitsForTick(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	var once sync.Once
	stop, err := Ticker{}.Every(time.Millisecond, func() {
		once.Do(func() { close(started) })
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})
	if err != nil {
		t.Fatal(err)
	}
	<-started
	stop()
	if !finished.Load() {
		t.Error("stop returned during a tick")
	}
}
