package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// EventDelay calls functions after a number of samples have been stepped.
type EventDelay struct {
	Params Params
	events []delayEvent
}

type delayEvent struct {
	n int
	f func()
}

func (d *EventDelay) InitAudio(p Params) { d.Params = p }

// Delay calls f t seconds from now, rounded to whole samples but at least one
// sample away.
func (d *EventDelay) Delay(t float64, f func()) {
	if d.Params.SampleRate == 0 {
		panic("EventDelay.Delay called before InitAudio")
	}
	d.delay(max(1, int(math.Round(t*d.Params.SampleRate))), f)
}

func (d *EventDelay) delay(n int, f func()) {
	i := 0
	for ; i < len(d.events); i++ {
		e := &d.events[i]
		if n < e.n {
			e.n -= n
			break
		}
		n -= e.n
	}
	d.events = append(d.events, delayEvent{})
	copy(d.events[i+1:], d.events[i:])
	d.events[i] = delayEvent{n, f}
}

// Step advances one sample, calling the functions that are due.
func (d *EventDelay) Step() {
	if len(d.events) > 0 {
		d.events[0].n--
		for len(d.events) > 0 {
			e := d.events[0]
			if e.n > 0 {
				break
			}
			d.events = d.events[1:]
			e.f()
		}
	}
}

func (d *EventDelay) Pending() int { return len(d.events) }

// EventScheduler schedules periodic calls on an EventDelay's sample clock, for
// rendering faster than real time.
type EventScheduler struct {
	Delay *EventDelay
}

func (s EventScheduler) Every(period time.Duration, f func()) (func(), error) {
	if s.Delay == nil {
		return nil, errors.New("audio: event scheduler has no delay line")
	}
	if s.Delay.Params.SampleRate == 0 {
		return nil, errors.New("audio: event scheduler used before InitAudio")
	}
	n := int(math.Round(period.Seconds() * s.Delay.Params.SampleRate))
	if n < 1 {
		return nil, fmt.Errorf("audio: period %v is shorter than a sample", period)
	}
	stopped := false
	var tick func()
	tick = func() {
		if stopped {
			return
		}
		f()
		s.Delay.delay(n, tick)
	}
	s.Delay.delay(n, tick)
	return func() { stopped = true }, nil
}
