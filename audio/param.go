package audio

import (
	"math"
	"sort"
)

// A Param is a value automated over time: it steps, ramps linearly or
// approaches a target exponentially at scheduled times.  Sing evaluates it
// at increasing times; events that have passed are discarded.
type Param struct {
	x      float64
	last   float64
	t0, x0 float64 // end of the last completed event; linear ramps start here
	events []paramEvent
}

type paramKind int

const (
	setValue paramKind = iota
	linearRamp
	setTarget
)

type paramEvent struct {
	kind  paramKind
	time  float64
	value float64
	tc    float64
}

func NewParam(x float64) *Param {
	return &Param{x: x, x0: x}
}

// Value returns the value as of the last call to Sing.
func (p *Param) Value() float64 { return p.x }

func (p *Param) SetValueAtTime(x, t float64) {
	p.insert(paramEvent{kind: setValue, time: t, value: x})
}

// LinearRampToValueAtTime ramps from the previous event's time and value to
// x at time t.
func (p *Param) LinearRampToValueAtTime(x, t float64) {
	p.insert(paramEvent{kind: linearRamp, time: t, value: x})
}

// SetTargetAtTime approaches x exponentially with time constant tc, starting
// at time t and lasting until the next event.
func (p *Param) SetTargetAtTime(x, t, tc float64) {
	p.insert(paramEvent{kind: setTarget, time: t, value: x, tc: tc})
}

// CancelScheduledValues drops all events at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.events = p.events[:p.firstAtOrAfter(t)]
}

// CancelAndHoldAtTime drops all events at or after t and holds the value the
// dropped events would have produced at t.
func (p *Param) CancelAndHoldAtTime(t float64) {
	x := p.valueAt(t)
	i := p.firstAtOrAfter(t)
	ramping := i < len(p.events) && p.events[i].kind == linearRamp
	p.events = p.events[:i]
	if ramping {
		// A pending ramp still reaches t.
		p.LinearRampToValueAtTime(x, t)
	} else {
		p.SetValueAtTime(x, t)
	}
}

func (p *Param) firstAtOrAfter(t float64) int {
	return sort.Search(len(p.events), func(i int) bool { return p.events[i].time >= t })
}

func (p *Param) insert(e paramEvent) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > e.time })
	p.events = append(p.events, paramEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// Sing advances the automation to time t and returns the value there.
func (p *Param) Sing(t float64) float64 {
	p.x, p.t0, p.x0, p.events = evaluate(t, p.last, p.x, p.t0, p.x0, p.events)
	p.last = t
	return p.x
}

func (p *Param) valueAt(t float64) float64 {
	if t <= p.last {
		return p.x
	}
	x, _, _, _ := evaluate(t, p.last, p.x, p.t0, p.x0, p.events)
	return x
}

// evaluate runs events forward from time last (value x) to time t.  It
// returns the value at t, the new ramp anchor and the events still pending.
func evaluate(t, last, x, t0, x0 float64, events []paramEvent) (float64, float64, float64, []paramEvent) {
	for len(events) > 0 {
		e := events[0]
		switch e.kind {
		case setValue:
			if t < e.time {
				return x, t0, x0, events
			}
			x, t0, x0 = e.value, e.time, e.value
		case linearRamp:
			if t < e.time {
				x = x0 + (e.value-x0)*(t-t0)/(e.time-t0)
				return x, t0, x0, events
			}
			x, t0, x0 = e.value, e.time, e.value
		case setTarget:
			if t < e.time {
				return x, t0, x0, events
			}
			end := t
			superseded := len(events) > 1 && events[1].time <= t
			if superseded {
				end = events[1].time
			}
			from := math.Max(last, e.time)
			if e.tc <= 0 {
				x = e.value
			} else if end > from {
				x = e.value + (x-e.value)*math.Exp(-(end-from)/e.tc)
			}
			if !superseded {
				return x, t0, x0, events
			}
			last, t0, x0 = end, end, x
		}
		events = events[1:]
	}
	return x, t0, x0, events
}
