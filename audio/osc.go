package audio

import (
	"math"

	"github.com/gordonklaus/shepard"
)

// Osc is a phase-accumulating oscillator.  Square and sawtooth edges are
// smoothed with polyBLEP to keep aliasing down at high frequencies.
type Osc struct {
	Waveform shepard.Waveform
	Params   Params
	phase    float64
}

func NewOsc(w shepard.Waveform) *Osc {
	return &Osc{Waveform: w}
}

func (o *Osc) InitAudio(p Params) { o.Params = p }

func (o *Osc) Sing(freq float64) float64 {
	dt := freq / o.Params.SampleRate
	_, o.phase = math.Modf(o.phase + dt)
	if o.phase < 0 {
		o.phase++
	}
	p := o.phase
	switch o.Waveform {
	case shepard.Square:
		x := -1.0
		if p < .5 {
			x = 1
		}
		return x + polyBLEP(p, dt) - polyBLEP(math.Mod(p+.5, 1), dt)
	case shepard.Sawtooth:
		return 2*p - 1 - polyBLEP(p, dt)
	case shepard.Triangle:
		return 2*math.Abs(2*p-1) - 1
	}
	return math.Sin(2 * math.Pi * p)
}

func polyBLEP(t, dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	if t < dt {
		t /= dt
		return t + t - t*t - 1
	}
	if t > 1-dt {
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}
