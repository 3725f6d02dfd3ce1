package audio

import "math"

// kneeRatio is the RMS level, relative to the limit, below which a Limiter
// leaves the signal untouched.
const kneeRatio = .5

// A Limiter softly limits one channel.  It looks ahead by its attack time: the
// RMS level over that window moves the gain, in octaves, down within the attack
// time and back up within the decay time.  The gain settles where a level y
// (relative to the limit) is scaled by tanh(y)/y, so much of a loud signal still
// exceeds the limit.  Signals under kneeRatio of the limit pass at unity gain.
type Limiter struct {
	limit         float64
	attack, decay float64
	fall, rise    float64
	logGain       float64
	rms           *RMS
	ahead         []float64
	i             int
}

func NewLimiter(limit, attack, decay float64) *Limiter {
	return &Limiter{limit: limit, attack: attack, decay: decay, rms: NewRMS(attack)}
}

func (l *Limiter) InitAudio(p Params) {
	l.fall = 1 / (l.attack * p.SampleRate)
	l.rise = 1 / (l.decay * p.SampleRate)
	l.logGain = 0
	l.ahead = make([]float64, max(1, int(l.attack*p.SampleRate)))
	l.i = 0
	Init(p, l.rms)
}

// Gain returns the current gain, in (0, 1].
func (l *Limiter) Gain() float64 { return math.Exp2(l.logGain) }

// Limit takes one input sample and returns the output lagging one attack time
// behind.
func (l *Limiter) Limit(x float64) float64 {
	gain := l.Gain()
	l.rms.Add(x)
	if y := l.rms.Amplitude() / l.limit; y > kneeRatio && math.Tanh(y)/y < gain {
		l.logGain -= l.fall
	} else if l.logGain < 0 {
		l.logGain = math.Min(0, l.logGain+l.rise)
	}
	out := l.ahead[l.i]
	l.ahead[l.i] = x
	l.i = (l.i + 1) % len(l.ahead)
	return gain * out
}
