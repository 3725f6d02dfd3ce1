package audio

import "math"

// LowPass is a one-pole low-pass filter.
type LowPass struct {
	cutoff float64
	a, y   float64
}

func NewLowPass(cutoff float64) *LowPass {
	return &LowPass{cutoff: cutoff}
}

func (f *LowPass) InitAudio(p Params) {
	f.a = 1 - math.Exp(-2*math.Pi*f.cutoff/p.SampleRate)
}

func (f *LowPass) Filter(x float64) float64 {
	f.y += f.a * (x - f.y)
	return f.y
}
