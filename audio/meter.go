package audio

import "math"

// RMS measures the root-mean-square amplitude over a sliding window.
type RMS struct {
	windowSize float64
	buf        []float64
	i          int
	sum        float64
}

func NewRMS(windowSize float64) *RMS {
	return &RMS{windowSize: windowSize}
}

func (r *RMS) InitAudio(p Params) {
	r.buf = make([]float64, max(1, int(p.SampleRate*r.windowSize)))
	r.i = 0
	r.sum = 0
}

func (r *RMS) Add(x float64) {
	r.sum -= r.buf[r.i]
	r.buf[r.i] = x * x
	r.sum += r.buf[r.i]
	r.i = (r.i + 1) % len(r.buf)
}

func (r *RMS) Amplitude() float64 {
	return math.Sqrt(math.Max(0, r.sum) / float64(len(r.buf)))
}
