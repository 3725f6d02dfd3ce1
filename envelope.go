package shepard

import (
	"errors"
	"fmt"
	"math"
)

// FlatBreakpoints gives every interior octave full weight.
var FlatBreakpoints = []float64{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0}

// LoudnessBreakpoints follows an equal-loudness contour: octaves where the ear
// is most sensitive get less weight.
var LoudnessBreakpoints = []float64{0, 1, 1, .9, .81, .73, .66, .6, .66, .8, 0}

const minEnvelopeFrequency = 1e-9

// An Envelope maps a frequency to a loudness weight by interpolating between
// per-octave breakpoints, starting at MinFrequency.
type Envelope struct {
	MinFrequency float64
	NumOctaves   int
	Breakpoints  []float64 // len == NumOctaves+1
}

// Weight returns the envelope weight in [0, 1] at freq.  Frequencies at or
// outside the band, including non-positive ones, weigh 0.
func (e Envelope) Weight(freq float64) float64 {
	freq = math.Max(freq, minEnvelopeFrequency)
	octave := math.Log2(freq / e.MinFrequency)
	if !(octave > 0 && octave < float64(e.NumOctaves)) {
		return 0
	}
	i := int(octave)
	frac := octave - float64(i)
	return (1-frac)*e.Breakpoints[i] + frac*e.Breakpoints[i+1]
}

// Frequency returns the frequency of the given octave above fundamental.
func Frequency(fundamental float64, octave int) float64 {
	return fundamental * math.Exp2(float64(octave))
}

func (e Envelope) Validate() error {
	var errs []error
	if e.MinFrequency <= 0 {
		errs = append(errs, fmt.Errorf("minimum frequency %g must be positive", e.MinFrequency))
	}
	if e.NumOctaves < 1 {
		errs = append(errs, fmt.Errorf("number of octaves %d must be at least 1", e.NumOctaves))
	}
	if n := len(e.Breakpoints); n != e.NumOctaves+1 {
		errs = append(errs, fmt.Errorf("%d breakpoints for %d octaves, want %d", n, e.NumOctaves, e.NumOctaves+1))
	} else if e.Breakpoints[0] != 0 || e.Breakpoints[n-1] != 0 {
		errs = append(errs, errors.New("boundary breakpoints must be 0"))
	}
	for i, w := range e.Breakpoints {
		if w < 0 || w > 1 {
			errs = append(errs, fmt.Errorf("breakpoint %d weight %g outside [0, 1]", i, w))
		}
	}
	return errors.Join(errs...)
}
