package shepard

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	NumOctaves    int
	MinFrequency  float64 // Hz
	Fundamental   float64 // starting fundamental; 0 means MinFrequency
	ControlPeriod time.Duration
	Smoothing     time.Duration // gain crossfade per tick
	Scale         float64       // per-voice headroom
	Rate          float64       // cents per second
	Breakpoints   []float64
	Voices        []VoiceSpec

	MasterLevel float64 // 0-100
	LFELevel    float64 // 0-100
}

func DefaultConfig() Config {
	return Config{
		NumOctaves:    10,
		MinFrequency:  20,
		ControlPeriod: 10 * time.Millisecond,
		Smoothing:     50 * time.Millisecond,
		Scale:         .1,
		Rate:          200,
		Breakpoints:   LoudnessBreakpoints,
		Voices:        SurroundLayout,
		MasterLevel:   50,
	}
}

func (c Config) Envelope() Envelope {
	return Envelope{MinFrequency: c.MinFrequency, NumOctaves: c.NumOctaves, Breakpoints: c.Breakpoints}
}

func (c Config) fundamental() float64 {
	if c.Fundamental == 0 {
		return c.MinFrequency
	}
	return c.Fundamental
}

func (c Config) Validate() error {
	errs := []error{c.Envelope().Validate()}
	if c.ControlPeriod <= 0 {
		errs = append(errs, fmt.Errorf("control period %v must be positive", c.ControlPeriod))
	}
	if f := c.Fundamental; f != 0 && (f < c.MinFrequency || f > 2*c.MinFrequency) {
		errs = append(errs, fmt.Errorf("starting fundamental %g outside [%g, %g]", f, c.MinFrequency, 2*c.MinFrequency))
	}
	if c.Smoothing < 0 {
		errs = append(errs, fmt.Errorf("smoothing %v must not be negative", c.Smoothing))
	}
	if c.Scale < 0 {
		errs = append(errs, fmt.Errorf("scale %g must not be negative", c.Scale))
	}
	if len(c.Voices) == 0 {
		errs = append(errs, errors.New("no voices"))
	}
	return errors.Join(errs...)
}
