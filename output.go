package shepard

import "fmt"

// Output is the audio stage the controller drives.  Times are in seconds on
// the output's own monotonic clock.
type Output interface {
	Now() float64
	NumChannels() int
	NewVoice(channel int, w Waveform, freq, gain float64) VoiceOutput
	SetMasterGain(gain, timeConstant float64)
	SetLFEGain(gain, timeConstant float64)
}

// VoiceOutput is the oscillator and gain stage behind a single Voice.
type VoiceOutput interface {
	// SetFrequency ramps linearly to hz, arriving at time rampTo.
	SetFrequency(hz, rampTo float64)
	SetFrequencyStep(hz, at float64)
	// CancelFrequency drops frequency changes scheduled at or after at,
	// holding the current value.
	CancelFrequency(at float64)

	SetGain(level, rampTo float64)
	SetGainStep(level, at float64)
	CancelGain(at float64)
	// Gain is the live gain, not the last scheduled target.
	Gain() float64
}

type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = [...]string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return fmt.Sprintf("Waveform(%d)", int(w))
	}
	return waveformNames[w]
}

func ParseWaveform(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if s == name {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("unknown waveform %q", s)
}
