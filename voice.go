package shepard

import "fmt"

// A VoiceSpec expands into one Voice per starting octave, all on the same
// channel with the same waveform.
type VoiceSpec struct {
	Channel  int
	Waveform Waveform
	Octaves  []int
}

// A Voice is one rung of the octave ladder.
type Voice struct {
	octave    int
	channel   int
	waveform  Waveform
	amplitude float64
	frequency float64
	out       VoiceOutput

	// Set by a wrap until the following tick takes over from wrapAt, the
	// instant of the silent frequency jump.
	wrapped bool
	wrapAt  float64
}

func (v *Voice) Octave() int         { return v.octave }
func (v *Voice) Channel() int        { return v.channel }
func (v *Voice) Waveform() Waveform  { return v.waveform }
func (v *Voice) Amplitude() float64  { return v.amplitude }
func (v *Voice) Frequency() float64  { return v.frequency }
func (v *Voice) Output() VoiceOutput { return v.out }

// ChannelError reports a VoiceSpec whose channel the output does not have.
type ChannelError struct {
	Spec      VoiceSpec
	Available int
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("voice on channel %d skipped: output has %d channels", e.Spec.Channel, e.Available)
}

type Bank struct {
	Voices []*Voice
}

// BuildBank creates the voices described by specs on out.  Specs naming a
// channel out does not have are skipped and reported as *ChannelError
// warnings; the rest of the bank is still built.
func BuildBank(specs []VoiceSpec, out Output, env Envelope, fundamental, scale float64) (*Bank, []error) {
	var warnings []error
	b := &Bank{}
	n := out.NumChannels()
	for _, s := range specs {
		if s.Channel < 0 || s.Channel >= n {
			warnings = append(warnings, &ChannelError{s, n})
			continue
		}
		for _, octave := range s.Octaves {
			freq := Frequency(fundamental, octave)
			amp := scale * env.Weight(freq)
			b.Voices = append(b.Voices, &Voice{
				octave:    octave,
				channel:   s.Channel,
				waveform:  s.Waveform,
				amplitude: amp,
				frequency: freq,
				out:       out.NewVoice(s.Channel, s.Waveform, freq, amp),
			})
		}
	}
	return b, warnings
}
