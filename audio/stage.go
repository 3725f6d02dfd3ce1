package audio

import (
	"sync"

	"github.com/gordonklaus/shepard"
)

// lfeCutoff is the corner frequency of the LFE send.
const lfeCutoff = 120

// A Stage mixes oscillator voices onto output channels.  Every voice also
// feeds a low-passed LFE bus, and a master gain follows the mix.  Time is
// counted in rendered samples.
//
// Stage implements shepard.Output; its methods may be called concurrently
// with Render.
type Stage struct {
	mu         sync.Mutex
	params     Params
	n          int64
	voices     []*stageVoice
	master     *Param
	lfe        *Param
	lfeFilter  *LowPass
	lfeChannel int
	limiters   []*Limiter
	mix        []float64
}

// NewStage returns a silent stage.  lfeChannel may be outside the output's
// channels, in which case the LFE send is dropped.
func NewStage(p Params, lfeChannel int) *Stage {
	s := &Stage{
		params:     p,
		master:     NewParam(0),
		lfe:        NewParam(0),
		lfeFilter:  NewLowPass(lfeCutoff),
		lfeChannel: lfeChannel,
		mix:        make([]float64, p.Channels),
	}
	Init(p, s.lfeFilter)
	return s
}

func (s *Stage) Params() Params { return s.params }

// SetLimit puts a soft limiter on every channel.  A limit <= 0 removes them.
func (s *Stage) SetLimit(limit float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters = nil
	if limit <= 0 {
		return
	}
	for range s.params.Channels {
		l := NewLimiter(limit, .005, .5)
		Init(s.params, l)
		s.limiters = append(s.limiters, l)
	}
}

func (s *Stage) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func (s *Stage) now() float64 { return float64(s.n) / s.params.SampleRate }

func (s *Stage) NumChannels() int { return s.params.Channels }

func (s *Stage) NewVoice(channel int, w shepard.Waveform, freq, gain float64) shepard.VoiceOutput {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &stageVoice{
		stage:   s,
		channel: channel,
		osc:     NewOsc(w),
		freq:    NewParam(freq),
		gain:    NewParam(gain),
	}
	Init(s.params, v.osc)
	s.voices = append(s.voices, v)
	return v
}

func (s *Stage) SetMasterGain(gain, timeConstant float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	approach(s.master, gain, s.now(), timeConstant)
}

func (s *Stage) SetLFEGain(gain, timeConstant float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	approach(s.lfe, gain, s.now(), timeConstant)
}

func approach(p *Param, x, now, tc float64) {
	p.CancelScheduledValues(now)
	p.SetTargetAtTime(x, now, tc)
}

// Render fills one buffer per channel.  Channels beyond len(out) are dropped.
func (s *Stage) Render(out [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(out) == 0 {
		return
	}
	channels := min(len(out), len(s.mix))
	for i := range out[0] {
		t := s.now()
		for c := range s.mix {
			s.mix[c] = 0
		}
		bass := 0.0
		for _, v := range s.voices {
			x := v.osc.Sing(v.freq.Sing(t)) * v.gain.Sing(t)
			if v.channel >= 0 && v.channel < len(s.mix) {
				s.mix[v.channel] += x
			}
			bass += x
		}
		bass = s.lfeFilter.Filter(bass) * s.lfe.Sing(t)
		if s.lfeChannel >= 0 && s.lfeChannel < len(s.mix) {
			s.mix[s.lfeChannel] += bass
		}
		master := s.master.Sing(t)
		for c := 0; c < channels; c++ {
			y := s.mix[c] * master
			if s.limiters != nil {
				y = s.limiters[c].Limit(y)
			}
			out[c][i] = float32(y)
		}
		s.n++
	}
}

type stageVoice struct {
	stage      *Stage
	channel    int
	osc        *Osc
	freq, gain *Param
}

func (v *stageVoice) SetFrequency(hz, rampTo float64) {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	v.freq.LinearRampToValueAtTime(hz, rampTo)
}

func (v *stageVoice) SetFrequencyStep(hz, at float64) {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	v.freq.SetValueAtTime(hz, at)
}

func (v *stageVoice) CancelFrequency(at float64) {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	v.freq.CancelAndHoldAtTime(at)
}

func (v *stageVoice) SetGain(level, rampTo float64) {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	v.gain.LinearRampToValueAtTime(level, rampTo)
}

func (v *stageVoice) SetGainStep(level, at float64) {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	v.gain.SetValueAtTime(level, at)
}

func (v *stageVoice) CancelGain(at float64) {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	v.gain.CancelAndHoldAtTime(at)
}

func (v *stageVoice) Gain() float64 {
	v.stage.mu.Lock()
	defer v.stage.mu.Unlock()
	return v.gain.Value()
}
