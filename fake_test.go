package shepard

import (
	"errors"
	"time"
)

type call struct {
	name  string
	value float64
	time  float64
}

type fakeOutput struct {
	now      float64
	channels int
	voices   []*fakeVoice
	master   float64
	lfe      float64
	nowCalls int
	onNow    func()
}

func newFakeOutput(channels int) *fakeOutput {
	return &fakeOutput{channels: channels}
}

func (o *fakeOutput) Now() float64 {
	o.nowCalls++
	if o.onNow != nil {
		o.onNow()
	}
	return o.now
}

func (o *fakeOutput) NumChannels() int { return o.channels }

func (o *fakeOutput) NewVoice(channel int, w Waveform, freq, gain float64) VoiceOutput {
	v := &fakeVoice{channel: channel, waveform: w, freq: freq, gain: gain}
	o.voices = append(o.voices, v)
	return v
}

func (o *fakeOutput) SetMasterGain(gain, timeConstant float64) { o.master = gain }
func (o *fakeOutput) SetLFEGain(gain, timeConstant float64)    { o.lfe = gain }

// fakeVoice jumps straight to every commanded value and records the command.
type fakeVoice struct {
	channel  int
	waveform Waveform
	freq     float64
	gain     float64
	calls    []call
}

func (v *fakeVoice) record(name string, value, time float64) {
	v.calls = append(v.calls, call{name, value, time})
}

func (v *fakeVoice) SetFrequency(hz, rampTo float64) {
	v.record("SetFrequency", hz, rampTo)
	v.freq = hz
}

func (v *fakeVoice) SetFrequencyStep(hz, at float64) {
	v.record("SetFrequencyStep", hz, at)
	v.freq = hz
}

func (v *fakeVoice) CancelFrequency(at float64) { v.record("CancelFrequency", 0, at) }

func (v *fakeVoice) SetGain(level, rampTo float64) {
	v.record("SetGain", level, rampTo)
	v.gain = level
}

func (v *fakeVoice) SetGainStep(level, at float64) {
	v.record("SetGainStep", level, at)
	v.gain = level
}

func (v *fakeVoice) CancelGain(at float64) { v.record("CancelGain", 0, at) }
func (v *fakeVoice) Gain() float64         { return v.gain }

type manualScheduler struct {
	period  time.Duration
	f       func()
	stopped bool
	err     error
}

func (s *manualScheduler) Every(period time.Duration, f func()) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	s.period, s.f = period, f
	return func() { s.stopped = true }, nil
}

// advance moves the clock by dt and delivers one tick.
func (s *manualScheduler) advance(o *fakeOutput, dt float64) {
	o.now += dt
	s.f()
}

var errNoTimer = errors.New("no timer")
