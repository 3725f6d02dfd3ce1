package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gordonklaus/shepard"
)

func render(s *Stage, frames int) [][]float32 {
	out := make([][]float32, s.NumChannels())
	for c := range out {
		out[c] = make([]float32, frames)
	}
	s.Render(out)
	return out
}

func peak(x []float32) float64 {
	p := 0.0
	for _, x := range x {
		p = math.Max(p, math.Abs(float64(x)))
	}
	return p
}

func TestStageRoutesVoices(t *testing.T) {
	s := NewStage(Params{SampleRate: 48000, Channels: 8}, 3)
	s.NewVoice(0, shepard.Sine, 1000, .5)
	s.NewVoice(5, shepard.Sine, 1000, .5)
	s.SetMasterGain(1, 0)
	out := render(s, 480)
	for c, x := range out {
		p := peak(x)
		switch c {
		case 0, 5:
			if math.Abs(p-.5) > .01 {
				t.Errorf("channel %d: peak %g, want .5", c, p)
			}
		default:
			if p != 0 {
				t.Errorf("channel %d: peak %g, want silence", c, p)
			}
		}
	}
	if now := s.Now(); math.Abs(now-.01) > 1e-12 {
		t.Errorf("Now() = %g, want .01", now)
	}
}

func TestStageLFESend(t *testing.T) {
	lfe := func(freq float64) float64 {
		s := NewStage(Params{SampleRate: 48000, Channels: 8}, 3)
		s.NewVoice(0, shepard.Sine, freq, 1)
		s.SetMasterGain(1, 0)
		s.SetLFEGain(1, 0)
		render(s, 4800)
		return peak(render(s, 4800)[3])
	}
	low, high := lfe(40), lfe(4000)
	if low < .5 {
		t.Errorf("40Hz LFE peak %g", low)
	}
	if high > .05 {
		t.Errorf("4kHz LFE peak %g", high)
	}
}

func TestStageWithoutLFEChannel(t *testing.T) {
	s := NewStage(Params{SampleRate: 48000, Channels: 2}, shepard.LFEChannel)
	s.NewVoice(1, shepard.Square, 50, 1)
	s.NewVoice(4, shepard.Square, 50, 1)
	s.SetMasterGain(1, 0)
	s.SetLFEGain(1, 0)
	out := render(s, 480)
	if p := peak(out[0]); p != 0 {
		t.Errorf("channel 0: peak %g", p)
	}
	if p := peak(out[1]); p == 0 {
		t.Error("channel 1 silent")
	}
}

func TestStageMasterFade(t *testing.T) {
	s := NewStage(Params{SampleRate: 48000, Channels: 1}, -1)
	s.NewVoice(0, shepard.Sine, 1000, 1)
	s.SetMasterGain(1, 0)
	render(s, 4800)
	s.SetMasterGain(0, shepard.MuteTimeConstant)
	fading := render(s, 480)
	if p := peak(fading[0][:48]); p < .5 {
		t.Errorf("faded too fast: peak %g in the first millisecond", p)
	}
	render(s, 4800)
	if p := peak(render(s, 480)[0]); p > .001 {
		t.Errorf("still audible after the fade: peak %g", p)
	}
}

func TestStageVoiceAutomation(t *testing.T) {
	s := NewStage(Params{SampleRate: 48000, Channels: 1}, -1)
	v := s.NewVoice(0, shepard.Sine, 1000, 0)
	s.SetMasterGain(1, 0)
	v.CancelGain(0)
	v.SetGain(1, .01)
	render(s, 240)
	if g := v.Gain(); math.Abs(g-.5) > .01 {
		t.Errorf("halfway through the ramp: gain %g", g)
	}
	render(s, 480)
	if g := v.Gain(); g != 1 {
		t.Errorf("after the ramp: gain %g", g)
	}
	now := s.Now()
	v.CancelGain(now)
	v.SetGainStep(0, now+.001)
	render(s, 96)
	if g := v.Gain(); g != 0 {
		t.Errorf("after the step: gain %g", g)
	}
}

func TestStageLimit(t *testing.T) {
	s := NewStage(Params{SampleRate: 48000, Channels: 1}, -1)
	s.SetLimit(.1)
	s.NewVoice(0, shepard.Sine, 200, 1)
	s.SetMasterGain(1, 0)
	render(s, 48000)
	if p := peak(render(s, 4800)[0]); p > .3 {
		t.Errorf("limited peak %g", p)
	}
}

func TestStageDrivenByController(t *testing.T) {
	s := NewStage(Params{SampleRate: 48000, Channels: 8}, shepard.LFEChannel)
	c, err := shepard.New(shepard.DefaultConfig(), s)
	if err != nil {
		t.Fatal(err)
	}
	var d EventDelay
	Init(s.Params(), &d)
	if err := c.Start(EventScheduler{&d}); err != nil {
		t.Fatal(err)
	}
	defer c.Stop()
	frame := make([][]float32, 8)
	for i := range frame {
		frame[i] = make([]float32, 1)
	}
	for i := 0; i < 24000; i++ {
		d.Step()
		s.Render(frame)
	}
	for _, ch := range c.ActiveChannels() {
		if ch == shepard.LFEChannel {
			t.Errorf("voice active on the LFE channel")
		}
	}
	if len(c.ActiveChannels()) != 7 {
		t.Errorf("active channels %v", c.ActiveChannels())
	}
}

func BenchmarkStageRender(b *testing.B) {
	s := NewStage(Params{SampleRate: 48000, Channels: 8}, shepard.LFEChannel)
	if _, err := shepard.New(shepard.DefaultConfig(), s); err != nil {
		b.Fatal(err)
	}
	out := make([][]float32, 8)
	for i := range out {
		out[i] = make([]float32, 256)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Render(out)
	}
}

type bufferScheduler struct{ f func() }

func (s *bufferScheduler) Every(_ time.Duration, f func()) (func(), error) {
	s.f = f
	return func() { s.f = nil }, nil
}

// TestWraparoundSilentInStage renders a fast glissando sample by sample and
// checks that no voice jumps in frequency while audible.  Ticks land either on
// the sample clock or at buffer boundaries, as with a real device.
func TestWraparoundSilentInStage(t *testing.T) {
	for _, tc := range []struct {
		name  string
		rate  float64
		every int // frames between ticks; 0 ticks on the sample clock
	}{
		{"rising", 1100, 0},
		{"falling", -1100, 0},
		{"rising/256", 1100, 256},
		{"rising/512", 1100, 512},
		{"falling/256", -1100, 256},
		{"falling/512", -1100, 512},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStage(Params{SampleRate: 48000, Channels: 8}, shepard.LFEChannel)
			cfg := shepard.DefaultConfig()
			cfg.Rate = tc.rate
			c, err := shepard.New(cfg, s)
			if err != nil {
				t.Fatal(err)
			}
			var d EventDelay
			Init(s.Params(), &d)
			var sched shepard.Scheduler = EventScheduler{&d}
			buffered := &bufferScheduler{}
			if tc.every > 0 {
				sched = buffered
			}
			if err := c.Start(sched); err != nil {
				t.Fatal(err)
			}
			defer c.Stop()

			frame := make([][]float32, 8)
			for i := range frame {
				frame[i] = make([]float32, 1)
			}
			last := make([]float64, len(s.voices))
			for i, v := range s.voices {
				last[i] = v.freq.Value()
			}
			jumps := 0
			for n := 0; n < 3*48000; n++ {
				if tc.every > 0 && n%tc.every == 0 && n > 0 {
					buffered.f()
				}
				d.Step()
				s.Render(frame)
				for i, v := range s.voices {
					f := v.freq.Value()
					if r := f / last[i]; r > 1.5 || r < 1/1.5 {
						jumps++
						// At most one sample into the fade-in that follows the jump.
						if g := v.gain.Value(); g > 1e-4 {
							t.Errorf("voice %d: frequency %g -> %g at sample %d with gain %g", i, last[i], f, n, g)
						}
					}
					last[i] = f
				}
			}
			if jumps == 0 {
				t.Error("no voice wrapped")
			}
		})
	}
}
