package shepard

import (
	"math"
	"testing"
)

func TestLinear(t *testing.T) {
	for level, want := range map[float64]float64{
		-10: 0,
		0:   0,
		100: 1,
		60:  .1,
		80:  math.Pow(10, -.5),
	} {
		if got := Linear(level); math.Abs(got-want) > 1e-12 {
			t.Errorf("Linear(%g) = %g, want %g", level, got, want)
		}
	}
}

func TestCentsToRatio(t *testing.T) {
	if r := CentsToRatio(1200); math.Abs(r-2) > 1e-12 {
		t.Errorf("CentsToRatio(1200) = %g, want 2", r)
	}
	if r := CentsToRatio(-700) * CentsToRatio(700); math.Abs(r-1) > 1e-12 {
		t.Errorf("a fifth down and up gives ratio %g", r)
	}
}

func TestMuteRestoresLevel(t *testing.T) {
	out := newFakeOutput(8)
	c, err := New(DefaultConfig(), out)
	if err != nil {
		t.Fatal(err)
	}
	want := Linear(37)

	c.SetMasterLevel(37)
	if out.master != want {
		t.Fatalf("master gain %g, want %g", out.master, want)
	}
	c.SetMute(true)
	c.SetMute(true)
	if !c.Muted() || out.master != 0 || c.MasterGain() != 0 {
		t.Fatalf("muted: master gain %g", out.master)
	}
	c.SetMute(false)
	if c.Muted() || out.master != want || c.MasterGain() != want {
		t.Errorf("unmuted: master gain %g (target %g), want %g", out.master, c.MasterGain(), want)
	}
}

func TestLevelWhileMuted(t *testing.T) {
	out := newFakeOutput(8)
	c, err := New(DefaultConfig(), out)
	if err != nil {
		t.Fatal(err)
	}
	if !c.ToggleMute() {
		t.Fatal("ToggleMute did not mute")
	}
	c.SetMasterLevel(80)
	if out.master != 0 {
		t.Errorf("level change unmuted the output: gain %g", out.master)
	}
	if c.ToggleMute() {
		t.Fatal("ToggleMute did not unmute")
	}
	if out.master != Linear(80) || c.MasterLevel() != 80 {
		t.Errorf("master gain %g, want %g", out.master, Linear(80))
	}
}

func TestLFELevel(t *testing.T) {
	out := newFakeOutput(8)
	c, err := New(DefaultConfig(), out)
	if err != nil {
		t.Fatal(err)
	}
	if out.lfe != 0 {
		t.Errorf("initial LFE gain %g, want 0", out.lfe)
	}
	c.SetLFELevel(70)
	if out.lfe != Linear(70) || c.LFELevel() != 70 {
		t.Errorf("LFE gain %g, want %g", out.lfe, Linear(70))
	}
}
