package shepard

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

// ActiveThreshold is the amplitude above which a voice counts as sounding.
const ActiveThreshold = .001

var ErrRunning = errors.New("shepard: controller already running")

// VoiceLevel is a voice's channel and amplitude as of the last tick.
type VoiceLevel struct {
	Channel   int
	Octave    int
	Amplitude float64
	Active    bool
}

// A Controller runs the glissando: each tick it moves the fundamental by the
// current rate, keeps it within one octave above MinFrequency by shifting every
// voice's octave instead, and retunes and re-weights the voices.
//
// Pitch and voice state belong to Tick.  Other goroutines may only use the
// rate and gain setters and the observation methods.
//
// The fundamental is corrected by at most one octave per tick, so the rate
// must stay below 1200 cents per longest expected tick interval.
type Controller struct {
	cfg       Config
	env       Envelope
	out       Output
	bank      *Bank
	period    float64
	smoothing float64

	rate atomic.Uint64

	fundamental float64
	lastTick    float64

	lifecycle sync.Mutex
	running   atomic.Bool
	ticking   atomic.Bool
	stop      func()

	levels atomic.Pointer[[]VoiceLevel]

	gain   sync.Mutex
	master float64
	lfe    float64
	muted  bool
}

// New builds the voice bank on out.  Voices on channels out does not have
// are skipped with a logged warning.
func New(cfg Config, out Output) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("shepard: invalid config: %w", err)
	}
	c := &Controller{
		cfg:         cfg,
		env:         cfg.Envelope(),
		out:         out,
		period:      cfg.ControlPeriod.Seconds(),
		smoothing:   cfg.Smoothing.Seconds(),
		fundamental: cfg.fundamental(),
		master:      cfg.MasterLevel,
		lfe:         cfg.LFELevel,
	}
	c.SetRate(cfg.Rate)

	bank, warnings := BuildBank(cfg.Voices, out, c.env, c.fundamental, cfg.Scale)
	for _, w := range warnings {
		log.Println("shepard:", w)
	}
	c.bank = bank
	c.publish()

	out.SetMasterGain(Linear(c.master), 0)
	out.SetLFEGain(Linear(c.lfe), 0)
	return c, nil
}

// Start schedules Tick every control period.  If s cannot schedule, the
// controller stays stopped and Start may be retried.
func (c *Controller) Start(s Scheduler) error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.running.Load() {
		return ErrRunning
	}
	c.lastTick = c.out.Now()
	c.running.Store(true)
	stop, err := s.Every(c.cfg.ControlPeriod, c.Tick)
	if err != nil {
		c.running.Store(false)
		return fmt.Errorf("shepard: start: %w", err)
	}
	c.stop = stop
	return nil
}

func (c *Controller) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if !c.running.Load() {
		return
	}
	c.running.Store(false)
	c.stop()
	c.stop = nil
}

func (c *Controller) Running() bool { return c.running.Load() }

// Tick advances the glissando to the output's current time.  It does nothing
// while the controller is stopped or while another Tick is in progress.
func (c *Controller) Tick() {
	if !c.running.Load() || !c.ticking.CompareAndSwap(false, true) {
		return
	}
	defer c.ticking.Store(false)
	c.tick(c.out.Now())
}

func (c *Controller) tick(now float64) {
	dt := math.Max(0, now-c.lastTick)
	rate := c.Rate()
	c.fundamental *= CentsToRatio(rate * dt)

	lo := c.cfg.MinFrequency
	increment := 0
	switch {
	case rate >= 0 && c.fundamental > 2*lo:
		c.fundamental /= 2
		increment = 1
	case rate < 0 && c.fundamental < lo:
		c.fundamental *= 2
		increment = -1
	}

	n := c.cfg.NumOctaves
	for _, v := range c.bank.Voices {
		octave := v.octave + increment
		if rate >= 0 && octave < n || rate < 0 && octave >= 0 {
			c.glide(v, octave, now)
		} else {
			c.wrap(v, octave, now)
		}
	}

	c.lastTick = now
	c.publish()
}

// glide moves v smoothly to octave.  The gain crossfade starts from the live
// gain, which need not equal the previous target when the smoothing time is
// not a multiple of the control period.
//
// A voice that wrapped on the previous tick may not have reached its jump yet.
// Its automation is then taken over from the jump instant, silent and at the
// jumped-to frequency, so the jump is never cancelled.
func (c *Controller) glide(v *Voice, octave int, now float64) {
	freq := Frequency(c.fundamental, octave)
	target := c.cfg.Scale * c.env.Weight(freq)

	from, current := now, 0.0
	if v.wrapped {
		from = math.Max(now, v.wrapAt)
		v.wrapped = false
	} else {
		current = v.out.Gain()
	}

	v.out.CancelFrequency(from)
	v.out.SetFrequency(freq, math.Max(from, now+c.period))

	v.out.CancelGain(from)
	v.out.SetGainStep(current, from)
	v.out.SetGain(target, math.Max(from, now+c.smoothing))

	v.octave = octave
	v.frequency = freq
	v.amplitude = current
}

// wrap moves a voice that ran off one end of the ladder to the other end,
// silencing it at the instant its frequency jumps.
func (c *Controller) wrap(v *Voice, octave int, now float64) {
	jump := c.cfg.NumOctaves - 1
	if octave >= c.cfg.NumOctaves {
		jump = 0
	}
	freq := Frequency(c.fundamental, jump)
	from := now
	if v.wrapped {
		from = math.Max(now, v.wrapAt)
	}
	at := math.Max(from, now+c.period)

	v.out.CancelFrequency(from)
	v.out.SetFrequencyStep(freq, at)
	v.out.CancelGain(from)
	v.out.SetGainStep(0, at)

	v.octave = jump
	v.frequency = freq
	v.amplitude = 0
	v.wrapped = true
	v.wrapAt = at
}

func (c *Controller) publish() {
	levels := make([]VoiceLevel, len(c.bank.Voices))
	for i, v := range c.bank.Voices {
		levels[i] = VoiceLevel{
			Channel:   v.channel,
			Octave:    v.octave,
			Amplitude: v.amplitude,
			Active:    v.amplitude > ActiveThreshold,
		}
	}
	c.levels.Store(&levels)
}

// Snapshot returns every voice's level as of the last tick.
func (c *Controller) Snapshot() []VoiceLevel {
	return *c.levels.Load()
}

// ActiveChannels returns, in order, the channels with at least one sounding
// voice as of the last tick.
func (c *Controller) ActiveChannels() []int {
	seen := map[int]bool{}
	var channels []int
	for _, l := range c.Snapshot() {
		if l.Active && !seen[l.Channel] {
			seen[l.Channel] = true
			channels = append(channels, l.Channel)
		}
	}
	sort.Ints(channels)
	return channels
}

// Voices returns the voice bank.  Voice state changes on every tick; read it
// only while the controller is stopped or from the scheduler's goroutine.
func (c *Controller) Voices() []*Voice { return c.bank.Voices }

// Fundamental is subject to the same restriction as Voices.
func (c *Controller) Fundamental() float64 { return c.fundamental }

// SetRate sets the glissando speed in cents per second; negative falls.
func (c *Controller) SetRate(cents float64) {
	c.rate.Store(math.Float64bits(cents))
}

func (c *Controller) Rate() float64 {
	return math.Float64frombits(c.rate.Load())
}

// SetMasterLevel sets the volume level (see Linear).  While muted the level is
// only remembered.
func (c *Controller) SetMasterLevel(level float64) {
	c.gain.Lock()
	defer c.gain.Unlock()
	c.master = level
	c.applyMaster()
}

func (c *Controller) MasterLevel() float64 {
	c.gain.Lock()
	defer c.gain.Unlock()
	return c.master
}

func (c *Controller) SetLFELevel(level float64) {
	c.gain.Lock()
	defer c.gain.Unlock()
	c.lfe = level
	c.out.SetLFEGain(Linear(level), MuteTimeConstant)
}

func (c *Controller) LFELevel() float64 {
	c.gain.Lock()
	defer c.gain.Unlock()
	return c.lfe
}

// SetMute fades the master gain out or back to the current level.
func (c *Controller) SetMute(muted bool) {
	c.gain.Lock()
	defer c.gain.Unlock()
	if c.muted == muted {
		return
	}
	c.muted = muted
	c.applyMaster()
}

// ToggleMute flips the mute state and returns the new one.
func (c *Controller) ToggleMute() bool {
	c.gain.Lock()
	defer c.gain.Unlock()
	c.muted = !c.muted
	c.applyMaster()
	return c.muted
}

func (c *Controller) Muted() bool {
	c.gain.Lock()
	defer c.gain.Unlock()
	return c.muted
}

// MasterGain returns the linear master gain target.
func (c *Controller) MasterGain() float64 {
	c.gain.Lock()
	defer c.gain.Unlock()
	return c.masterGain()
}

func (c *Controller) masterGain() float64 {
	if c.muted {
		return 0
	}
	return Linear(c.master)
}

func (c *Controller) applyMaster() {
	c.out.SetMasterGain(c.masterGain(), MuteTimeConstant)
}
