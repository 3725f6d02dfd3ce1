package main

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/shepard"
)

type action int

const (
	none action = iota
	faster
	slower
	reverse
	hold
	louder
	quieter
	moreLFE
	lessLFE
	mute
	quit
)

const (
	rateStep  = 25
	maxRate   = 1200
	levelStep = 5
)

// keyReader turns raw terminal bytes into actions, decoding the escape
// sequences of the arrow keys.
type keyReader struct {
	esc int
}

func (k *keyReader) feed(b byte) action {
	switch k.esc {
	case 1:
		k.esc = 0
		if b == '[' {
			k.esc = 2
		}
		return none
	case 2:
		k.esc = 0
		switch b {
		case 'A':
			return faster
		case 'B':
			return slower
		case 'C':
			return louder
		case 'D':
			return quieter
		}
		return none
	}
	switch b {
	case 0x1b:
		k.esc = 1
	case 'k':
		return faster
	case 'j':
		return slower
	case 'r':
		return reverse
	case '0':
		return hold
	case '+', '=':
		return louder
	case '-', '_':
		return quieter
	case ']':
		return moreLFE
	case '[':
		return lessLFE
	case 'm':
		return mute
	case 'q', 3: // ctrl-c in raw mode
		return quit
	}
	return none
}

// apply performs a on c and reports whether it asks to quit.
func apply(c *shepard.Controller, a action) bool {
	switch a {
	case faster:
		c.SetRate(clamp(c.Rate()+rateStep, -maxRate, maxRate))
	case slower:
		c.SetRate(clamp(c.Rate()-rateStep, -maxRate, maxRate))
	case reverse:
		c.SetRate(-c.Rate())
	case hold:
		c.SetRate(0)
	case louder:
		c.SetMasterLevel(clamp(c.MasterLevel()+levelStep, 0, 100))
	case quieter:
		c.SetMasterLevel(clamp(c.MasterLevel()-levelStep, 0, 100))
	case moreLFE:
		c.SetLFELevel(clamp(c.LFELevel()+levelStep, 0, 100))
	case lessLFE:
		c.SetLFELevel(clamp(c.LFELevel()-levelStep, 0, 100))
	case mute:
		c.ToggleMute()
	case quit:
		return true
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}

// status renders one line: rate, volume, LFE and a cell per output channel
// showing its number when a voice on it is sounding.
func status(c *shepard.Controller, numChannels int) string {
	cells := make([]byte, numChannels)
	for i := range cells {
		cells[i] = '.'
	}
	for _, ch := range c.ActiveChannels() {
		if ch < numChannels {
			cells[ch] = "0123456789abcdefghijklmnopqrstuvwxyz"[ch%36]
		}
	}
	vol := fmt.Sprintf("%3.0f", c.MasterLevel())
	if c.Muted() {
		vol = "mute"
	}
	return strings.Join([]string{
		fmt.Sprintf("rate %+5.0f c/s", c.Rate()),
		"vol " + vol,
		fmt.Sprintf("lfe %3.0f", c.LFELevel()),
		"[" + string(cells) + "]",
	}, "  ")
}
