package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Oto plays through the system's default mono or stereo output.  It is the
// fallback where portaudio is unavailable; multichannel layouts lose every
// voice beyond the first two channels.
type Oto struct {
	ctx        *oto.Context
	player     *oto.Player
	channels   int
	sampleRate int
	render     func(out [][]float32)
	bufs       [][]float32
}

// OpenOto creates the process's oto context.  Only one may exist at a time.
func OpenOto(sampleRate, channels int) (*Oto, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("audio: oto supports 1 or 2 channels, not %d", channels)
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: oto: %w", err)
	}
	<-ready
	return &Oto{ctx: ctx, channels: channels, sampleRate: sampleRate, bufs: make([][]float32, channels)}, nil
}

func (o *Oto) Channels() int       { return o.channels }
func (o *Oto) SampleRate() float64 { return float64(o.sampleRate) }

func (o *Oto) Start(render func(out [][]float32)) error {
	if o.player != nil {
		return errors.New("audio: oto already started")
	}
	o.render = render
	o.player = o.ctx.NewPlayer(o)
	o.player.Play()
	return nil
}

// Read renders interleaved little-endian float32 frames for the oto player.
func (o *Oto) Read(p []byte) (int, error) {
	const sampleSize = 4
	frames := len(p) / (sampleSize * o.channels)
	for c := range o.bufs {
		if cap(o.bufs[c]) < frames {
			o.bufs[c] = make([]float32, frames)
		}
		o.bufs[c] = o.bufs[c][:frames]
	}
	o.render(o.bufs)
	i := 0
	for f := 0; f < frames; f++ {
		for c := range o.bufs {
			binary.LittleEndian.PutUint32(p[i:], math.Float32bits(o.bufs[c][f]))
			i += sampleSize
		}
	}
	return i, nil
}

func (o *Oto) Stop() error {
	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	if serr := o.ctx.Suspend(); err == nil {
		err = serr
	}
	return err
}
