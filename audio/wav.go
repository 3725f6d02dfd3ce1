package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gordonklaus/shepard"
)

// A Runner is started with a scheduler and runs until stopped.
// *shepard.Controller is a Runner.
type Runner interface {
	Start(shepard.Scheduler) error
	Stop()
}

const wavBlockFrames = 4096

// WriteWAV renders seconds of s to a 16-bit WAV file at path.  r is started on
// the rendered sample clock, so its ticks land at exact sample positions
// however fast the rendering runs.
func WriteWAV(path string, s *Stage, r Runner, seconds float64) (err error) {
	p := s.Params()
	var d EventDelay
	Init(p, &d)
	if err := r.Start(EventScheduler{&d}); err != nil {
		return err
	}
	defer r.Stop()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("audio: %w", cerr)
		}
	}()

	enc := wav.NewEncoder(f, int(p.SampleRate), 16, p.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: p.Channels, SampleRate: int(p.SampleRate)},
		Data:           make([]int, 0, wavBlockFrames*p.Channels),
		SourceBitDepth: 16,
	}
	frame := make([][]float32, p.Channels)
	for c := range frame {
		frame[c] = make([]float32, 1)
	}

	total := int(math.Round(seconds * p.SampleRate))
	for i := 0; i < total; i++ {
		d.Step()
		s.Render(frame)
		for _, x := range frame {
			buf.Data = append(buf.Data, int(math.Round(32767*math.Max(-1, math.Min(1, float64(x[0]))))))
		}
		if len(buf.Data) == cap(buf.Data) || i == total-1 {
			if err := enc.Write(buf); err != nil {
				return fmt.Errorf("audio: writing %s: %w", path, err)
			}
			buf.Data = buf.Data[:0]
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audio: closing %s: %w", path, err)
	}
	return nil
}
