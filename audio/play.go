package audio

import (
	"errors"
	"log"
)

// A Backend pulls buffers from a render function in real time.
type Backend interface {
	Channels() int
	SampleRate() float64
	Start(render func(out [][]float32)) error
	Stop() error
}

// Play starts b rendering s.  The returned PlayControl stops it.
func Play(b Backend, s *Stage) (PlayControl, error) {
	if p := s.Params(); p.Channels != b.Channels() || p.SampleRate != b.SampleRate() {
		return PlayControl{}, errors.New("audio: stage does not match backend stream")
	}
	c := PlayControl{make(chan struct{}, 1), make(chan struct{})}
	if err := b.Start(s.Render); err != nil {
		return PlayControl{}, err
	}

	go func() {
		<-c.stop
		if err := b.Stop(); err != nil {
			log.Println("audio:", err)
		}
		close(c.Done)
	}()
	return c, nil
}

type PlayControl struct {
	stop, Done chan struct{}
}

func (c PlayControl) Stop() {
	select {
	case c.stop <- struct{}{}:
	default:
	}
}
