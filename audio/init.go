package audio

// Params describe the stream an Initer renders into.
type Params struct {
	SampleRate float64
	Channels   int
}

// An Initer needs the stream parameters before it can render.
type Initer interface {
	InitAudio(Params)
}

func (p *Params) InitAudio(q Params) { *p = q }

// Init initializes each x with p.  Init must be called again whenever p
// changes.
func Init(p Params, xs ...Initer) {
	for _, x := range xs {
		x.InitAudio(p)
	}
}

// Period returns the duration of one sample in seconds.
func (p Params) Period() float64 { return 1 / p.SampleRate }
