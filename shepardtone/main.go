// Command shepardtone plays an endlessly rising or falling Shepard–Risset
// glissando.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/gordonklaus/shepard"
	"github.com/gordonklaus/shepard/audio"
)

type options struct {
	backend     string
	device      string
	listDevices bool
	out         string
	seconds     float64
	channels    int
	sampleRate  float64
	frames      int
	limit       float64

	layout    string
	waveform  string
	rate      float64
	volume    float64
	lfe       float64
	octaves   int
	minFreq   float64
	period    time.Duration
	smoothing time.Duration
	flat      bool
}

func main() {
	log.SetFlags(0)
	o, err := parseFlags(os.Args[1:])
	if err == flag.ErrHelp {
		os.Exit(0)
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

func parseFlags(args []string) (*options, error) {
	def := shepard.DefaultConfig()
	o := &options{}
	fs := flag.NewFlagSet("shepardtone", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&o.backend, "backend", "portaudio", "audio output: portaudio, oto or wav")
	fs.StringVar(&o.device, "device", "", "portaudio output device index or name (default: system default)")
	fs.BoolVar(&o.listDevices, "list-devices", false, "list portaudio output devices and exit")
	fs.StringVar(&o.out, "out", "shepard.wav", "file written by the wav backend")
	fs.Float64Var(&o.seconds, "seconds", 30, "length rendered by the wav backend")
	fs.IntVar(&o.channels, "channels", 0, "output channels for the oto (max 2) and wav backends (default 2 and 8)")
	fs.Float64Var(&o.sampleRate, "sample-rate", 0, "sample rate in Hz (default: device rate, or 48000)")
	fs.IntVar(&o.frames, "frames", 256, "portaudio frames per buffer")
	fs.Float64Var(&o.limit, "limit", 0, "soft-limit each channel to this RMS level (0: off)")
	fs.StringVar(&o.layout, "layout", "surround", "voice layout: surround, ladder, stereo or mono")
	fs.StringVar(&o.waveform, "waveform", "", "override the layout's waveform: sine, square, sawtooth or triangle")
	fs.Float64Var(&o.rate, "rate", def.Rate, "glissando speed in cents per second; negative falls")
	fs.Float64Var(&o.volume, "volume", def.MasterLevel, "master level, 0-100")
	fs.Float64Var(&o.lfe, "lfe", def.LFELevel, "LFE send level, 0-100")
	fs.IntVar(&o.octaves, "octaves", def.NumOctaves, "octaves in the ladder")
	fs.Float64Var(&o.minFreq, "min-freq", def.MinFrequency, "bottom of the ladder in Hz")
	fs.DurationVar(&o.period, "period", def.ControlPeriod, "control period")
	fs.DurationVar(&o.smoothing, "smoothing", def.Smoothing, "gain crossfade time")
	fs.BoolVar(&o.flat, "flat", false, "weight all inner octaves equally instead of by loudness")

	fs.Usage = func() {
		fs.SetOutput(os.Stdout)
		fmt.Println("Usage: shepardtone [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			fs.Usage()
		}
		return nil, err
	}
	return o, nil
}

func (o *options) config(numChannels int) (shepard.Config, error) {
	cfg := shepard.DefaultConfig()
	cfg.NumOctaves = o.octaves
	cfg.MinFrequency = o.minFreq
	cfg.ControlPeriod = o.period
	cfg.Smoothing = o.smoothing
	cfg.Rate = o.rate
	cfg.MasterLevel = o.volume
	cfg.LFELevel = o.lfe
	if o.flat || o.octaves != len(shepard.LoudnessBreakpoints)-1 {
		cfg.Breakpoints = flatBreakpoints(o.octaves)
	}

	voices, err := shepard.ParseLayout(o.layout, o.octaves, numChannels)
	if err != nil {
		return cfg, err
	}
	if o.waveform != "" {
		w, err := shepard.ParseWaveform(o.waveform)
		if err != nil {
			return cfg, err
		}
		voices = withWaveform(voices, w)
	}
	cfg.Voices = voices
	return cfg, nil
}

func flatBreakpoints(octaves int) []float64 {
	b := make([]float64, octaves+1)
	for i := 1; i < octaves; i++ {
		b[i] = 1
	}
	return b
}

func withWaveform(specs []shepard.VoiceSpec, w shepard.Waveform) []shepard.VoiceSpec {
	out := make([]shepard.VoiceSpec, len(specs))
	for i, s := range specs {
		s.Waveform = w
		out[i] = s
	}
	return out
}

func run(o *options) error {
	if o.listDevices {
		devices, err := audio.Devices()
		if err != nil {
			return err
		}
		for _, d := range devices {
			fmt.Printf("%3d  %-40s %-12s %2d ch  %6.0f Hz\n", d.Index, d.Name, d.HostAPI, d.MaxOutputChannels, d.DefaultSampleRate)
		}
		return nil
	}

	var backend audio.Backend
	params := audio.Params{SampleRate: o.sampleRate, Channels: o.channels}
	if params.SampleRate == 0 {
		params.SampleRate = 48000
	}
	switch o.backend {
	case "portaudio":
		pa, err := audio.OpenPortAudio(o.device, o.sampleRate, o.frames)
		if err != nil {
			return err
		}
		log.Printf("playing on %s (%d channels, %.0f Hz)", pa.Name(), pa.Channels(), pa.SampleRate())
		backend = pa
	case "oto":
		if params.Channels == 0 {
			params.Channels = 2
		}
		ot, err := audio.OpenOto(int(params.SampleRate), params.Channels)
		if err != nil {
			return err
		}
		backend = ot
	case "wav":
		if params.Channels == 0 {
			params.Channels = 8
		}
	default:
		return fmt.Errorf("unknown backend %q", o.backend)
	}
	if backend != nil {
		params = audio.Params{SampleRate: backend.SampleRate(), Channels: backend.Channels()}
	}

	stage := audio.NewStage(params, shepard.LFEChannel)
	stage.SetLimit(o.limit)
	cfg, err := o.config(params.Channels)
	if err != nil {
		return err
	}
	ctrl, err := shepard.New(cfg, stage)
	if err != nil {
		return err
	}

	if backend == nil {
		if err := audio.WriteWAV(o.out, stage, ctrl, o.seconds); err != nil {
			return err
		}
		log.Printf("wrote %.1fs to %s", o.seconds, o.out)
		return nil
	}

	play, err := audio.Play(backend, stage)
	if err != nil {
		return err
	}
	defer func() {
		play.Stop()
		<-play.Done
	}()
	if err := ctrl.Start(shepard.Ticker{}); err != nil {
		return err
	}
	defer ctrl.Stop()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		err = runConsole(ctrl, params.Channels)
	} else {
		waitForSignal()
	}
	ctrl.SetMute(true)
	time.Sleep(5 * time.Duration(shepard.MuteTimeConstant*float64(time.Second)))
	return err
}
