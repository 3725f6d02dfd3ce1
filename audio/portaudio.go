package audio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
)

type Device struct {
	Index             int
	Name              string
	HostAPI           string
	MaxOutputChannels int
	DefaultSampleRate float64
}

// Devices lists the output devices portaudio knows about.
func Devices() ([]Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: portaudio: %w", err)
	}
	defer portaudio.Terminate()
	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: listing devices: %w", err)
	}
	var devices []Device
	for i, d := range infos {
		if d.MaxOutputChannels == 0 {
			continue
		}
		api := ""
		if d.HostApi != nil {
			api = d.HostApi.Name
		}
		devices = append(devices, Device{i, d.Name, api, d.MaxOutputChannels, d.DefaultSampleRate})
	}
	return devices, nil
}

// PortAudio plays through a portaudio output device, using as many channels
// as the device offers.
type PortAudio struct {
	device          *portaudio.DeviceInfo
	sampleRate      float64
	framesPerBuffer int
	stream          *portaudio.Stream
}

// OpenPortAudio selects an output device by index or by a case-insensitive
// substring of its name; an empty name selects the default device.  A
// sampleRate of 0 uses the device's default rate.
func OpenPortAudio(name string, sampleRate float64, framesPerBuffer int) (*PortAudio, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("audio: portaudio: %w", err)
	}
	d, err := findDevice(name)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if sampleRate == 0 {
		sampleRate = d.DefaultSampleRate
	}
	return &PortAudio{device: d, sampleRate: sampleRate, framesPerBuffer: framesPerBuffer}, nil
}

func findDevice(name string) (*portaudio.DeviceInfo, error) {
	if name == "" {
		d, err := portaudio.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("audio: default output device: %w", err)
		}
		return d, nil
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("audio: listing devices: %w", err)
	}
	if i, err := strconv.Atoi(name); err == nil {
		if i < 0 || i >= len(devices) || devices[i].MaxOutputChannels == 0 {
			return nil, fmt.Errorf("audio: no output device %d", i)
		}
		return devices[i], nil
	}
	for _, d := range devices {
		if d.MaxOutputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(name)) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("audio: no output device matching %q", name)
}

func (p *PortAudio) Name() string        { return p.device.Name }
func (p *PortAudio) Channels() int       { return p.device.MaxOutputChannels }
func (p *PortAudio) SampleRate() float64 { return p.sampleRate }

func (p *PortAudio) Start(render func(out [][]float32)) error {
	params := portaudio.LowLatencyParameters(nil, p.device)
	params.Output.Channels = p.Channels()
	params.SampleRate = p.sampleRate
	params.FramesPerBuffer = p.framesPerBuffer
	stream, err := portaudio.OpenStream(params, render)
	if err != nil {
		return fmt.Errorf("audio: opening %s: %w", p.device.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("audio: starting %s: %w", p.device.Name, err)
	}
	p.stream = stream
	return nil
}

// Stop closes the stream and releases portaudio.
func (p *PortAudio) Stop() error {
	defer portaudio.Terminate()
	if p.stream == nil {
		return nil
	}
	err := p.stream.Close()
	p.stream = nil
	return err
}
