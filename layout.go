package shepard

import "fmt"

// LFEChannel is the low-frequency channel of a 5.1/7.1 output.  SurroundLayout
// leaves it free.
const LFEChannel = 3

// SurroundLayout spreads three voices over each full-range channel of a 7.1
// output so that neighbouring octaves sound from different speakers.
var SurroundLayout = []VoiceSpec{
	{Channel: 0, Waveform: Square, Octaves: []int{0, 7, 4}}, // front left
	{Channel: 1, Waveform: Square, Octaves: []int{2, 9, 6}}, // front right
	{Channel: 2, Waveform: Square, Octaves: []int{1, 8, 5}}, // center
	{Channel: 4, Waveform: Square, Octaves: []int{6, 3, 0}}, // surround left
	{Channel: 5, Waveform: Square, Octaves: []int{3, 0, 7}}, // surround right
	{Channel: 6, Waveform: Square, Octaves: []int{5, 2, 4}}, // rear left
	{Channel: 7, Waveform: Square, Octaves: []int{4, 1, 8}}, // rear right
}

// LadderLayout puts one voice on each octave, dealing them round-robin over
// numChannels channels.
func LadderLayout(numOctaves, numChannels int, w Waveform) []VoiceSpec {
	if numChannels < 1 {
		numChannels = 1
	}
	specs := make([]VoiceSpec, numOctaves)
	for i := range specs {
		specs[i] = VoiceSpec{Channel: i % numChannels, Waveform: w, Octaves: []int{i}}
	}
	return specs
}

// ParseLayout resolves a layout by name: surround, ladder (over all
// numChannels), stereo or mono.
func ParseLayout(name string, numOctaves, numChannels int) ([]VoiceSpec, error) {
	switch name {
	case "surround":
		return SurroundLayout, nil
	case "ladder":
		return LadderLayout(numOctaves, numChannels, Sawtooth), nil
	case "stereo":
		return LadderLayout(numOctaves, 2, Sawtooth), nil
	case "mono":
		return LadderLayout(numOctaves, 1, Sawtooth), nil
	}
	return nil, fmt.Errorf("unknown layout %q", name)
}
