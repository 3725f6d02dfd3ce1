package shepard

import "math"

const (
	centsToExponent    = 0.0005776226504666211 // ln(2)/1200
	decibelsToExponent = 0.11512925464970229   // ln(10)/20
)

// MuteTimeConstant is the time constant, in seconds, of master and LFE gain
// changes.
const MuteTimeConstant = .01

// CentsToRatio returns the frequency ratio of an interval in cents.
func CentsToRatio(cents float64) float64 {
	return math.Exp(centsToExponent * cents)
}

func DecibelsToLinear(db float64) float64 {
	return math.Exp(decibelsToExponent * db)
}

// Linear maps a volume level in [0, 100] to a linear gain: 0 is silence,
// otherwise each step is half a decibel and 100 is unity.
func Linear(level float64) float64 {
	if level <= 0 {
		return 0
	}
	return DecibelsToLinear(.5*level - 50)
}
