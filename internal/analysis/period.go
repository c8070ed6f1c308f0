package analysis

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// ZeroCrossings returns the linearly interpolated times at which theta
// changes sign.
func ZeroCrossings(traj dynamo.Trajectory) []float64 {
	var out []float64
	for i := 1; i < traj.Len(); i++ {
		a, b := traj.At(i-1), traj.At(i)
		if (a < 0 && b >= 0) || (a > 0 && b <= 0) {
			frac := a / (a - b)
			out = append(out, traj.Time(i-1)+frac*traj.TimeStep())
		}
	}
	return out
}

// CrossingPeriod is twice the mean spacing between zero crossings.
func CrossingPeriod(traj dynamo.Trajectory) (float64, bool) {
	c := ZeroCrossings(traj)
	if len(c) < 2 {
		return 0, false
	}
	return 2 * (c[len(c)-1] - c[0]) / float64(len(c)-1), true
}

type Peak struct {
	Time      float64
	Amplitude float64
}

// Peaks returns the local maxima of |theta|, one per half swing.
func Peaks(traj dynamo.Trajectory) []Peak {
	var out []Peak
	for i := 1; i < traj.Len()-1; i++ {
		prev, cur, next := math.Abs(traj.At(i-1)), math.Abs(traj.At(i)), math.Abs(traj.At(i+1))
		if cur > prev && cur >= next {
			out = append(out, Peak{Time: traj.Time(i), Amplitude: cur})
		}
	}
	return out
}

// DecayRate fits A(t) = A0*exp(-rate*t) to the peaks by least squares on
// log amplitude.
func DecayRate(peaks []Peak) (float64, bool) {
	if len(peaks) < 2 {
		return 0, false
	}
	var n, sx, sy, sxx, sxy float64
	for _, p := range peaks {
		if p.Amplitude <= 0 {
			continue
		}
		y := math.Log(p.Amplitude)
		n++
		sx += p.Time
		sy += y
		sxx += p.Time * p.Time
		sxy += p.Time * y
	}
	denom := n*sxx - sx*sx
	if n < 2 || denom == 0 {
		return 0, false
	}
	slope := (n*sxy - sx*sy) / denom
	return -slope, true
}

// EnvelopeIncreases counts peaks that exceed their predecessor by more than
// the relative tolerance.
func EnvelopeIncreases(peaks []Peak, tolerance float64) int {
	count := 0
	for i := 1; i < len(peaks); i++ {
		if peaks[i].Amplitude > peaks[i-1].Amplitude*(1+tolerance) {
			count++
		}
	}
	return count
}

// Summary collects the derived quantities reported by the analyze command.
type Summary struct {
	CrossingPeriod float64
	SpectralPeriod float64
	DecayRate      float64
	Peaks          int
	Growths        int
}

func Summarize(traj dynamo.Trajectory) Summary {
	var s Summary
	s.CrossingPeriod, _ = CrossingPeriod(traj)
	s.SpectralPeriod, _ = DominantPeriod(traj)
	peaks := Peaks(traj)
	s.Peaks = len(peaks)
	s.DecayRate, _ = DecayRate(peaks)
	s.Growths = EnvelopeIncreases(peaks, 0)
	return s
}
