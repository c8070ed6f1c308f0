package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// PowerSpectrum returns |X_k| for k in [0, n/2) of the mean-removed signal.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod finds the strongest non-DC frequency of theta(t), refined
// by parabolic interpolation between neighboring bins.
func DominantPeriod(traj dynamo.Trajectory) (float64, bool) {
	ps := PowerSpectrum(traj.Angles())
	if len(ps) < 3 || traj.TimeStep() <= 0 {
		return 0, false
	}

	k := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[k] {
			k = i
		}
	}
	if ps[k] == 0 || math.IsNaN(ps[k]) {
		return 0, false
	}

	bin := float64(k)
	if k+1 < len(ps) {
		a, b, c := ps[k-1], ps[k], ps[k+1]
		if denom := a - 2*b + c; denom != 0 {
			bin += 0.5 * (a - c) / denom
		}
	}

	n := float64(traj.Len())
	freq := bin / (n * traj.TimeStep())
	return 1 / freq, true
}
