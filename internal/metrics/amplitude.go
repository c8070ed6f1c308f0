package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// PeakAngle tracks the largest |theta| seen.
type PeakAngle struct {
	peak float64
}

func NewPeakAngle() *PeakAngle {
	return &PeakAngle{}
}

func (p *PeakAngle) Name() string { return "peak_angle" }

func (p *PeakAngle) Observe(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	p.peak = math.Max(p.peak, math.Abs(x[0]))
}

func (p *PeakAngle) Value() float64 { return p.peak }

func (p *PeakAngle) Reset() { p.peak = 0 }

// Defaults returns the metrics recorded for every stored run.
func Defaults(dyn dynamo.System, params dynamo.Params) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(params.Length, params.Gravity),
		NewEnergyLoss(dyn),
		NewPeakAngle(),
	}
}
