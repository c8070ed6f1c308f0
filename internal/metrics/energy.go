package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Energy reports the mean mechanical energy per unit mass over a run.
type Energy struct {
	name        string
	length      float64
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(length, gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		length:  length,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	if len(x) < 2 {
		return
	}
	theta, omega := x[0], x[1]
	ke := 0.5 * e.length * e.length * omega * omega
	pe := e.gravity * e.length * (1 - math.Cos(theta))
	e.totalEnergy += ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyLoss is the fraction of the initial energy dissipated by the end
// of the run. Negative values mean the scheme injected energy.
type EnergyLoss struct {
	name          string
	initialEnergy float64
	currentEnergy float64
	samples       int
	dyn           dynamo.System
}

func NewEnergyLoss(dyn dynamo.System) *EnergyLoss {
	return &EnergyLoss{
		name: "energy_loss",
		dyn:  dyn,
	}
}

func (e *EnergyLoss) Name() string { return e.name }

func (e *EnergyLoss) Observe(x dynamo.State, t float64) {
	ec, ok := e.dyn.(dynamo.Hamiltonian)
	if !ok {
		return
	}

	energy := ec.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.currentEnergy = energy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return 1 - e.currentEnergy/e.initialEnergy
}

func (e *EnergyLoss) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.samples = 0
}
