package physics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Pendulum is a damped simple pendulum with a massless rod. State is
// {theta, omega}, theta measured from the downward vertical.
type Pendulum struct {
	Gravity float64
	Length  float64
	Damping float64
}

func NewPendulum(p dynamo.Params) *Pendulum {
	return &Pendulum{
		Gravity: p.Gravity,
		Length:  p.Length,
		Damping: p.Damping,
	}
}

func (p *Pendulum) Params() dynamo.Params {
	return dynamo.Params{Gravity: p.Gravity, Length: p.Length, Damping: p.Damping}
}

func (p *Pendulum) StateDim() int {
	return 2
}

// Acceleration returns the angular acceleration -mu*omega - (g/L)*sin(theta).
func (p *Pendulum) Acceleration(theta, omega float64) float64 {
	return -p.Damping*omega - (p.Gravity/p.Length)*math.Sin(theta)
}

func (p *Pendulum) Derive(x dynamo.State, t float64) dynamo.State {
	theta := x[0]
	omega := x[1]
	return dynamo.State{omega, p.Acceleration(theta, omega)}
}

// Energy is per unit mass.
func (p *Pendulum) Energy(x dynamo.State) float64 {
	// KE = 0.5 * (L*omega)^2
	// PE = g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * v * v
	pe := p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

// SmallAnglePeriod is 2*pi*sqrt(L/g), the undamped linearized period.
func (p *Pendulum) SmallAnglePeriod() float64 {
	return 2 * math.Pi * math.Sqrt(p.Length/p.Gravity)
}
