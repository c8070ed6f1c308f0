package dynamo

import (
	"math"
)

// State is the integrator's view of the system: {theta, omega} for a pendulum.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems that can report their energy.
type Hamiltonian interface {
	Energy(x State) float64
}

// Params holds the physical constants of a damped pendulum.
type Params struct {
	Gravity float64 `json:"gravity" yaml:"gravity"`
	Length  float64 `json:"length" yaml:"length"`
	Damping float64 `json:"damping" yaml:"damping"`
}

func DefaultParams() Params {
	return Params{
		Gravity: 9.81,
		Length:  1.0,
		Damping: 0.1,
	}
}

// Validate rejects a length that cannot be used as a divisor.
func (p Params) Validate() error {
	if !(p.Length > 0) {
		return invalidParameter("length", "positive", p.Length)
	}
	return nil
}

type InitialState struct {
	Angle           float64 `json:"theta" yaml:"theta"`
	AngularVelocity float64 `json:"omega" yaml:"omega"`
}

func (s InitialState) State() State {
	return State{s.Angle, s.AngularVelocity}
}

type IntegrationConfig struct {
	TimeStep float64 `json:"dt" yaml:"dt"`
	Duration float64 `json:"duration" yaml:"duration"`
}

func DefaultIntegrationConfig() IntegrationConfig {
	return IntegrationConfig{
		TimeStep: 0.01,
		Duration: 10.0,
	}
}

func (c IntegrationConfig) Validate() error {
	if !(c.TimeStep > 0) || math.IsInf(c.TimeStep, 0) {
		return invalidConfig("dt", "positive and finite", c.TimeStep)
	}
	if !(c.Duration >= 0) || math.IsInf(c.Duration, 0) {
		return invalidConfig("duration", "non-negative and finite", c.Duration)
	}
	return nil
}

// stepSnap is the relative distance from an integer under which
// Duration/TimeStep is treated as that integer (10/0.01 is 1000, not 999.99..).
const stepSnap = 1e-9

// Steps returns floor(Duration/TimeStep), the number of integration steps.
// Callers must validate the config first.
func (c IntegrationConfig) Steps() int {
	q := c.Duration / c.TimeStep
	r := math.Round(q)
	if math.Abs(q-r) <= stepSnap*math.Max(1, r) {
		return int(r)
	}
	return int(math.Floor(q))
}

// Samples returns the trajectory length, Steps()+1.
func (c IntegrationConfig) Samples() int {
	return c.Steps() + 1
}

// Trajectory is the ordered angle sequence of one run. Sample i is the
// angle at time i*TimeStep.
type Trajectory struct {
	angles   []float64
	timeStep float64
}

// NewTrajectory takes ownership of angles.
func NewTrajectory(angles []float64, timeStep float64) Trajectory {
	return Trajectory{angles: angles, timeStep: timeStep}
}

func (t Trajectory) Len() int { return len(t.angles) }

func (t Trajectory) At(i int) float64 { return t.angles[i] }

func (t Trajectory) TimeStep() float64 { return t.timeStep }

func (t Trajectory) Time(i int) float64 { return float64(i) * t.timeStep }

// Duration is the simulated time covered by the last sample.
func (t Trajectory) Duration() float64 {
	if len(t.angles) == 0 {
		return 0
	}
	return t.Time(len(t.angles) - 1)
}

// Angles returns a copy of the samples.
func (t Trajectory) Angles() []float64 {
	c := make([]float64, len(t.angles))
	copy(c, t.angles)
	return c
}

// Integrator advances a System by one fixed step.
type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

// Metric accumulates a scalar summary over the samples of a run.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}
