package sim

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/physics"
)

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }

type Result struct {
	States      []dynamo.State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	TimeStep    float64
}

// Trajectory extracts the angle samples.
func (r *Result) Trajectory() dynamo.Trajectory {
	angles := make([]float64, len(r.States))
	for i, x := range r.States {
		angles[i] = x[0]
	}
	return dynamo.NewTrajectory(angles, r.TimeStep)
}

// Run advances x0 for cfg.Steps() fixed steps. Non-finite states are
// recorded as-is; divergence is not an error.
func (s *Simulator) Run(x0 dynamo.State, cfg dynamo.IntegrationConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		States:   make([]dynamo.State, 0, steps+1),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		TimeStep: cfg.TimeStep,
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	dt := cfg.TimeStep

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, 0)
	s.observe(x, 0)

	initialEnergy := s.computeEnergy(x)

	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		x = s.integrator.Step(s.dyn, x, t, dt)
		result.StepsTaken++

		t = float64(i+1) * dt
		result.States = append(result.States, x)
		result.Times = append(result.Times, t)
		s.observe(x, t)
	}

	finalEnergy := s.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) observe(x dynamo.State, t float64) {
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Simulator) computeEnergy(x dynamo.State) float64 {
	if ec, ok := s.dyn.(dynamo.Hamiltonian); ok {
		return ec.Energy(x)
	}
	return 0
}

// Simulate validates params and runs the pendulum with the named method.
func Simulate(params dynamo.Params, init dynamo.InitialState, cfg dynamo.IntegrationConfig, method string, metrics ...dynamo.Metric) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.Get(method)
	if err != nil {
		return nil, err
	}

	s := New(physics.NewPendulum(params), integ)
	for _, m := range metrics {
		s.AddMetric(m)
	}
	return s.Run(init.State(), cfg)
}

// Integrate produces the angle trajectory of a damped pendulum using forward
// Euler. The result has cfg.Samples() entries and starts at init.Angle.
func Integrate(params dynamo.Params, init dynamo.InitialState, cfg dynamo.IntegrationConfig) (dynamo.Trajectory, error) {
	res, err := Simulate(params, init, cfg, integrators.DefaultMethod)
	if err != nil {
		return dynamo.Trajectory{}, err
	}
	return res.Trajectory(), nil
}
