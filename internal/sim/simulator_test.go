package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
)

func defaultInit() dynamo.InitialState {
	return dynamo.InitialState{Angle: math.Pi / 4, AngularVelocity: 0}
}

func TestIntegrateSampleCount(t *testing.T) {
	traj, err := Integrate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig())
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if traj.Len() != 1001 {
		t.Errorf("expected 1001 samples, got %d", traj.Len())
	}
	if traj.TimeStep() != 0.01 {
		t.Errorf("expected time step 0.01, got %f", traj.TimeStep())
	}
}

func TestIntegrateFirstSampleExact(t *testing.T) {
	traj, err := Integrate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig())
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if traj.At(0) != math.Pi/4 {
		t.Errorf("expected first sample %v, got %v", math.Pi/4, traj.At(0))
	}
}

func TestIntegrateZeroDuration(t *testing.T) {
	cfg := dynamo.IntegrationConfig{TimeStep: 0.01, Duration: 0}
	traj, err := Integrate(dynamo.DefaultParams(), defaultInit(), cfg)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if traj.Len() != 1 || traj.At(0) != math.Pi/4 {
		t.Errorf("expected single initial sample, got %v", traj.Angles())
	}
}

func TestIntegrateDeterministic(t *testing.T) {
	a, err := Integrate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Integrate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < a.Len(); i++ {
		if math.Float64bits(a.At(i)) != math.Float64bits(b.At(i)) {
			t.Fatalf("sample %d differs: %v vs %v", i, a.At(i), b.At(i))
		}
	}
}

// The trajectory follows the plain Euler recurrence on (theta, omega).
func TestIntegrateMatchesRecurrence(t *testing.T) {
	p := dynamo.DefaultParams()
	cfg := dynamo.DefaultIntegrationConfig()

	theta, omega := math.Pi/4, 0.0
	want := []float64{theta}
	for i := 0; i < cfg.Steps(); i++ {
		alpha := -p.Damping*omega - (p.Gravity/p.Length)*math.Sin(theta)
		theta += omega * cfg.TimeStep
		omega += alpha * cfg.TimeStep
		want = append(want, theta)
	}

	traj, err := Integrate(p, defaultInit(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if traj.Len() != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), traj.Len())
	}
	for i := range want {
		if math.Abs(traj.At(i)-want[i]) > 1e-9 {
			t.Fatalf("sample %d: expected %v, got %v", i, want[i], traj.At(i))
		}
	}
}

func TestIntegrateInvalidParameter(t *testing.T) {
	p := dynamo.DefaultParams()
	p.Length = 0

	_, err := Integrate(p, defaultInit(), dynamo.DefaultIntegrationConfig())
	if !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestIntegrateInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  dynamo.IntegrationConfig
	}{
		{"zero dt", dynamo.IntegrationConfig{TimeStep: 0, Duration: 1.0}},
		{"negative dt", dynamo.IntegrationConfig{TimeStep: -0.1, Duration: 1.0}},
		{"negative duration", dynamo.IntegrationConfig{TimeStep: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Integrate(dynamo.DefaultParams(), defaultInit(), tt.cfg)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

// zeroCrossings returns interpolated times at which theta changes sign.
func zeroCrossings(traj dynamo.Trajectory) []float64 {
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

func TestSmallAngleHarmonicPeriod(t *testing.T) {
	p := dynamo.Params{Gravity: 9.81, Length: 1.0, Damping: 0}
	init := dynamo.InitialState{Angle: 0.05}
	cfg := dynamo.IntegrationConfig{TimeStep: 0.001, Duration: 10}

	traj, err := Integrate(p, init, cfg)
	if err != nil {
		t.Fatal(err)
	}

	crossings := zeroCrossings(traj)
	if len(crossings) < 4 {
		t.Fatalf("expected several zero crossings, got %d", len(crossings))
	}

	want := physics.NewPendulum(p).SmallAnglePeriod()
	for i := 1; i < len(crossings); i++ {
		half := crossings[i] - crossings[i-1]
		if math.Abs(2*half-want)/want > 0.01 {
			t.Errorf("crossing %d: period %.4f, expected %.4f", i, 2*half, want)
		}
	}
}

// peaks returns |theta| at each local maximum of |theta|.
func peaks(traj dynamo.Trajectory) []float64 {
	var out []float64
	for i := 1; i < traj.Len()-1; i++ {
		prev, cur, next := math.Abs(traj.At(i-1)), math.Abs(traj.At(i)), math.Abs(traj.At(i+1))
		if cur > prev && cur >= next {
			out = append(out, cur)
		}
	}
	return out
}

func TestDampedEnvelopeDecays(t *testing.T) {
	cfg := dynamo.IntegrationConfig{TimeStep: 0.001, Duration: 10}
	traj, err := Integrate(dynamo.DefaultParams(), defaultInit(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	pk := peaks(traj)
	if len(pk) < 4 {
		t.Fatalf("expected several peaks, got %d", len(pk))
	}
	for i := 1; i < len(pk); i++ {
		if pk[i] > pk[i-1] {
			t.Errorf("peak %d grew: %.6f > %.6f", i, pk[i], pk[i-1])
		}
	}
}

func TestDampedEnvelopeBoundedAtDefaultStep(t *testing.T) {
	traj, err := Integrate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig())
	if err != nil {
		t.Fatal(err)
	}

	pk := peaks(traj)
	if len(pk) < 4 {
		t.Fatalf("expected several peaks, got %d", len(pk))
	}
	for i := 1; i < len(pk); i++ {
		if pk[i] > pk[i-1]*1.01 {
			t.Errorf("peak %d grew beyond tolerance: %.6f > %.6f", i, pk[i], pk[i-1])
		}
	}
	if pk[len(pk)-1] >= pk[0] {
		t.Errorf("expected overall decay, first %.6f last %.6f", pk[0], pk[len(pk)-1])
	}
}

func TestLargeStepDivergesWithoutError(t *testing.T) {
	p := dynamo.Params{Gravity: 9.81, Length: 1.0, Damping: 0}
	cfg := dynamo.IntegrationConfig{TimeStep: 0.5, Duration: 50}

	traj, err := Integrate(p, defaultInit(), cfg)
	if err != nil {
		t.Fatalf("divergence must not be an error: %v", err)
	}
	if traj.Len() != 101 {
		t.Errorf("expected 101 samples, got %d", traj.Len())
	}
}

func TestAngleIsUnwrapped(t *testing.T) {
	p := dynamo.Params{Gravity: 9.81, Length: 1.0, Damping: 0}
	init := dynamo.InitialState{Angle: 0, AngularVelocity: 10}
	cfg := dynamo.IntegrationConfig{TimeStep: 0.001, Duration: 5}

	traj, err := Integrate(p, init, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if last := traj.At(traj.Len() - 1); last < 2*math.Pi {
		t.Errorf("expected spinning pendulum to exceed 2*pi, got %f", last)
	}
}

func TestSimulateRK4(t *testing.T) {
	res, err := Simulate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig(), "rk4")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.States) != 1001 || len(res.Times) != 1001 {
		t.Errorf("expected 1001 states and times, got %d/%d", len(res.States), len(res.Times))
	}
	if res.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", res.StepsTaken)
	}
	if res.Times[1000] != 10 {
		t.Errorf("expected final time 10, got %v", res.Times[1000])
	}
}

func TestSimulateUnknownMethod(t *testing.T) {
	_, err := Simulate(dynamo.DefaultParams(), defaultInit(), dynamo.DefaultIntegrationConfig(), "leapfrog")
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSimulatorMetrics(t *testing.T) {
	params := dynamo.DefaultParams()
	dyn := physics.NewPendulum(params)
	s := New(dyn, integrators.NewEuler())
	for _, m := range metrics.Defaults(dyn, params) {
		s.AddMetric(m)
	}

	result, err := s.Run(defaultInit().State(), dynamo.IntegrationConfig{TimeStep: 0.001, Duration: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, name := range []string{"energy", "energy_loss", "peak_angle"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("metric %s not found in result", name)
		}
	}
	if result.Metrics["peak_angle"] != math.Pi/4 {
		t.Errorf("expected peak angle pi/4, got %f", result.Metrics["peak_angle"])
	}
	if loss := result.Metrics["energy_loss"]; loss <= 0 || loss >= 1 {
		t.Errorf("expected damping to remove part of the energy, got loss %f", loss)
	}
	if result.EnergyDrift <= 0 {
		t.Errorf("expected non-zero energy drift, got %f", result.EnergyDrift)
	}
}
