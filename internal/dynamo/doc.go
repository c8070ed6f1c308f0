// Package dynamo provides the core data model for pendulum simulation.
//
// The package defines the immutable records that flow through a run and the
// error taxonomy shared by every stage:
//
//   - [Params]: gravity, rod length and linear damping
//   - [InitialState]: starting angle and angular velocity
//   - [IntegrationConfig]: fixed time step and simulated duration
//   - [Trajectory]: the ordered angle samples produced by one integration
//   - [State]/[System]: the vector form consumed by steppers
//
// # Example
//
//	params := dynamo.DefaultParams()
//	init := dynamo.InitialState{Angle: math.Pi / 4}
//	traj, err := sim.Integrate(params, init, dynamo.DefaultIntegrationConfig())
//	if errors.Is(err, dynamo.ErrInvalidConfig) {
//	    // reject the request
//	}
//
// # Ownership
//
// A Trajectory is produced once and never mutated afterwards. Accessors
// return copies where a slice would otherwise escape.
package dynamo
