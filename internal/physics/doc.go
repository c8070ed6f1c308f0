// Package physics provides the damped pendulum model.
//
// [Pendulum] implements [dynamo.System] with state {theta, omega}:
//
//	theta'' = -mu*theta' - (g/L)*sin(theta)
//
// It also implements [dynamo.Hamiltonian] (energy per unit mass) so runs can
// report how much energy damping has removed:
//
//	dyn := physics.NewPendulum(dynamo.DefaultParams())
//	energy := dyn.Energy(state)
package physics
