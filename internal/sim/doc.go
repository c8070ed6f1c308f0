// Package sim runs fixed-step integrations and produces trajectories.
//
// [Integrate] is the entry point for the pendulum pipeline: it validates the
// inputs and applies forward Euler
//
//	alpha := -mu*omega - (g/L)*sin(theta)
//	theta += omega*dt
//	omega += alpha*dt
//
// exactly floor(duration/dt) times, returning every intermediate angle.
// The trajectory is computed once per run and then only indexed.
package sim
