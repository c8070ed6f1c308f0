// Package analysis characterizes a pendulum trajectory after the fact.
//
//   - [ZeroCrossings]/[CrossingPeriod]: period from sign changes of theta
//   - [Peaks]/[DecayRate]: amplitude envelope and its exponential decay
//   - [PowerSpectrum]/[DominantPeriod]: FFT of the angle signal
//
// For a lightly damped pendulum the crossing period approaches
// 2*pi*sqrt(L/g) at small amplitude and the decay rate approaches mu/2.
package analysis
