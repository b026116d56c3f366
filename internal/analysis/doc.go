// Package analysis characterizes trajectories of a [dynamo.System].
//
//   - [LyapunovExponent]: largest Lyapunov exponent by twin-trajectory separation
//   - [LyapunovSpectrum]: one separation rate per state component
//   - [PhasePortrait]: a trajectory projected onto two state components
//   - [PowerSpectrum] and [DominantFrequency]: FFT of a sampled series
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(pendulum, integ, pendulum.State(), dt, duration, 1e-8)
//	if err == nil && lambda > 0 {
//	    // chaotic
//	}
package analysis
