// Package analysis characterizes state-space models and simulation traces.
//
//   - [Analyze]: structural report (stability, rank tests, companion form,
//     transfer-function coefficients)
//   - [Modes]: natural frequency, damping ratio and time constant per
//     eigenvalue
//   - [PowerSpectrum], [DominantFrequency]: FFT of a sampled output trace
//   - [GrowthRate]: exponential growth rate estimated from a state trace
//
// # Stability Check
//
// For a continuous model the growth rate of a free response approaches the
// largest real part among the eigenvalues:
//
//	rate := analysis.GrowthRate(result.States, result.Times)
//	if rate > 0 {
//	    // response diverges
//	}
package analysis
