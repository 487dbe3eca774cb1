// Package analysis characterises recorded orbits.
//
//   - [PowerSpectrum]: power spectrum of a mean-removed series
//   - [DominantPeriod]: period of the strongest non-zero frequency
//   - [Summarize]: separation extremes, eccentricity estimate and period of
//     one body about another from a stored run
//
// # Orbital period
//
// The separation of a bound pair oscillates once per orbit, so its
// spectrum peaks at the orbital frequency:
//
//	sum, err := analysis.Summarize(states, "Earth", "Sun")
//	fmt.Printf("period %.1f days\n", sum.Period/86400)
package analysis
