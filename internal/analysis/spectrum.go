package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrTooShort = errors.New("analysis: series too short")
	ErrNoSignal = errors.New("analysis: series has no periodic component")
)

const minSamples = 4

// PowerSpectrum returns |X_k|² for k in [0, n/2] of data with its mean
// removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}
	coeff := fourier.NewFFT(len(centred)).Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		a := cmplx.Abs(c)
		ps[i] = a * a
	}
	return ps
}

// DominantPeriod returns the period of the strongest frequency in a series
// sampled every dt. The constant term is ignored.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if len(series) < minSamples {
		return 0, ErrTooShort
	}
	ps := PowerSpectrum(series)
	best, bestK := 0.0, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > best {
			best, bestK = ps[k], k
		}
	}
	floor := 1e-12 * float64(len(series))
	if bestK == 0 || best <= floor*floor {
		return 0, ErrNoSignal
	}
	return float64(len(series)) * dt / float64(bestK), nil
}
