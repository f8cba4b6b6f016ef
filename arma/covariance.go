package arma

import "fmt"

// ModelCovariance extends exceptional initial autocovariance values to n
// lags using the autoregressive recursion
//
//	gamma(k) = -phicoef[1]*gamma(k-1) - ... - phicoef[p]*gamma(k-p).
//
// The initial values are returned verbatim; only lags past them are
// computed. phicoef must be normalized with phicoef[0] == 1 and covarIV
// must cover at least the autoregressive order.
func ModelCovariance(covarIV, phicoef []float64, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("arma: negative lag count %d: %w", n, ErrOrderMismatch)
	}

	if len(phicoef) == 0 || phicoef[0] != 1 {
		return nil, fmt.Errorf("arma: autoregressive polynomial must be normalized to phicoef[0] == 1: %w", ErrOrderMismatch)
	}

	if len(covarIV) < len(phicoef)-1 {
		return nil, fmt.Errorf("arma: %d initial covariance values for autoregressive order %d: %w",
			len(covarIV), len(phicoef)-1, ErrOrderMismatch)
	}

	out := make([]float64, n)
	known := copy(out, covarIV)

	for k := known; k < n; k++ {
		acc := 0.0
		for j := 1; j < len(phicoef); j++ {
			acc -= phicoef[j] * out[k-j]
		}

		out[k] = acc
	}

	return out, nil
}

// Covariance returns the autocovariance of the model at lags 0..n-1.
func (m *Model) Covariance(n int) ([]float64, error) {
	return ModelCovariance(m.covarIV, m.phi, n)
}
