package arma

import (
	"errors"
	"math/rand"
)

// Simulate draws n consecutive samples of the stationary process by
// coloring independent standard normal innovations through the exact
// covariance factor. There is no burn-in: the very first samples already
// follow the stationary distribution. The caller supplies the random
// source, keeping draws reproducible.
func Simulate(m *Model, n int, rng *rand.Rand) ([]float64, error) {
	if rng == nil {
		return nil, errors.New("arma: nil random source")
	}

	s, err := NewSolver(m, n)
	if err != nil {
		return nil, err
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = rng.NormFloat64()
	}

	return s.Unwhiten(w)
}
