package arma

// factorConfig carries the spectral factorization tunables used by
// NewModelFromExponentials.
type factorConfig struct {
	maxIter int
	tol     float64
	refine  bool
}

func defaultFactorConfig() factorConfig {
	return factorConfig{
		maxIter: 1000,
		tol:     1e-6,
		refine:  true,
	}
}

// Option adjusts the spectral factorization performed by
// NewModelFromExponentials. The zero set of options gives defaults that
// suit well-conditioned models.
type Option func(*factorConfig)

// WithMaxIterations caps the number of fixed-point sweeps of the iterative
// factorization stage. Non-positive values are ignored.
func WithMaxIterations(n int) Option {
	return func(cfg *factorConfig) {
		if n > 0 {
			cfg.maxIter = n
		}
	}
}

// WithResidualTolerance sets the early-stop threshold of the iterative
// factorization stage, relative to the lag-0 target covariance.
// Non-positive values are ignored.
func WithResidualTolerance(tol float64) Option {
	return func(cfg *factorConfig) {
		if tol > 0 {
			cfg.tol = tol
		}
	}
}

// WithoutRefinement skips the quasi-Newton polish of the factorized
// moving-average polynomial and keeps the fixed-point estimate.
func WithoutRefinement() Option {
	return func(cfg *factorConfig) {
		cfg.refine = false
	}
}
