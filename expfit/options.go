package expfit

// config carries the tunables of the randomized stages of Fit.
type config struct {
	oversample int
	powerIters int
	seed       int64
}

func defaultConfig() config {
	return config{
		oversample: 8,
		powerIters: 2,
		seed:       1,
	}
}

// Option adjusts the randomized range finder inside Fit. Defaults suit
// sequences whose exponential content clearly dominates the residual.
type Option func(*config)

// WithOversampling sets how many extra random probe columns the range
// finder draws beyond the requested order. Negative values are ignored.
func WithOversampling(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.oversample = n
		}
	}
}

// WithPowerIterations sets the number of power iterations applied to the
// sketched range. More iterations sharpen the subspace when the singular
// spectrum decays slowly. Negative values are ignored.
func WithPowerIterations(n int) Option {
	return func(cfg *config) {
		if n >= 0 {
			cfg.powerIters = n
		}
	}
}

// WithSeed fixes the seed of the Gaussian sketch, making fits reproducible
// run to run.
func WithSeed(seed int64) Option {
	return func(cfg *config) {
		cfg.seed = seed
	}
}
