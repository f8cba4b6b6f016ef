package arma

import "errors"

// Errors reported by model construction and solver operations. All returned
// errors wrap one of these sentinels, so callers can classify failures with
// errors.Is.
var (
	// ErrUnstable reports a pole, moving-average zero or exponential base
	// on the wrong side of the unit circle.
	ErrUnstable = errors.New("arma: model is not stable and invertible")

	// ErrNonRealCoefficients reports roots or exponential terms that are
	// not closed under complex conjugation.
	ErrNonRealCoefficients = errors.New("arma: coefficients are not real")

	// ErrOrderMismatch reports inconsistent slice lengths, orders or lag
	// counts.
	ErrOrderMismatch = errors.New("arma: order mismatch")

	// ErrInvalidVariance reports a requested process variance that is not
	// a positive finite number.
	ErrInvalidVariance = errors.New("arma: variance must be positive")

	// ErrFactorization reports a spectral factorization that produced no
	// usable moving-average polynomial.
	ErrFactorization = errors.New("arma: spectral factorization failed")
)
