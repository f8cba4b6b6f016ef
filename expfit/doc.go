// Package expfit estimates sums of damped complex exponentials
//
//	s[k] ~ Re sum_i ampl[i] * base[i]^k
//
// from real-valued sequences.
//
// Fit recovers bases and amplitudes with a subspace method: a Hankel
// matrix of the sequence is reduced by a randomized range finder, the
// shift invariance of its column space yields the bases as eigenvalues of
// a small connecting matrix, and a linear least squares recovers the
// amplitudes. Conjugate symmetry is enforced on the results so that fits
// of real data evaluate to real values.
//
// SampleAutocovariance computes the usual input for covariance modeling:
// the biased sample autocovariance of a demeaned series, via one FFT round
// trip. RandomizedSVD is exported separately for callers who need the
// low-rank reduction on its own.
package expfit
