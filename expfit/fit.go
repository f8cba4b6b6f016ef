package expfit

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-arma/internal/polyroot"
)

// Fit estimates order exponential terms from a real sequence, returning
// bases and matching amplitudes such that
//
//	signal[k] ~ Re sum_i ampls[i] * bases[i]^k.
//
// Bases come from the shift invariance of the signal's Hankel matrix
// (its column space advanced by one row equals itself scaled by the bases)
// after a randomized low-rank reduction; amplitudes from a linear least
// squares at those bases. Results are symmetrized so conjugate pairs are
// exact, and sorted by descending modulus with the positive-imaginary
// member of each pair first.
//
// The sequence must be at least 2*order+2 samples long. Choosing order
// above the true exponential content yields spurious small-amplitude
// terms; inspect the singular values via RandomizedSVD when the order is
// unknown.
func Fit(signal []float64, order int, opts ...Option) (bases, ampls []complex128, err error) {
	n := len(signal)

	if order < 1 {
		return nil, nil, fmt.Errorf("expfit: order %d is not positive: %w", order, ErrInsufficientData)
	}

	if n < 2*order+2 {
		return nil, nil, fmt.Errorf("expfit: %d samples resolve at most %d exponential terms: %w",
			n, (n-2)/2, ErrInsufficientData)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	rng := rand.New(rand.NewSource(cfg.seed))

	cols := n / 2
	rows := n - cols + 1

	h := mat.NewDense(rows, cols, nil)
	for i := range rows {
		for j := range cols {
			h.Set(i, j, signal[i+j])
		}
	}

	u, _, _, err := RandomizedSVD(h, order, cfg.oversample, cfg.powerIters, rng)
	if err != nil {
		return nil, nil, err
	}

	// Shift invariance: dropping the last row of the range basis and
	// advancing it by one row differ exactly by the diagonal of bases, so
	// the connecting matrix has the bases as eigenvalues.
	up := u.Slice(0, rows-1, 0, order)
	down := u.Slice(1, rows, 0, order)

	var shift mat.Dense
	if err := shift.Solve(up, down); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, nil, fmt.Errorf("expfit: shift-invariance solve: %w", ErrRankDeficient)
		}
	}

	var eig mat.Eigen
	if !eig.Factorize(&shift, mat.EigenNone) {
		return nil, nil, fmt.Errorf("expfit: connecting matrix eigendecomposition failed: %w", ErrRankDeficient)
	}

	bases = eig.Values(nil)

	symmetrizeConjugates(bases)
	sortTerms(bases)

	ampls, err = amplitudes(signal, bases)
	if err != nil {
		return nil, nil, err
	}

	// Tie the amplitudes to the base pairing so the fitted sum is exactly
	// real at every lag.
	for _, pair := range conjugatePairs(bases) {
		i, j := pair[0], pair[1]
		a := 0.5 * (ampls[i] + cmplx.Conj(ampls[j]))
		ampls[i] = a
		ampls[j] = cmplx.Conj(a)
	}

	for i, b := range bases {
		if imag(b) == 0 {
			ampls[i] = complex(real(ampls[i]), 0)
		}
	}

	return bases, ampls, nil
}

// symmetrizeConjugates snaps near-conjugate entries onto exact conjugate
// pairs and flattens nearly-real entries onto the real axis, in place.
func symmetrizeConjugates(zs []complex128) {
	const tol = polyroot.ConjugateTol

	used := make([]bool, len(zs))

	for i := range zs {
		if used[i] {
			continue
		}

		if math.Abs(imag(zs[i])) <= tol*math.Max(1, math.Abs(real(zs[i]))) {
			zs[i] = complex(real(zs[i]), 0)
			used[i] = true

			continue
		}

		for j := i + 1; j < len(zs); j++ {
			if used[j] {
				continue
			}

			if polyroot.IsConjugate(zs[i], zs[j], tol) {
				re := 0.5 * (real(zs[i]) + real(zs[j]))
				im := 0.5 * (imag(zs[i]) - imag(zs[j]))

				zs[i] = complex(re, im)
				zs[j] = complex(re, -im)
				used[i], used[j] = true, true

				break
			}
		}
		// Unpaired complex estimates stay as found; they signal an
		// overestimated order.
	}
}

// conjugatePairs matches exact conjugate partners after symmetrization.
func conjugatePairs(zs []complex128) [][2]int {
	var pairs [][2]int

	used := make([]bool, len(zs))

	for i := range zs {
		if used[i] || imag(zs[i]) == 0 {
			continue
		}

		for j := i + 1; j < len(zs); j++ {
			if !used[j] && zs[j] == cmplx.Conj(zs[i]) {
				pairs = append(pairs, [2]int{i, j})
				used[i], used[j] = true, true

				break
			}
		}
	}

	return pairs
}

// sortTerms orders by descending modulus; ties break on descending real
// part, then descending imaginary part, so conjugate pairs sit adjacently
// with the positive-imaginary member first.
func sortTerms(zs []complex128) {
	sort.Slice(zs, func(i, j int) bool {
		ai, aj := cmplx.Abs(zs[i]), cmplx.Abs(zs[j])
		if ai != aj {
			return ai > aj
		}

		if real(zs[i]) != real(zs[j]) {
			return real(zs[i]) > real(zs[j])
		}

		return imag(zs[i]) > imag(zs[j])
	})
}

// amplitudes solves the realified Vandermonde least squares
// signal[t] = Re sum_j a[j]*bases[j]^t for the complex amplitudes a.
func amplitudes(signal []float64, bases []complex128) ([]complex128, error) {
	n := len(signal)
	k := len(bases)

	v := mat.NewDense(2*n, 2*k, nil)
	rhs := mat.NewVecDense(2*n, nil)

	pw := make([]complex128, k)
	for j := range pw {
		pw[j] = 1
	}

	for t := range n {
		for j := range k {
			w := pw[j]
			v.Set(t, j, real(w))
			v.Set(t, k+j, -imag(w))
			v.Set(n+t, j, imag(w))
			v.Set(n+t, k+j, real(w))
			pw[j] *= bases[j]
		}

		rhs.SetVec(t, signal[t])
	}

	var x mat.VecDense
	if err := x.SolveVec(v, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("expfit: amplitude solve: %w", ErrRankDeficient)
		}
	}

	out := make([]complex128, k)
	for j := range k {
		out[j] = complex(x.AtVec(j), x.AtVec(k+j))
	}

	return out, nil
}
