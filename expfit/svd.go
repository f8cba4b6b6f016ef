package expfit

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Errors reported by the fitting routines. Returned errors wrap one of
// these sentinels.
var (
	// ErrInsufficientData reports a sequence too short to resolve the
	// requested number of exponential terms or lags.
	ErrInsufficientData = errors.New("expfit: insufficient data")

	// ErrRankDeficient reports input whose numerical rank cannot support
	// the requested decomposition.
	ErrRankDeficient = errors.New("expfit: rank deficient input")
)

// RandomizedSVD computes a rank-truncated singular value decomposition
// a ~ U diag(s) V^T using Gaussian range sketching with power iterations.
// U has rank columns, s has rank entries in descending order, V has rank
// columns. oversample extra probe columns improve the range estimate;
// powerIters sharpens it for slowly decaying spectra. The caller supplies
// the random source to keep sketches reproducible.
//
// For matrices whose rank truly exceeds the requested rank the result is a
// near-best approximation rather than an exact factor; accuracy follows
// the usual Halko-Martinsson-Tropp bounds.
func RandomizedSVD(a mat.Matrix, rank, oversample, powerIters int, rng *rand.Rand) (u *mat.Dense, s []float64, v *mat.Dense, err error) {
	rows, cols := a.Dims()

	if rank < 1 || rank > rows || rank > cols {
		return nil, nil, nil, fmt.Errorf("expfit: rank %d outside 1..min(%d,%d): %w", rank, rows, cols, ErrRankDeficient)
	}

	if oversample < 0 {
		oversample = 0
	}

	k := min(rank+oversample, rows, cols)

	omega := mat.NewDense(cols, k, nil)
	for i := range cols {
		for j := range k {
			omega.Set(i, j, rng.NormFloat64())
		}
	}

	var y mat.Dense
	y.Mul(a, omega)

	q := orthonormalize(&y)

	// Re-orthonormalizing between the half-steps keeps the powered sketch
	// from collapsing onto the dominant singular direction.
	for range powerIters {
		var z mat.Dense
		z.Mul(a.T(), q)

		qz := orthonormalize(&z)

		var yz mat.Dense
		yz.Mul(a, qz)

		q = orthonormalize(&yz)
	}

	var b mat.Dense
	b.Mul(q.T(), a)

	var svd mat.SVD
	if !svd.Factorize(&b, mat.SVDThin) {
		return nil, nil, nil, fmt.Errorf("expfit: sketched matrix decomposition failed: %w", ErrRankDeficient)
	}

	var ub, vb mat.Dense
	svd.UTo(&ub)
	svd.VTo(&vb)

	var lifted mat.Dense
	lifted.Mul(q, &ub)

	u = mat.NewDense(rows, rank, nil)
	u.Copy(lifted.Slice(0, rows, 0, rank))

	v = mat.NewDense(cols, rank, nil)
	v.Copy(vb.Slice(0, cols, 0, rank))

	s = make([]float64, rank)
	copy(s, svd.Values(nil))

	return u, s, v, nil
}

// orthonormalize returns an orthonormal basis of the column space via thin
// QR.
func orthonormalize(y *mat.Dense) *mat.Dense {
	rows, cols := y.Dims()

	var qr mat.QR
	qr.Factorize(y)

	var full mat.Dense
	qr.QTo(&full)

	q := mat.NewDense(rows, cols, nil)
	q.Copy(full.Slice(0, rows, 0, cols))

	return q
}
