package arma

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-arma/banded"
)

// Solver provides fast operations against the covariance matrix R of n
// consecutive samples of a model, without materializing R. It holds the
// banded Toeplitz matrix A of the autoregressive coefficients and the band
// Cholesky factor B of A*R*A^T; the product L = A^{-1}*B is the exact dense
// Cholesky factor of R, and all operations stream through the factors in
// O(n*max(p,q)) time.
//
// The factorization nests: a solver built for length n serves every leading
// sub-length, so each operation accepts vectors of any length 1..n.
type Solver struct {
	model *Model
	n     int
	ar    *banded.Lower
	chol  *banded.Lower
}

// NewSolver factorizes the covariance matrix of m over series length n.
func NewSolver(m *Model, n int) (*Solver, error) {
	if n <= 0 {
		return nil, fmt.Errorf("arma: series length %d must be positive: %w", n, ErrOrderMismatch)
	}

	p := m.p

	band := max(m.p, m.q)
	if band > n-1 {
		band = n - 1
	}

	gamma, err := m.Covariance(p + band + 1)
	if err != nil {
		return nil, err
	}

	ar, err := banded.NewToeplitz(n, m.phi)
	if err != nil {
		return nil, err
	}

	// Autocovariance of the pure moving-average part, the interior of
	// W = A*R*A^T.
	gammaMA := make([]float64, band+1)
	for k := 0; k <= m.q && k <= band; k++ {
		acc := 0.0
		for j := 0; j+k <= m.q; j++ {
			acc += m.theta[j] * m.theta[j+k]
		}

		gammaMA[k] = acc
	}

	w, err := banded.NewSymBand(n, band)
	if err != nil {
		return nil, err
	}

	for t := 0; t < n; t++ {
		smax := min(t+band, n-1)

		for s := t; s <= smax; s++ {
			if t >= p {
				w.Set(t, s, gammaMA[s-t])
				continue
			}

			// Boundary rows: the autoregressive filter is truncated for
			// t < p, so the entry falls back to the filtered covariance.
			acc := 0.0
			for i := 0; i <= t && i <= p; i++ {
				for j := 0; j <= s && j <= p; j++ {
					acc += m.phi[i] * m.phi[j] * gamma[absInt(t-i-s+j)]
				}
			}

			w.Set(t, s, acc)
		}
	}

	chol, err := w.Cholesky()
	if err != nil {
		return nil, fmt.Errorf("arma: covariance factorization: %w", err)
	}

	return &Solver{model: m, n: n, ar: ar, chol: chol}, nil
}

// Model returns the model the solver was built from.
func (s *Solver) Model() *Model { return s.model }

// N returns the series length the solver was built for.
func (s *Solver) N() int { return s.n }

// leading returns views of both factors restricted to the first j rows and
// columns. The nesting property of the factorization makes these the exact
// factors of the leading j-by-j covariance block.
func (s *Solver) leading(j int) (ar, chol *banded.Lower, err error) {
	if j < 1 || j > s.n {
		return nil, nil, fmt.Errorf("arma: vector length %d outside 1..%d: %w", j, s.n, ErrOrderMismatch)
	}

	ar, err = s.ar.Leading(j)
	if err != nil {
		return nil, nil, err
	}

	chol, err = s.chol.Leading(j)
	if err != nil {
		return nil, nil, err
	}

	return ar, chol, nil
}

// Whiten applies the inverse Cholesky factor: out = L^{-1} v. Samples drawn
// with covariance R whiten to unit-variance white noise. v may be any
// leading sub-length 1..N of the solver; v is not modified.
func (s *Solver) Whiten(v []float64) ([]float64, error) {
	ar, chol, err := s.leading(len(v))
	if err != nil {
		return nil, err
	}

	u, err := ar.MulVec(v)
	if err != nil {
		return nil, err
	}

	return chol.SolveVec(u)
}

// Unwhiten applies the Cholesky factor: out = L v, the inverse of Whiten.
// Unwhitening unit-variance white noise draws a sample with covariance R.
func (s *Solver) Unwhiten(v []float64) ([]float64, error) {
	ar, chol, err := s.leading(len(v))
	if err != nil {
		return nil, err
	}

	u, err := chol.MulVec(v)
	if err != nil {
		return nil, err
	}

	return ar.SolveVec(u)
}

// MultCovariance computes R v as A^{-1} B B^T A^{-T} v.
func (s *Solver) MultCovariance(v []float64) ([]float64, error) {
	ar, chol, err := s.leading(len(v))
	if err != nil {
		return nil, err
	}

	u, err := ar.SolveTransVec(v)
	if err != nil {
		return nil, err
	}

	u, err = chol.MulTransVec(u)
	if err != nil {
		return nil, err
	}

	u, err = chol.MulVec(u)
	if err != nil {
		return nil, err
	}

	return ar.SolveVec(u)
}

// SolveCovariance computes R^{-1} v as A^T B^{-T} B^{-1} A v.
func (s *Solver) SolveCovariance(v []float64) ([]float64, error) {
	ar, chol, err := s.leading(len(v))
	if err != nil {
		return nil, err
	}

	u, err := ar.MulVec(v)
	if err != nil {
		return nil, err
	}

	u, err = chol.SolveVec(u)
	if err != nil {
		return nil, err
	}

	u, err = chol.SolveTransVec(u)
	if err != nil {
		return nil, err
	}

	return ar.MulTransVec(u)
}

// InverseCovariance materializes R^{-1} as a dense symmetric matrix by
// solving against the columns of the identity. It costs O(n^2*max(p,q))
// time and O(n^2) memory and is meant for small-n diagnostics; the
// streaming operations above cover the large-n cases.
func (s *Solver) InverseCovariance() (*mat.SymDense, error) {
	out := mat.NewSymDense(s.n, nil)

	e := make([]float64, s.n)
	for j := 0; j < s.n; j++ {
		e[j] = 1

		col, err := s.SolveCovariance(e)
		if err != nil {
			return nil, err
		}

		e[j] = 0

		for i := j; i < s.n; i++ {
			out.SetSym(i, j, col[i])
		}
	}

	return out, nil
}
