package banded

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SymBand is an n-by-n symmetric matrix with bandwidth k, stored as its
// lower triangle in row-compact form (k+1 slots per row).
type SymBand struct {
	n    int
	k    int
	data []float64
}

// NewSymBand returns a zero n-by-n symmetric banded matrix with bandwidth k.
func NewSymBand(n, k int) (*SymBand, error) {
	if n <= 0 || k < 0 {
		return nil, ErrDimensionMismatch
	}

	return &SymBand{n: n, k: k, data: make([]float64, n*(k+1))}, nil
}

// Dims returns the matrix dimensions. Part of gonum's mat.Matrix.
func (s *SymBand) Dims() (r, c int) { return s.n, s.n }

// Bandwidth returns the number of sub-diagonals k.
func (s *SymBand) Bandwidth() int { return s.k }

// At returns the element at row i, column j. Elements outside the band are
// zero. At panics if the indices are out of range. Part of gonum's
// mat.Matrix.
func (s *SymBand) At(i, j int) float64 {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		panic("banded: index out of range")
	}

	if j > i {
		i, j = j, i
	}

	d := i - j
	if d > s.k {
		return 0
	}

	return s.data[i*(s.k+1)+s.k-d]
}

// T returns the receiver, since the matrix is symmetric. Part of gonum's
// mat.Matrix.
func (s *SymBand) T() mat.Matrix { return s }

// Set assigns the element at row i, column j and its mirror. It panics if
// the indices are out of range or outside the band.
func (s *SymBand) Set(i, j int, v float64) {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		panic("banded: index out of range")
	}

	if j > i {
		i, j = j, i
	}

	d := i - j
	if d > s.k {
		panic("banded: set outside band")
	}

	s.data[i*(s.k+1)+s.k-d] = v
}

// Cholesky computes the factorization S = B * B^T where B is lower
// triangular with the same bandwidth as S. It returns
// ErrNotPositiveDefinite if a pivot is not strictly positive.
//
// The factor nests: for any j, the leading j-by-j block of B is the
// Cholesky factor of the leading j-by-j block of S.
func (s *SymBand) Cholesky() (*Lower, error) {
	b, err := NewLower(s.n, s.k)
	if err != nil {
		return nil, err
	}

	w := s.k + 1

	for j := range s.n {
		lo := 0
		if j > s.k {
			lo = j - s.k
		}

		sum := s.data[j*w+s.k]
		for m := lo; m < j; m++ {
			v := b.data[j*w+s.k-(j-m)]
			sum -= v * v
		}

		if sum <= 0 || math.IsNaN(sum) {
			return nil, ErrNotPositiveDefinite
		}

		diag := math.Sqrt(sum)
		b.data[j*w+s.k] = diag

		hi := j + s.k
		if hi > s.n-1 {
			hi = s.n - 1
		}

		for i := j + 1; i <= hi; i++ {
			// Shared support of rows i and j within the band.
			m0 := lo
			if i-s.k > m0 {
				m0 = i - s.k
			}

			acc := s.data[i*w+s.k-(i-j)]
			for m := m0; m < j; m++ {
				acc -= b.data[i*w+s.k-(i-m)] * b.data[j*w+s.k-(j-m)]
			}

			b.data[i*w+s.k-(i-j)] = acc / diag
		}
	}

	return b, nil
}
