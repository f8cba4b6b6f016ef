package banded

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Errors returned by banded matrix operations.
var (
	ErrEmptyInput          = errors.New("banded: empty input")
	ErrEmptyKernel         = errors.New("banded: empty kernel")
	ErrDimensionMismatch   = errors.New("banded: dimension mismatch")
	ErrSingular            = errors.New("banded: singular matrix")
	ErrNotPositiveDefinite = errors.New("banded: matrix not positive definite")
)

// Lower is an n-by-n lower-triangular matrix with bandwidth k: entries are
// zero above the main diagonal and below the k-th sub-diagonal. Storage is
// row-compact with k+1 slots per row, so memory is O(n*k) regardless of n.
type Lower struct {
	n    int
	k    int
	data []float64
}

// NewLower returns a zero n-by-n lower-triangular matrix with bandwidth k.
func NewLower(n, k int) (*Lower, error) {
	if n <= 0 || k < 0 {
		return nil, ErrDimensionMismatch
	}

	return &Lower{n: n, k: k, data: make([]float64, n*(k+1))}, nil
}

// NewToeplitz returns the n-by-n banded lower-triangular Toeplitz matrix
// whose d-th sub-diagonal is the constant col[d] (col[0] is the main
// diagonal). Diagonals beyond n-1 are ignored.
func NewToeplitz(n int, col []float64) (*Lower, error) {
	if n <= 0 {
		return nil, ErrDimensionMismatch
	}

	if len(col) == 0 {
		return nil, ErrEmptyKernel
	}

	k := len(col) - 1
	if k > n-1 {
		k = n - 1
	}

	l, err := NewLower(n, k)
	if err != nil {
		return nil, err
	}

	for i := range n {
		for d := 0; d <= k && d <= i; d++ {
			l.data[i*(k+1)+k-d] = col[d]
		}
	}

	return l, nil
}

// Dims returns the matrix dimensions. Part of gonum's mat.Matrix.
func (l *Lower) Dims() (r, c int) { return l.n, l.n }

// Bandwidth returns the number of sub-diagonals k.
func (l *Lower) Bandwidth() int { return l.k }

// At returns the element at row i, column j. Elements outside the band are
// zero. At panics if the indices are out of range. Part of gonum's
// mat.Matrix.
func (l *Lower) At(i, j int) float64 {
	if i < 0 || i >= l.n || j < 0 || j >= l.n {
		panic("banded: index out of range")
	}

	d := i - j
	if d < 0 || d > l.k {
		return 0
	}

	return l.data[i*(l.k+1)+l.k-d]
}

// T returns the transpose as a gonum matrix view. Part of gonum's
// mat.Matrix.
func (l *Lower) T() mat.Matrix { return mat.Transpose{Matrix: l} }

// Set assigns the element at row i, column j. It panics if the indices are
// out of range or outside the band.
func (l *Lower) Set(i, j int, v float64) {
	if i < 0 || i >= l.n || j < 0 || j >= l.n {
		panic("banded: index out of range")
	}

	d := i - j
	if d < 0 || d > l.k {
		panic("banded: set outside band")
	}

	l.data[i*(l.k+1)+l.k-d] = v
}

// Leading returns a view of the leading j-by-j submatrix sharing the
// receiver's storage. For banded lower-triangular matrices the leading block
// is itself banded lower-triangular with the same bandwidth.
func (l *Lower) Leading(j int) (*Lower, error) {
	if j <= 0 || j > l.n {
		return nil, ErrDimensionMismatch
	}

	return &Lower{n: j, k: l.k, data: l.data[:j*(l.k+1)]}, nil
}

// MulVec returns y = L v.
func (l *Lower) MulVec(v []float64) ([]float64, error) {
	if len(v) != l.n {
		return nil, ErrDimensionMismatch
	}

	y := make([]float64, l.n)
	w := l.k + 1

	for i := range l.n {
		lo := 0
		if i > l.k {
			lo = i - l.k
		}

		sum := 0.0
		for j := lo; j <= i; j++ {
			sum += l.data[i*w+l.k-(i-j)] * v[j]
		}

		y[i] = sum
	}

	return y, nil
}

// MulTransVec returns y = L^T v.
func (l *Lower) MulTransVec(v []float64) ([]float64, error) {
	if len(v) != l.n {
		return nil, ErrDimensionMismatch
	}

	y := make([]float64, l.n)
	w := l.k + 1

	for i := range l.n {
		lo := 0
		if i > l.k {
			lo = i - l.k
		}

		// Row i of L contributes L[i][j]*v[i] to y[j].
		for j := lo; j <= i; j++ {
			y[j] += l.data[i*w+l.k-(i-j)] * v[i]
		}
	}

	return y, nil
}

// SolveVec solves L x = v by forward substitution.
func (l *Lower) SolveVec(v []float64) ([]float64, error) {
	if len(v) != l.n {
		return nil, ErrDimensionMismatch
	}

	x := make([]float64, l.n)
	w := l.k + 1

	for i := range l.n {
		lo := 0
		if i > l.k {
			lo = i - l.k
		}

		sum := v[i]
		for j := lo; j < i; j++ {
			sum -= l.data[i*w+l.k-(i-j)] * x[j]
		}

		diag := l.data[i*w+l.k]
		if diag == 0 {
			return nil, ErrSingular
		}

		x[i] = sum / diag
	}

	return x, nil
}

// SolveTransVec solves L^T x = v by backward substitution.
func (l *Lower) SolveTransVec(v []float64) ([]float64, error) {
	if len(v) != l.n {
		return nil, ErrDimensionMismatch
	}

	x := make([]float64, l.n)
	w := l.k + 1

	for i := l.n - 1; i >= 0; i-- {
		hi := i + l.k
		if hi > l.n-1 {
			hi = l.n - 1
		}

		// Column i of L^T below the diagonal is row entries L[j][i], j > i.
		sum := v[i]
		for j := i + 1; j <= hi; j++ {
			sum -= l.data[j*w+l.k-(j-i)] * x[j]
		}

		diag := l.data[i*w+l.k]
		if diag == 0 {
			return nil, ErrSingular
		}

		x[i] = sum / diag
	}

	return x, nil
}
