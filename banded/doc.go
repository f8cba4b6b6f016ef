// Package banded provides compact banded lower-triangular and symmetric
// banded matrices with operations that run in O(N*bandwidth) time and never
// materialize a dense matrix.
//
// A banded lower-triangular matrix with bandwidth k stores only the main
// diagonal and the k sub-diagonals below it. Stationary linear recursions
// (autoregressive filters, causal FIR filters) are exactly multiplications
// by such matrices with constant diagonals, so the package includes a
// Toeplitz constructor alongside the general one.
//
// # Usage
//
// Build a matrix and apply it:
//
//	a, err := banded.NewToeplitz(n, []float64{1, -0.3, -0.4})
//	y, err := a.MulVec(x)      // y = A x
//	x, err := a.SolveVec(y)    // forward substitution
//
// Causal convolution and its exact inverse operate directly on coefficient
// slices without building a matrix:
//
//	filtered, err := banded.ConvolveSame(signal, filter)
//	original, err := banded.DeconvolveSame(filtered, filter)
//
// # Factorization
//
// [SymBand] holds a symmetric banded matrix in lower storage. Its Cholesky
// factorization produces a [Lower] with the same bandwidth:
//
//	b, err := w.Cholesky()
//
// The factor nests: the leading j-by-j block of the factor is the factor of
// the leading j-by-j block of the input, so [Lower.Leading] views solve
// sub-problems without refactorizing.
//
// Both matrix types implement gonum's mat.Matrix, so they can be passed
// directly to dense reference computations in tests and diagnostics.
package banded
