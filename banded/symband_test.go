package banded

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-arma/internal/testutil"
)

// randomSPDBand builds a deterministic symmetric banded matrix made positive
// definite by diagonal dominance.
func randomSPDBand(t *testing.T, n, k int, seed int64) *SymBand {
	t.Helper()

	s, err := NewSymBand(n, k)
	if err != nil {
		t.Fatal(err)
	}

	noise := testutil.DeterministicNoise(seed, 1.0, n*(k+1))
	idx := 0

	for i := range n {
		for j := i - k; j < i; j++ {
			if j < 0 {
				continue
			}

			s.Set(i, j, noise[idx])
			idx++
		}

		s.Set(i, i, float64(2*(k+1)))
	}

	return s
}

func TestSymBandAt_Mirror(t *testing.T) {
	s, err := NewSymBand(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	s.Set(1, 0, -0.5)
	s.Set(0, 1, 0.25) // overwrites the same stored element

	if got := s.At(1, 0); got != 0.25 {
		t.Errorf("At(1,0) = %v, want 0.25", got)
	}

	if got := s.At(0, 1); got != 0.25 {
		t.Errorf("At(0,1) = %v, want 0.25", got)
	}

	if got := s.At(0, 3); got != 0 {
		t.Errorf("At(0,3) = %v, want 0 outside band", got)
	}
}

func TestCholesky_MatchesDense(t *testing.T) {
	tests := []struct {
		name string
		n, k int
	}{
		{"tridiagonal", 12, 1},
		{"pentadiagonal", 10, 2},
		{"wide band", 9, 5},
		{"diagonal", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := randomSPDBand(t, tt.n, tt.k, 19)

			b, err := s.Cholesky()
			if err != nil {
				t.Fatal(err)
			}

			var chol mat.Cholesky
			if ok := chol.Factorize(mat.NewSymDense(tt.n, denseFrom(s).RawMatrix().Data)); !ok {
				t.Fatal("dense reference factorization failed")
			}

			var ref mat.TriDense
			chol.LTo(&ref)

			for i := range tt.n {
				for j := 0; j <= i; j++ {
					if diff := math.Abs(b.At(i, j) - ref.At(i, j)); diff > 1e-10 {
						t.Errorf("factor (%d,%d): got %v, want %v", i, j, b.At(i, j), ref.At(i, j))
					}
				}
			}
		})
	}
}

func TestCholesky_Reconstruction(t *testing.T) {
	s := randomSPDBand(t, 15, 3, 5)

	b, err := s.Cholesky()
	if err != nil {
		t.Fatal(err)
	}

	for i := range 15 {
		for j := 0; j <= i; j++ {
			// (B B^T)[i][j] over the shared band support.
			sum := 0.0
			for m := 0; m <= j; m++ {
				sum += b.At(i, m) * b.At(j, m)
			}

			if diff := math.Abs(sum - s.At(i, j)); diff > 1e-10 {
				t.Errorf("reconstruction (%d,%d): got %v, want %v", i, j, sum, s.At(i, j))
			}
		}
	}
}

func TestCholesky_Nesting(t *testing.T) {
	s := randomSPDBand(t, 12, 2, 23)

	full, err := s.Cholesky()
	if err != nil {
		t.Fatal(err)
	}

	// Factor of the leading block equals the leading view of the factor.
	const j = 7

	sub, err := NewSymBand(j, 2)
	if err != nil {
		t.Fatal(err)
	}

	for i := range j {
		for m := i - 2; m <= i; m++ {
			if m < 0 {
				continue
			}

			sub.Set(i, m, s.At(i, m))
		}
	}

	subFactor, err := sub.Cholesky()
	if err != nil {
		t.Fatal(err)
	}

	view, err := full.Leading(j)
	if err != nil {
		t.Fatal(err)
	}

	for i := range j {
		for m := 0; m <= i; m++ {
			if diff := math.Abs(subFactor.At(i, m) - view.At(i, m)); diff > 1e-12 {
				t.Errorf("nesting (%d,%d): sub %v, view %v", i, m, subFactor.At(i, m), view.At(i, m))
			}
		}
	}
}

func TestCholesky_NotPositiveDefinite(t *testing.T) {
	s, err := NewSymBand(3, 1)
	if err != nil {
		t.Fatal(err)
	}

	s.Set(0, 0, 1)
	s.Set(1, 0, 2) // forces a negative pivot at row 1
	s.Set(1, 1, 1)
	s.Set(2, 2, 1)

	if _, err := s.Cholesky(); !errors.Is(err, ErrNotPositiveDefinite) {
		t.Errorf("expected ErrNotPositiveDefinite, got %v", err)
	}
}

func TestNewSymBand_DimensionErrors(t *testing.T) {
	if _, err := NewSymBand(0, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	if _, err := NewSymBand(4, -2); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
