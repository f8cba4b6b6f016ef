package arma

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-arma/internal/testutil"
)

// testModels returns fixtures covering pure AR, pure MA and mixed cases.
func testModels(t *testing.T) map[string]*Model {
	t.Helper()

	out := make(map[string]*Model)

	for name, pair := range map[string][2][]float64{
		"white": {{1.5}, {1}},
		"ar2":   {{1}, {1, -0.9, 0.2}},
		"ma2":   {{1, 0.5, 0.2}, {1}},
		"arma21": {
			{1, 0.4},
			{1, -0.3, -0.4},
		},
	} {
		m, err := NewModel(pair[0], pair[1])
		if err != nil {
			t.Fatalf("NewModel(%s): %v", name, err)
		}

		out[name] = m
	}

	return out
}

// denseCovariance materializes the Toeplitz covariance matrix for checking
// the structured operations against gonum's dense algebra.
func denseCovariance(t *testing.T, m *Model, n int) *mat.SymDense {
	t.Helper()

	gamma, err := m.Covariance(n)
	if err != nil {
		t.Fatalf("Covariance: %v", err)
	}

	r := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r.SetSym(i, j, gamma[j-i])
		}
	}

	return r
}

func TestSolverWhitenUnwhitenRoundTrip(t *testing.T) {
	const n = 64

	v := testutil.DeterministicNoise(7, 1, n)

	for name, m := range testModels(t) {
		t.Run(name, func(t *testing.T) {
			s, err := NewSolver(m, n)
			if err != nil {
				t.Fatalf("NewSolver: %v", err)
			}

			for _, j := range []int{1, 3, 17, n} {
				w, err := s.Whiten(v[:j])
				if err != nil {
					t.Fatalf("Whiten(%d): %v", j, err)
				}

				got, err := s.Unwhiten(w)
				if err != nil {
					t.Fatalf("Unwhiten(%d): %v", j, err)
				}

				testutil.RequireSliceNearlyEqual(t, got, v[:j], 1e-9)
			}
		})
	}
}

func TestSolverWhitenMatchesDenseCholesky(t *testing.T) {
	const n = 32

	v := testutil.DeterministicNoise(11, 1, n)

	for name, m := range testModels(t) {
		t.Run(name, func(t *testing.T) {
			s, err := NewSolver(m, n)
			if err != nil {
				t.Fatalf("NewSolver: %v", err)
			}

			var chol mat.Cholesky
			if !chol.Factorize(denseCovariance(t, m, n)) {
				t.Fatal("dense Cholesky failed")
			}

			var l mat.TriDense
			chol.LTo(&l)

			// Both factors have positive diagonals, so they are the same
			// matrix and the whitened vectors must agree elementwise.
			var want mat.VecDense
			if err := want.SolveVec(&l, mat.NewVecDense(n, v)); err != nil {
				t.Fatalf("dense solve: %v", err)
			}

			got, err := s.Whiten(v)
			if err != nil {
				t.Fatalf("Whiten: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, got, want.RawVector().Data, 1e-8)
		})
	}
}

func TestSolverMultCovarianceMatchesDense(t *testing.T) {
	const n = 64

	v := testutil.DeterministicNoise(3, 1, n)

	for name, m := range testModels(t) {
		t.Run(name, func(t *testing.T) {
			s, err := NewSolver(m, n)
			if err != nil {
				t.Fatalf("NewSolver: %v", err)
			}

			for j := 2; j <= n; j *= 2 {
				r := denseCovariance(t, m, j)

				var want mat.VecDense
				want.MulVec(r, mat.NewVecDense(j, v[:j]))

				got, err := s.MultCovariance(v[:j])
				if err != nil {
					t.Fatalf("MultCovariance(%d): %v", j, err)
				}

				testutil.RequireSliceNearlyEqual(t, got, want.RawVector().Data, 1e-8)
			}
		})
	}
}

func TestSolverSolveCovarianceMatchesDense(t *testing.T) {
	const n = 48

	v := testutil.DeterministicNoise(5, 1, n)

	for name, m := range testModels(t) {
		t.Run(name, func(t *testing.T) {
			s, err := NewSolver(m, n)
			if err != nil {
				t.Fatalf("NewSolver: %v", err)
			}

			var chol mat.Cholesky
			if !chol.Factorize(denseCovariance(t, m, n)) {
				t.Fatal("dense Cholesky failed")
			}

			var want mat.VecDense
			if err := chol.SolveVecTo(&want, mat.NewVecDense(n, v)); err != nil {
				t.Fatalf("dense solve: %v", err)
			}

			got, err := s.SolveCovariance(v)
			if err != nil {
				t.Fatalf("SolveCovariance: %v", err)
			}

			testutil.RequireSliceNearlyEqual(t, got, want.RawVector().Data, 1e-7)
		})
	}
}

func TestSolverMultSolveRoundTrip(t *testing.T) {
	const n = 40

	v := testutil.DeterministicNoise(13, 1, n)

	m, err := NewModel([]float64{1, 0.4}, []float64{1, -0.3, -0.4})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	s, err := NewSolver(m, n)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	u, err := s.MultCovariance(v)
	if err != nil {
		t.Fatalf("MultCovariance: %v", err)
	}

	got, err := s.SolveCovariance(u)
	if err != nil {
		t.Fatalf("SolveCovariance: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, v, 1e-8)
}

func TestSolverNesting(t *testing.T) {
	// Lower-triangular factors make the leading output entries depend only
	// on the leading input entries, so a full-length solver must reproduce
	// the sub-length results exactly.
	const n = 50

	v := testutil.DeterministicNoise(17, 1, n)

	m, err := NewModel([]float64{1, 0.4}, []float64{1, -0.9, 0.2})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	s, err := NewSolver(m, n)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	full, err := s.Whiten(v)
	if err != nil {
		t.Fatalf("Whiten: %v", err)
	}

	for _, j := range []int{1, 2, 13, 49} {
		sub, err := s.Whiten(v[:j])
		if err != nil {
			t.Fatalf("Whiten(%d): %v", j, err)
		}

		testutil.RequireSliceNearlyEqual(t, sub, full[:j], 1e-10)
	}
}

func TestSolverShortSeries(t *testing.T) {
	// Series shorter than the model orders clamp the bandwidth.
	m, err := NewModel([]float64{1, 0.4, 0.2}, []float64{1, -0.3, -0.4})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	for _, n := range []int{1, 2} {
		s, err := NewSolver(m, n)
		if err != nil {
			t.Fatalf("NewSolver(%d): %v", n, err)
		}

		v := testutil.Ones(n)

		r := denseCovariance(t, m, n)

		var want mat.VecDense
		want.MulVec(r, mat.NewVecDense(n, v))

		got, err := s.MultCovariance(v)
		if err != nil {
			t.Fatalf("MultCovariance: %v", err)
		}

		testutil.RequireSliceNearlyEqual(t, got, want.RawVector().Data, 1e-10)
	}
}

func TestSolverInverseCovariance(t *testing.T) {
	const n = 8

	m, err := NewModel([]float64{1, 0.4}, []float64{1, -0.5})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	s, err := NewSolver(m, n)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	inv, err := s.InverseCovariance()
	if err != nil {
		t.Fatalf("InverseCovariance: %v", err)
	}

	var prod mat.Dense
	prod.Mul(inv, denseCovariance(t, m, n))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1
			}

			if got := prod.At(i, j); got < want-1e-9 || got > want+1e-9 {
				t.Fatalf("(R^-1 R)[%d][%d]: got %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestSolverErrors(t *testing.T) {
	m, err := NewModel([]float64{1}, []float64{1, -0.5})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	if _, err := NewSolver(m, 0); !errors.Is(err, ErrOrderMismatch) {
		t.Fatalf("NewSolver(0): got %v, want %v", err, ErrOrderMismatch)
	}

	s, err := NewSolver(m, 4)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	if _, err := s.Whiten(nil); !errors.Is(err, ErrOrderMismatch) {
		t.Fatalf("Whiten(nil): got %v, want %v", err, ErrOrderMismatch)
	}

	if _, err := s.Whiten(make([]float64, 5)); !errors.Is(err, ErrOrderMismatch) {
		t.Fatalf("Whiten(too long): got %v, want %v", err, ErrOrderMismatch)
	}

	if s.N() != 4 || s.Model() != m {
		t.Fatal("solver accessors disagree with construction")
	}
}

func TestSolverWhiteNoiseScales(t *testing.T) {
	// For white noise with sigma = 2, whitening just divides by sigma.
	m, err := NewModel([]float64{2}, []float64{1})
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}

	s, err := NewSolver(m, 3)
	if err != nil {
		t.Fatalf("NewSolver: %v", err)
	}

	got, err := s.Whiten([]float64{2, 4, 6})
	if err != nil {
		t.Fatalf("Whiten: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 2, 3}, 1e-12)
}
