package banded

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-arma/internal/testutil"
)

func TestConvolveSame_KnownValues(t *testing.T) {
	got, err := ConvolveSame([]float64{1, 2, 3, 4}, []float64{1, 0.5})
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1, 2.5, 4, 5.5}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestConvolveSame_ImpulseReproducesFilter(t *testing.T) {
	filter := []float64{1, -0.3, -0.4}

	got, err := ConvolveSame(testutil.Impulse(6, 0), filter)
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{1, -0.3, -0.4, 0, 0, 0}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestConvolveSame_MatchesToeplitzMulVec(t *testing.T) {
	filter := []float64{1, -0.3, -0.4, 0.1}
	x := testutil.DeterministicNoise(19, 1.0, 24)

	got, err := ConvolveSame(x, filter)
	if err != nil {
		t.Fatal(err)
	}

	a, err := NewToeplitz(len(x), filter)
	if err != nil {
		t.Fatal(err)
	}

	want, err := a.MulVec(x)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestDeconvolveSame_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		filter []float64
	}{
		{"identity", []float64{1}},
		{"monic", []float64{1, -0.3, -0.4}},
		{"scaled leading tap", []float64{2, -0.6, 0.3}},
		{"longer than signal", []float64{1, 0.5, -0.25, 0.125, -0.0625, 0.03125}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := testutil.DeterministicNoise(23, 1.0, 5)

			y, err := ConvolveSame(x, tt.filter)
			if err != nil {
				t.Fatal(err)
			}

			back, err := DeconvolveSame(y, tt.filter)
			if err != nil {
				t.Fatal(err)
			}

			testutil.RequireSliceNearlyEqual(t, back, x, 1e-12)
		})
	}
}

func TestConvolveSame_Errors(t *testing.T) {
	if _, err := ConvolveSame(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty signal: expected ErrEmptyInput, got %v", err)
	}

	if _, err := ConvolveSame([]float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("empty filter: expected ErrEmptyKernel, got %v", err)
	}
}

func TestDeconvolveSame_Errors(t *testing.T) {
	if _, err := DeconvolveSame(nil, []float64{1}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("empty signal: expected ErrEmptyInput, got %v", err)
	}

	if _, err := DeconvolveSame([]float64{1}, nil); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("empty filter: expected ErrEmptyKernel, got %v", err)
	}

	if _, err := DeconvolveSame([]float64{1, 2}, []float64{0, 1}); !errors.Is(err, ErrSingular) {
		t.Errorf("zero leading tap: expected ErrSingular, got %v", err)
	}
}
