package arma

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-arma/banded"
)

// ToeplitzWhiten approximately whitens a series by applying the model as a
// pure filter pair with zero initial conditions: the autoregressive
// polynomial as a causal convolution, then the moving-average polynomial
// removed by forward substitution. Near the start of the series the output
// is only approximately white, but the transform commutes exactly with
// shifts: whitening a zero-padded delay of the input equals the zero-padded
// delay of the whitened input. Solver.Whiten is the exact alternative when
// shift equivariance is not needed.
func ToeplitzWhiten(m *Model, v []float64) ([]float64, error) {
	u, err := banded.ConvolveSame(v, m.phi)
	if err != nil {
		return nil, err
	}

	return banded.DeconvolveSame(u, m.theta)
}

// ToeplitzUnwhiten inverts ToeplitzWhiten.
func ToeplitzUnwhiten(m *Model, v []float64) ([]float64, error) {
	u, err := banded.ConvolveSame(v, m.theta)
	if err != nil {
		return nil, err
	}

	return banded.DeconvolveSame(u, m.phi)
}

// ToeplitzWhitenAll whitens several series with the same model.
func ToeplitzWhitenAll(m *Model, series [][]float64) ([][]float64, error) {
	out := make([][]float64, len(series))

	for i, v := range series {
		w, err := ToeplitzWhiten(m, v)
		if err != nil {
			return nil, fmt.Errorf("arma: series %d: %w", i, err)
		}

		out[i] = w
	}

	return out, nil
}

// LjungBoxResult holds the portmanteau test outcome.
type LjungBoxResult struct {
	// Statistic is the Ljung-Box Q statistic.
	Statistic float64
	// PValue is the right-tail chi-squared probability of Q. Small values
	// reject the hypothesis that the series is white.
	PValue float64
	// Lags is the number of autocorrelation lags pooled into Q.
	Lags int
	// DOF is the chi-squared degrees of freedom after subtracting the
	// fitted parameter count.
	DOF int
}

// LjungBox tests a series for remaining autocorrelation over the given
// number of lags:
//
//	Q = n(n+2) sum_{k=1..lags} rho(k)^2 / (n-k).
//
// fitdf is the number of model parameters estimated from the same data
// (p+q for a fitted model, 0 for a raw series); it reduces the chi-squared
// degrees of freedom, floored at one. Whitened residuals of a correct
// model should yield unremarkable p-values.
func LjungBox(v []float64, lags, fitdf int) (LjungBoxResult, error) {
	n := len(v)
	if lags < 1 || lags >= n {
		return LjungBoxResult{}, fmt.Errorf("arma: %d lags for series length %d: %w", lags, n, ErrOrderMismatch)
	}

	mean := 0.0
	for _, x := range v {
		mean += x
	}

	mean /= float64(n)

	denom := 0.0
	for _, x := range v {
		d := x - mean
		denom += d * d
	}

	if denom == 0 {
		return LjungBoxResult{}, fmt.Errorf("arma: constant series has no autocorrelation: %w", ErrOrderMismatch)
	}

	q := 0.0

	for k := 1; k <= lags; k++ {
		num := 0.0
		for t := 0; t+k < n; t++ {
			num += (v[t] - mean) * (v[t+k] - mean)
		}

		rho := num / denom
		q += rho * rho / float64(n-k)
	}

	q *= float64(n) * float64(n+2)

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}

	return LjungBoxResult{
		Statistic: q,
		PValue:    1 - chi2.CDF(q),
		Lags:      lags,
		DOF:       dof,
	}, nil
}
