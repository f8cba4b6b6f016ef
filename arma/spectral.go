package arma

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-arma/internal/polyroot"
)

// factorizeCovariance recovers a moving-average polynomial of order q whose
// combination with phi reproduces the target autocovariance, given by the
// exponential sum with the exceptional prefix overriding its leading lags.
// The quadratic system gammaMA(t) = sum_j theta[j]*theta[j+t] is solved by
// a fixed-point sweep, optionally polished by BFGS; roots inside the unit
// circle are then reflected out, and the result is rescaled so the implied
// process variance matches the target exactly.
func factorizeCovariance(bases, ampls []complex128, initial []float64, phi []float64, q int, cfg factorConfig) ([]float64, error) {
	p := len(phi) - 1

	// Covariance lags with margin past the moving-average horizon.
	gamma := covarianceFromExponentials(bases, ampls, p+q+51)
	copy(gamma, initial)

	if gamma[0] <= 0 || math.IsNaN(gamma[0]) {
		return nil, fmt.Errorf("arma: target lag-0 covariance %v is not positive: %w", gamma[0], ErrFactorization)
	}

	// The covariance of the AR-filtered process depends on theta alone:
	// gammaMA(t) = sum_{i,j} phi[i]*phi[j]*gamma(|t+i-j|).
	gammaMA := make([]float64, q+1)
	for t := 0; t <= q; t++ {
		acc := 0.0
		for i := 0; i <= p; i++ {
			for j := 0; j <= p; j++ {
				acc += phi[i] * phi[j] * gamma[absInt(t+i-j)]
			}
		}

		gammaMA[t] = acc
	}

	theta, err := solveQuadraticSystem(gammaMA, cfg)
	if err != nil {
		return nil, err
	}

	theta, err = minimumPhase(theta)
	if err != nil {
		return nil, err
	}

	// Reflection and root reconstruction lose the overall scale; restore it
	// from the variance the candidate actually implies.
	implied, err := initialCovariance(theta, phi)
	if err != nil {
		return nil, err
	}

	if implied[0] <= 0 || math.IsNaN(implied[0]) {
		return nil, fmt.Errorf("arma: factorized polynomial implies non-positive variance %v: %w", implied[0], ErrFactorization)
	}

	s := math.Sqrt(gamma[0] / implied[0])
	for i := range theta {
		theta[i] *= s
	}

	return theta, nil
}

// covarianceFromExponentials evaluates gamma(k) = Re sum_i
// ampls[i]*bases[i]^k at lags 0..n-1.
func covarianceFromExponentials(bases, ampls []complex128, n int) []float64 {
	out := make([]float64, n)

	pw := make([]complex128, len(bases))
	for i := range pw {
		pw[i] = 1
	}

	for k := range out {
		acc := complex(0, 0)
		for i := range bases {
			acc += ampls[i] * pw[i]
			pw[i] *= bases[i]
		}

		out[k] = real(acc)
	}

	return out
}

// solveQuadraticSystem finds theta with gammaMA(t) ~ sum_j theta[j]*theta[j+t].
// The fixed-point sweep always yields a candidate; the quasi-Newton polish
// replaces it only when it strictly lowers the residual cost. Sign is fixed
// so theta[0] > 0, which leaves the covariance unchanged.
func solveQuadraticSystem(gammaMA []float64, cfg factorConfig) ([]float64, error) {
	best := iterativeFactor(gammaMA, cfg)
	bestCost := residualCost(best, gammaMA)

	if cfg.refine {
		if refined, ok := refineFactor(gammaMA, best); ok {
			if c := residualCost(refined, gammaMA); c < bestCost {
				best, bestCost = refined, c
			}
		}
	}

	if !isFiniteSlice(best) || math.IsNaN(bestCost) || math.IsInf(bestCost, 0) {
		return nil, fmt.Errorf("arma: no finite moving-average candidate: %w", ErrFactorization)
	}

	if best[0] < 0 {
		for i := range best {
			best[i] = -best[i]
		}
	}

	return best, nil
}

// iterativeFactor runs the fixed-point sweep: with theta = sigma*c and
// c[0] = 1, alternate sigma^2 = gammaMA(0)/sum c^2 with a backward update
// of c from the lag equations. It keeps the best iterate seen and stops on
// a small residual, on ten sweeps without improvement, or at the cap.
func iterativeFactor(gammaMA []float64, cfg factorConfig) []float64 {
	q := len(gammaMA) - 1

	c := make([]float64, q+1)
	c[0] = 1

	theta := make([]float64, q+1)
	best := make([]float64, q+1)
	bestMAD := math.Inf(1)
	stale := 0

	for range cfg.maxIter {
		sumsq := 0.0
		for _, v := range c {
			sumsq += v * v
		}

		variance := gammaMA[0] / sumsq

		for t := q; t >= 1; t-- {
			acc := gammaMA[t] / variance
			for j := 1; j+t <= q; j++ {
				acc -= c[j] * c[j+t]
			}

			c[t] = acc
		}

		scale := math.Sqrt(variance)
		for i := range theta {
			theta[i] = scale * c[i]
		}

		mad := residualMAD(theta, gammaMA)
		if mad < bestMAD {
			bestMAD = mad
			copy(best, theta)

			stale = 0
		} else {
			stale++
		}

		if mad < cfg.tol*gammaMA[0] || stale >= 10 {
			break
		}
	}

	if math.IsInf(bestMAD, 0) {
		// No sweep produced a finite residual; fall back to white noise at
		// the target level.
		for i := range best {
			best[i] = 0
		}

		best[0] = math.Sqrt(gammaMA[0])
	}

	return best
}

// residualMAD is the mean absolute deviation of the factorization residual,
// the stopping measure of the fixed-point sweep.
func residualMAD(theta, gammaMA []float64) float64 {
	q := len(gammaMA) - 1

	acc := 0.0
	for t := 0; t <= q; t++ {
		r := -gammaMA[t]
		for j := 0; j+t <= q; j++ {
			r += theta[j] * theta[j+t]
		}

		acc += math.Abs(r)
	}

	return acc / float64(q+1)
}

// residualCost is the residual sum of squares used to rank candidates and
// as the refinement objective.
func residualCost(theta, gammaMA []float64) float64 {
	q := len(gammaMA) - 1

	acc := 0.0
	for t := 0; t <= q; t++ {
		r := -gammaMA[t]
		for j := 0; j+t <= q; j++ {
			r += theta[j] * theta[j+t]
		}

		acc += r * r
	}

	return acc
}

// refineFactor polishes the candidate by BFGS on the residual sum of
// squares with an analytic gradient. Any optimizer failure is recoverable:
// the caller keeps the fixed-point result.
func refineFactor(gammaMA, start []float64) ([]float64, bool) {
	q := len(gammaMA) - 1

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return residualCost(x, gammaMA)
		},
		Grad: func(grad, x []float64) {
			for k := range grad {
				grad[k] = 0
			}

			for t := 0; t <= q; t++ {
				r := -gammaMA[t]
				for j := 0; j+t <= q; j++ {
					r += x[j] * x[j+t]
				}

				for k := 0; k <= q; k++ {
					d := 0.0
					if k+t <= q {
						d += x[k+t]
					}

					if k-t >= 0 {
						d += x[k-t]
					}

					grad[k] += 2 * r * d
				}
			}
		},
	}

	x0 := make([]float64, len(start))
	copy(x0, start)

	result, err := optimize.Minimize(problem, x0, nil, &optimize.BFGS{})
	if err != nil || result == nil || !isFiniteSlice(result.X) {
		return nil, false
	}

	out := make([]float64, len(result.X))
	copy(out, result.X)

	return out, true
}

// minimumPhase reflects moving-average roots inside the unit circle to
// their reciprocals, which preserves the autocovariance shape while
// restoring invertibility. The polynomial is rebuilt only when a root
// moved; reconstruction normalizes the constant term, which the caller's
// rescale undoes.
func minimumPhase(theta []float64) ([]float64, error) {
	roots, err := polyroot.Roots(theta)
	if err != nil {
		return nil, fmt.Errorf("arma: moving-average roots: %w", err)
	}

	flipped := false

	for i, r := range roots {
		if r != 0 && cmplx.Abs(r) < 1 {
			roots[i] = 1 / r
			flipped = true
		}
	}

	if !flipped {
		return theta, nil
	}

	return fromRoots(roots)
}

func isFiniteSlice(v []float64) bool {
	for _, x := range v {
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return false
		}
	}

	return true
}
