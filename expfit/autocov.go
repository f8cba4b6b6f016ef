package expfit

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// SampleAutocovariance computes the biased sample autocovariance of a
// series at lags 0..maxLag:
//
//	c(k) = (1/n) sum_{t=0}^{n-k-1} (v[t]-mean)(v[t+k]-mean).
//
// The biased (1/n) normalization keeps the estimate positive semidefinite,
// which downstream covariance fits rely on. The sums are evaluated with a
// single zero-padded FFT round trip, so the cost is O(n log n) regardless
// of maxLag.
func SampleAutocovariance(v []float64, maxLag int) ([]float64, error) {
	n := len(v)

	if n == 0 || maxLag < 0 || maxLag >= n {
		return nil, fmt.Errorf("expfit: %d lags from %d samples: %w", maxLag, n, ErrInsufficientData)
	}

	mean := 0.0
	for _, x := range v {
		mean += x
	}

	mean /= float64(n)

	// Zero padding to at least 2n makes the circular correlation linear.
	size := nextPowerOfTwo(2 * n)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("expfit: fft plan: %w", err)
	}

	buf := make([]complex128, size)
	for i, x := range v {
		buf[i] = complex(x-mean, 0)
	}

	if err := plan.Forward(buf, buf); err != nil {
		return nil, fmt.Errorf("expfit: forward transform: %w", err)
	}

	for i, c := range buf {
		re, im := real(c), imag(c)
		buf[i] = complex(re*re+im*im, 0)
	}

	if err := plan.Inverse(buf, buf); err != nil {
		return nil, fmt.Errorf("expfit: inverse transform: %w", err)
	}

	out := make([]float64, maxLag+1)
	for k := range out {
		out[k] = real(buf[k]) / float64(n)
	}

	return out, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
