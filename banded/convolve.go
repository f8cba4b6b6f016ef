package banded

// ConvolveSame computes the causal convolution of signal with filter,
// truncated to the signal length: out[i] = sum_j filter[j]*signal[i-j].
// filter[0] is the undelayed tap. This is multiplication by the banded
// lower-triangular Toeplitz matrix built from filter, without forming it.
func ConvolveSame(signal, filter []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if len(filter) == 0 {
		return nil, ErrEmptyKernel
	}

	out := make([]float64, len(signal))

	for i := range signal {
		hi := i
		if hi > len(filter)-1 {
			hi = len(filter) - 1
		}

		sum := 0.0
		for j := 0; j <= hi; j++ {
			sum += filter[j] * signal[i-j]
		}

		out[i] = sum
	}

	return out, nil
}

// DeconvolveSame recovers x from ConvolveSame(x, filter) by forward
// substitution through the same banded Toeplitz structure. It is the exact
// left inverse of ConvolveSame for the same filter. The leading filter
// coefficient must be non-zero; otherwise the implied matrix is singular.
func DeconvolveSame(signal, filter []float64) ([]float64, error) {
	if len(signal) == 0 {
		return nil, ErrEmptyInput
	}

	if len(filter) == 0 {
		return nil, ErrEmptyKernel
	}

	if filter[0] == 0 {
		return nil, ErrSingular
	}

	out := make([]float64, len(signal))

	for i := range signal {
		hi := i
		if hi > len(filter)-1 {
			hi = len(filter) - 1
		}

		sum := signal[i]
		for j := 1; j <= hi; j++ {
			sum -= filter[j] * out[i-j]
		}

		out[i] = sum / filter[0]
	}

	return out, nil
}
