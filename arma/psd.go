package arma

import (
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// PSD evaluates the power spectral density
//
//	S(f) = |theta(z)|^2 / |phi(z)|^2,  z = exp(-2*pi*i*f),
//
// at the given frequencies in cycles per sample: 0 is DC and 0.5 the
// Nyquist frequency. The white noise driving the model has unit variance,
// so integrating S over -0.5..0.5 recovers the process variance.
func (m *Model) PSD(freqs []float64) []float64 {
	out := make([]float64, len(freqs))

	for i, f := range freqs {
		z := cmplx.Exp(complex(0, -2*math.Pi*f))

		num := evalPoly(m.theta, z)
		den := evalPoly(m.phi, z)

		nr, ni := real(num), imag(num)
		dr, di := real(den), imag(den)

		out[i] = (nr*nr + ni*ni) / (dr*dr + di*di)
	}

	return out
}

// PSDSampled samples the power spectral density at n equally spaced
// frequencies from DC to Nyquist inclusive. When 2*(n-1) is a power of two
// with room for both polynomials the evaluation runs as one FFT per
// polynomial; otherwise it falls back to direct evaluation per frequency.
// Both paths return the same values up to rounding.
func (m *Model) PSDSampled(n int) []float64 {
	if n <= 0 {
		return nil
	}

	if n == 1 {
		return m.PSD([]float64{0})
	}

	if out, ok := m.psdFFT(n); ok {
		return out
	}

	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = 0.5 * float64(i) / float64(n-1)
	}

	return m.PSD(freqs)
}

// psdFFT evaluates both polynomial magnitudes on the DFT grid of size
// 2*(n-1), whose first n bins are exactly the requested frequencies.
func (m *Model) psdFFT(n int) ([]float64, bool) {
	size := 2 * (n - 1)
	if !isPowerOfTwo(size) || size < len(m.theta) || size < len(m.phi) {
		return nil, false
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, false
	}

	num, err := polySpectrum(plan, m.theta, size, n)
	if err != nil {
		return nil, false
	}

	den, err := polySpectrum(plan, m.phi, size, n)
	if err != nil {
		return nil, false
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = num[i] / den[i]
	}

	return out, true
}

// polySpectrum returns |c(z)|^2 on the first bins of the DFT grid.
func polySpectrum(plan *algofft.Plan[complex128], coeffs []float64, size, bins int) ([]float64, error) {
	in := make([]complex128, size)
	for i, c := range coeffs {
		in[i] = complex(c, 0)
	}

	spec := make([]complex128, size)
	if err := plan.Forward(spec, in); err != nil {
		return nil, err
	}

	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(spec[i])
		im[i] = imag(spec[i])
	}

	out := make([]float64, bins)
	vecmath.Power(out, re, im)

	return out, nil
}

// evalPoly evaluates a real polynomial in ascending power order at a
// complex point using Horner's method.
func evalPoly(coeffs []float64, z complex128) complex128 {
	v := complex(0, 0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*z + complex(coeffs[i], 0)
	}

	return v
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
