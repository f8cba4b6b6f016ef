// Package polyroot provides polynomial root-finding and root-to-coefficient
// reconstruction utilities shared by the model construction packages.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (leading coefficient zero, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// ErrNonRealProduct is returned by FromRoots when the product of the supplied
// roots has a non-negligible imaginary part, meaning the roots cannot belong
// to a polynomial with real coefficients.
var ErrNonRealProduct = errors.New("polyroot: root product is not real")

// Roots finds the complex roots of a real polynomial given in ascending power
// order (c[0] + c[1]*z + c[2]*z^2 + ...). Trailing zero coefficients are
// ignored; a constant polynomial has no roots.
func Roots(coeffs []float64) ([]complex128, error) {
	n := len(coeffs)
	for n > 0 && coeffs[n-1] == 0 {
		n--
	}

	if n <= 1 {
		return nil, nil
	}

	desc := make([]complex128, n)
	for i := range n {
		desc[i] = complex(coeffs[n-1-i], 0)
	}

	return DurandKerner(desc)
}

// FromRoots reconstructs real polynomial coefficients from a root set,
// normalized so the constant term is 1. The result is in ascending power
// order: out[0] + out[1]*z + ... with out[0] == 1. The roots must be closed
// under conjugation; if their product has an imaginary part larger than
// 1e-10 relative, FromRoots returns ErrNonRealProduct. Zero roots are
// rejected since no polynomial with constant term 1 vanishes at the origin.
func FromRoots(roots []complex128) ([]float64, error) {
	n := len(roots)
	if n == 0 {
		return []float64{1}, nil
	}

	// Expand the monic polynomial prod_k (z - r_k) in descending order.
	poly := make([]complex128, 1, n+1)
	poly[0] = 1

	for _, r := range roots {
		if r == 0 {
			return nil, ErrDegeneratePolynomial
		}

		next := make([]complex128, len(poly)+1)
		for i, c := range poly {
			next[i] += c
			next[i+1] -= c * r
		}

		poly = next
	}

	// The constant term is prod_k (-r_k); conjugate-closed root sets make it
	// real up to rounding.
	tail := poly[n]
	if math.Abs(imag(tail)) > 1e-10*cmplx.Abs(tail) {
		return nil, ErrNonRealProduct
	}

	out := make([]float64, n+1)
	for i := range out {
		out[i] = real(poly[n-i] / tail)
	}

	return out, nil
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			f := PolyEval(norm, roots[i])
			delta := f / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

// ConjugateTol is the relative tolerance for conjugate pair matching.
const ConjugateTol = 1e-7

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}
