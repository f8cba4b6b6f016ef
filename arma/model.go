package arma

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-arma/banded"
	"github.com/cwbudde/algo-arma/internal/polyroot"
)

// Model is an immutable ARMA(p,q) noise model. All three representations
// (polynomial coefficients, poles/zeros/variance, exponential covariance)
// are derived at construction and stay consistent for the lifetime of the
// value. Construct models with NewModel, NewModelFromRoots or
// NewModelFromExponentials.
type Model struct {
	p, q int

	theta []float64 // q+1 coefficients, theta[0] > 0
	phi   []float64 // p+1 coefficients, phi[0] == 1

	zeros []complex128 // q roots of theta, all outside the unit circle
	poles []complex128 // p roots of phi, all outside the unit circle

	covarIV  []float64    // autocovariance at lags 0..max(p,q)
	expbases []complex128 // reciprocal poles, all inside the unit circle
	expampls []complex128 // amplitudes of the exponential covariance terms
}

// NewModel builds a model from moving-average and autoregressive
// coefficients in ascending power order. The coefficients are normalized so
// that phi[0] == 1 and theta[0] > 0, which leaves the process unchanged;
// trailing zero coefficients are dropped. All roots of both polynomials
// must lie strictly outside the unit circle.
func NewModel(thetacoef, phicoef []float64) (*Model, error) {
	theta, phi, err := normalizePair(thetacoef, phicoef)
	if err != nil {
		return nil, err
	}

	zeros, err := polyroot.Roots(theta)
	if err != nil {
		return nil, fmt.Errorf("arma: moving-average roots: %w", err)
	}

	poles, err := polyroot.Roots(phi)
	if err != nil {
		return nil, fmt.Errorf("arma: autoregressive roots: %w", err)
	}

	if err := requireOutsideUnitCircle("moving-average zero", zeros); err != nil {
		return nil, err
	}

	if err := requireOutsideUnitCircle("pole", poles); err != nil {
		return nil, err
	}

	return newModel(theta, phi, zeros, poles)
}

// NewModelFromRoots builds a model from its moving-average zeros, its poles
// and the process variance gamma(0). Both root sets must be closed under
// complex conjugation and lie strictly outside the unit circle.
func NewModelFromRoots(zeros, poles []complex128, variance float64) (*Model, error) {
	if variance <= 0 || math.IsInf(variance, 0) || math.IsNaN(variance) {
		return nil, fmt.Errorf("arma: variance %v: %w", variance, ErrInvalidVariance)
	}

	if err := requireOutsideUnitCircle("moving-average zero", zeros); err != nil {
		return nil, err
	}

	if err := requireOutsideUnitCircle("pole", poles); err != nil {
		return nil, err
	}

	theta, err := fromRoots(zeros)
	if err != nil {
		return nil, err
	}

	phi, err := fromRoots(poles)
	if err != nil {
		return nil, err
	}

	m, err := newModel(theta, phi, cloneComplex(zeros), cloneComplex(poles))
	if err != nil {
		return nil, err
	}

	// fromRoots normalizes the constant terms, so the variance is off by a
	// scale factor. Covariance is quadratic in theta: theta scales by s,
	// covariance quantities by s^2.
	s2 := variance / m.covarIV[0]
	s := math.Sqrt(s2)

	for i := range m.theta {
		m.theta[i] *= s
	}

	for i := range m.covarIV {
		m.covarIV[i] *= s2
	}

	for i := range m.expampls {
		m.expampls[i] *= complex(s2, 0)
	}

	return m, nil
}

// NewModelFromExponentials builds a model from the exponential form of its
// autocovariance: gamma(k) = Re sum_i ampls[i]*bases[i]^k for k beyond the
// supplied exceptional initial values, which override the exponential sum
// at lags 0..len(initial)-1. Bases must lie strictly inside the unit circle
// and, together with their amplitudes, be closed under conjugation. The
// moving-average order is len(bases)-1+len(initial); recovering the
// moving-average polynomial runs a spectral factorization that the options
// tune.
func NewModelFromExponentials(bases, ampls []complex128, initial []float64, opts ...Option) (*Model, error) {
	if len(ampls) != len(bases) {
		return nil, fmt.Errorf("arma: %d amplitudes for %d bases: %w", len(ampls), len(bases), ErrOrderMismatch)
	}

	p := len(bases)

	q := p - 1 + len(initial)
	if q < 0 {
		return nil, fmt.Errorf("arma: no bases and no initial covariance values: %w", ErrOrderMismatch)
	}

	for _, b := range bases {
		if cmplx.Abs(b) >= 1 {
			return nil, fmt.Errorf("arma: exponential base %v not inside the unit circle: %w", b, ErrUnstable)
		}
	}

	if err := requireConjugatePairs(bases, ampls); err != nil {
		return nil, err
	}

	cfg := defaultFactorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	poles := make([]complex128, p)
	for i, b := range bases {
		poles[i] = 1 / b
	}

	phi, err := fromRoots(poles)
	if err != nil {
		return nil, err
	}

	theta, err := factorizeCovariance(bases, ampls, initial, phi, q, cfg)
	if err != nil {
		return nil, err
	}

	zeros, err := polyroot.Roots(theta)
	if err != nil {
		return nil, fmt.Errorf("arma: factorized moving-average roots: %w", err)
	}

	if err := requireOutsideUnitCircle("factorized moving-average zero", zeros); err != nil {
		return nil, err
	}

	return newModel(theta, phi, zeros, poles)
}

// newModel derives the covariance representation from normalized
// polynomials and known root sets, and assembles the model value. It owns
// all supplied slices.
func newModel(theta, phi []float64, zeros, poles []complex128) (*Model, error) {
	p := len(phi) - 1
	q := len(theta) - 1

	covarIV, err := initialCovariance(theta, phi)
	if err != nil {
		return nil, err
	}

	expbases := make([]complex128, p)
	for i, z := range poles {
		expbases[i] = 1 / z
	}

	expampls, err := exponentialAmplitudes(expbases, covarIV, p, q)
	if err != nil {
		return nil, err
	}

	return &Model{
		p:        p,
		q:        q,
		theta:    theta,
		phi:      phi,
		zeros:    zeros,
		poles:    poles,
		covarIV:  covarIV,
		expbases: expbases,
		expampls: expampls,
	}, nil
}

// initialCovariance solves for the exceptional autocovariance lags
// gamma(0..max(p,q)) of the process with the given normalized polynomials.
// Row k of the system states sum_i phi[i]*gamma(|k-i|) = sum_i
// theta[k+i]*psi[i], where psi is the impulse response theta(z)/phi(z);
// folding gamma(-d) onto gamma(d) makes the matrix square.
func initialCovariance(theta, phi []float64) ([]float64, error) {
	p := len(phi) - 1
	q := len(theta) - 1
	n := max(p, q)

	thetaPad := make([]float64, n+1)
	copy(thetaPad, theta)

	psi, err := banded.DeconvolveSame(thetaPad, phi)
	if err != nil {
		return nil, fmt.Errorf("arma: impulse response: %w", err)
	}

	a := mat.NewDense(n+1, n+1, nil)
	b := mat.NewVecDense(n+1, nil)

	for k := 0; k <= n; k++ {
		for i := 0; i <= n; i++ {
			v := 0.0
			if d := k - i; d >= 0 && d <= p {
				v += phi[d]
			}

			if s := k + i; i > 0 && s <= p {
				v += phi[s]
			}

			a.Set(k, i, v)
		}

		rhs := 0.0
		for i := 0; k+i <= n; i++ {
			rhs += thetaPad[k+i] * psi[i]
		}

		b.SetVec(k, rhs)
	}

	var gamma mat.VecDense
	if err := gamma.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("arma: initial covariance solve: %w", err)
		}
		// Near-singular system: keep the solution, accuracy degrades with
		// the conditioning.
	}

	out := make([]float64, n+1)
	for i := range out {
		out[i] = gamma.AtVec(i)
	}

	return out, nil
}

// exponentialAmplitudes fits gamma(k) = Re sum_j ampl[j]*base[j]^k to the
// exceptional lags past the overridden prefix. The complex p-by-p
// Vandermonde system is realified to 2p-by-2p so the solve stays in real
// arithmetic.
func exponentialAmplitudes(bases []complex128, gamma []float64, p, q int) ([]complex128, error) {
	if p == 0 {
		return nil, nil
	}

	offset := 1
	if q > p {
		offset = 1 + q - p
	}

	pw := make([]complex128, p)
	for j, b := range bases {
		w := complex(1, 0)
		for range offset {
			w *= b
		}

		pw[j] = w
	}

	v := mat.NewDense(2*p, 2*p, nil)
	rhs := mat.NewVecDense(2*p, nil)

	for i := range p {
		for j := range p {
			w := pw[j]
			v.Set(i, j, real(w))
			v.Set(i, p+j, -imag(w))
			v.Set(p+i, j, imag(w))
			v.Set(p+i, p+j, real(w))
			pw[j] = w * bases[j]
		}

		rhs.SetVec(i, gamma[offset+i])
	}

	var x mat.VecDense
	if err := x.SolveVec(v, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("arma: exponential amplitude solve: %w", err)
		}
	}

	out := make([]complex128, p)
	for j := range p {
		out[j] = complex(x.AtVec(j), x.AtVec(p+j))
	}

	return out, nil
}

// normalizePair validates and normalizes raw coefficient slices: trailing
// zeros dropped, phi scaled to phi[0] == 1, theta scaled by the same factor
// and sign-flipped if needed so theta[0] > 0.
func normalizePair(thetacoef, phicoef []float64) (theta, phi []float64, err error) {
	phiTrim := trimTrailingZeros(phicoef)
	thetaTrim := trimTrailingZeros(thetacoef)

	if len(phiTrim) == 0 || phiTrim[0] == 0 {
		return nil, nil, fmt.Errorf("arma: leading autoregressive coefficient must be non-zero: %w", ErrOrderMismatch)
	}

	if len(thetaTrim) == 0 || thetaTrim[0] == 0 {
		return nil, nil, fmt.Errorf("arma: leading moving-average coefficient must be non-zero: %w", ErrOrderMismatch)
	}

	for _, c := range phiTrim {
		if math.IsInf(c, 0) || math.IsNaN(c) {
			return nil, nil, fmt.Errorf("arma: autoregressive coefficient %v: %w", c, ErrNonRealCoefficients)
		}
	}

	for _, c := range thetaTrim {
		if math.IsInf(c, 0) || math.IsNaN(c) {
			return nil, nil, fmt.Errorf("arma: moving-average coefficient %v: %w", c, ErrNonRealCoefficients)
		}
	}

	phiScale := phiTrim[0]

	thetaScale := phiScale
	if thetaTrim[0]/phiScale < 0 {
		thetaScale = -phiScale
	}

	phi = make([]float64, len(phiTrim))
	for i, c := range phiTrim {
		phi[i] = c / phiScale
	}

	theta = make([]float64, len(thetaTrim))
	for i, c := range thetaTrim {
		theta[i] = c / thetaScale
	}

	return theta, phi, nil
}

func trimTrailingZeros(v []float64) []float64 {
	n := len(v)
	for n > 0 && v[n-1] == 0 {
		n--
	}

	return v[:n]
}

// fromRoots rebuilds normalized real coefficients from a root set,
// translating the internal non-real-product error into the package
// sentinel.
func fromRoots(roots []complex128) ([]float64, error) {
	coeffs, err := polyroot.FromRoots(roots)
	if err != nil {
		if errors.Is(err, polyroot.ErrNonRealProduct) {
			return nil, fmt.Errorf("arma: roots are not closed under conjugation: %w", ErrNonRealCoefficients)
		}

		return nil, fmt.Errorf("arma: polynomial from roots: %w", err)
	}

	return coeffs, nil
}

func requireOutsideUnitCircle(kind string, roots []complex128) error {
	for _, r := range roots {
		if cmplx.Abs(r) <= 1 {
			return fmt.Errorf("arma: %s %v not outside the unit circle: %w", kind, r, ErrUnstable)
		}
	}

	return nil
}

// requireConjugatePairs checks that every complex base/amplitude pair has a
// matching conjugate partner, so the exponential sum is real at every lag.
// Entries with negligible imaginary parts stand alone.
func requireConjugatePairs(bases, ampls []complex128) error {
	const tol = polyroot.ConjugateTol

	used := make([]bool, len(bases))

	for i := range bases {
		if used[i] {
			continue
		}

		if nearlyReal(bases[i], tol) && nearlyReal(ampls[i], tol) {
			used[i] = true
			continue
		}

		found := false

		for j := i + 1; j < len(bases); j++ {
			if used[j] {
				continue
			}

			if polyroot.IsConjugate(bases[i], bases[j], tol) && polyroot.IsConjugate(ampls[i], ampls[j], tol) {
				used[i], used[j] = true, true
				found = true

				break
			}
		}

		if !found {
			return fmt.Errorf("arma: exponential term (base %v, amplitude %v) lacks a conjugate partner: %w",
				bases[i], ampls[i], ErrNonRealCoefficients)
		}
	}

	return nil
}

func nearlyReal(z complex128, tol float64) bool {
	return math.Abs(imag(z)) <= tol*math.Max(1, math.Abs(real(z)))
}

func cloneComplex(v []complex128) []complex128 {
	out := make([]complex128, len(v))
	copy(out, v)

	return out
}

func cloneFloats(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)

	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}

	return v
}

// Orders returns the autoregressive order p and moving-average order q.
func (m *Model) Orders() (p, q int) { return m.p, m.q }

// Theta returns a copy of the moving-average coefficients in ascending
// power order. Theta()[0] is positive.
func (m *Model) Theta() []float64 { return cloneFloats(m.theta) }

// Phi returns a copy of the autoregressive coefficients in ascending power
// order. Phi()[0] is 1.
func (m *Model) Phi() []float64 { return cloneFloats(m.phi) }

// Zeros returns a copy of the moving-average zeros.
func (m *Model) Zeros() []complex128 { return cloneComplex(m.zeros) }

// Poles returns a copy of the autoregressive poles.
func (m *Model) Poles() []complex128 { return cloneComplex(m.poles) }

// Variance returns the process variance gamma(0).
func (m *Model) Variance() float64 { return m.covarIV[0] }

// InitialCovariance returns a copy of the exceptional autocovariance values
// at lags 0..max(p,q).
func (m *Model) InitialCovariance() []float64 { return cloneFloats(m.covarIV) }

// ExpBases returns a copy of the exponential covariance bases, the
// reciprocals of the poles.
func (m *Model) ExpBases() []complex128 { return cloneComplex(m.expbases) }

// ExpAmplitudes returns a copy of the exponential covariance amplitudes.
// The sum gamma(k) = Re sum_i ExpAmplitudes()[i]*ExpBases()[i]^k holds at
// every lag k >= max(1, q-p+1); the earlier lags are exceptional and held
// in InitialCovariance.
func (m *Model) ExpAmplitudes() []complex128 { return cloneComplex(m.expampls) }
