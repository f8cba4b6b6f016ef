package arma

import (
	"encoding/json"
	"fmt"
)

// modelJSON is the persisted layout: the exponential covariance form split
// into real and imaginary parts, plus the covariance lags that do not
// follow from the exponential sum.
type modelJSON struct {
	BasesRe []float64 `json:"basesRe"`
	BasesIm []float64 `json:"basesIm"`
	AmplsRe []float64 `json:"amplsRe"`
	AmplsIm []float64 `json:"amplsIm"`
	CovarIV []float64 `json:"covarIV"`
}

// MarshalJSON encodes the exponential representation together with the
// exceptional covariance prefix, which is exactly the information
// NewModelFromExponentials needs to rebuild the model. Models with q < p
// reload with moving-average order p-1 and an identical covariance
// function; all other models round-trip their orders unchanged.
func (m *Model) MarshalJSON() ([]byte, error) {
	doc := modelJSON{
		BasesRe: make([]float64, m.p),
		BasesIm: make([]float64, m.p),
		AmplsRe: make([]float64, m.p),
		AmplsIm: make([]float64, m.p),
		CovarIV: []float64{},
	}

	for i, b := range m.expbases {
		doc.BasesRe[i] = real(b)
		doc.BasesIm[i] = imag(b)
	}

	for i, a := range m.expampls {
		doc.AmplsRe[i] = real(a)
		doc.AmplsIm[i] = imag(a)
	}

	if exc := m.q - m.p + 1; exc > 0 {
		doc.CovarIV = cloneFloats(m.covarIV[:exc])
	}

	return json.Marshal(doc)
}

// UnmarshalModelJSON reconstructs a model from its persisted form. The
// model is rebuilt through NewModelFromExponentials, so it is re-validated
// and re-factorized on load; options tune that factorization.
func UnmarshalModelJSON(data []byte, opts ...Option) (*Model, error) {
	var doc modelJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("arma: decode model: %w", err)
	}

	n := len(doc.BasesRe)
	if len(doc.BasesIm) != n || len(doc.AmplsRe) != n || len(doc.AmplsIm) != n {
		return nil, fmt.Errorf("arma: base and amplitude arrays disagree in length: %w", ErrOrderMismatch)
	}

	bases := make([]complex128, n)
	ampls := make([]complex128, n)

	for i := range n {
		bases[i] = complex(doc.BasesRe[i], doc.BasesIm[i])
		ampls[i] = complex(doc.AmplsRe[i], doc.AmplsIm[i])
	}

	return NewModelFromExponentials(bases, ampls, doc.CovarIV, opts...)
}
