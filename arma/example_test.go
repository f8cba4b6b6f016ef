package arma_test

import (
	"fmt"

	"github.com/cwbudde/algo-arma/arma"
)

func ExampleNewModel() {
	// First-order moving average: x[t] = w[t] + 0.5*w[t-1].
	m, err := arma.NewModel([]float64{1, 0.5}, []float64{1})
	if err != nil {
		panic(err)
	}

	p, q := m.Orders()
	gamma, _ := m.Covariance(3)

	fmt.Printf("ARMA(%d,%d)\n", p, q)
	fmt.Printf("gamma = [%.2f %.2f %.2f]\n", gamma[0], gamma[1], gamma[2])
	// Output:
	// ARMA(0,1)
	// gamma = [1.25 0.50 0.00]
}

func ExampleModelCovariance() {
	// Extend hand-picked initial values with an AR(1) recursion.
	gamma, err := arma.ModelCovariance([]float64{4, 2}, []float64{1, -0.5}, 5)
	if err != nil {
		panic(err)
	}

	fmt.Println(gamma)
	// Output:
	// [4 2 1 0.5 0.25]
}

func ExampleSolver_Whiten() {
	// White noise with sigma = 2: whitening divides by sigma.
	m, err := arma.NewModel([]float64{2}, []float64{1})
	if err != nil {
		panic(err)
	}

	s, err := arma.NewSolver(m, 3)
	if err != nil {
		panic(err)
	}

	w, err := s.Whiten([]float64{2, 4, 6})
	if err != nil {
		panic(err)
	}

	fmt.Println(w)
	// Output:
	// [1 2 3]
}

func ExampleToeplitzWhiten() {
	// AR(1) whitening is the filter x[t] - 0.5*x[t-1] with zero initial
	// conditions.
	m, err := arma.NewModel([]float64{1}, []float64{1, -0.5})
	if err != nil {
		panic(err)
	}

	w, err := arma.ToeplitzWhiten(m, []float64{2, 2, 2, 2})
	if err != nil {
		panic(err)
	}

	fmt.Println(w)
	// Output:
	// [2 1 1 1]
}

func ExampleModel_PSD() {
	// White noise has a flat spectrum at sigma^2.
	m, err := arma.NewModel([]float64{2}, []float64{1})
	if err != nil {
		panic(err)
	}

	fmt.Println(m.PSD([]float64{0, 0.25, 0.5}))
	// Output:
	// [4 4 4]
}
