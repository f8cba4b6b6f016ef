package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates uniform white noise with a fixed seed for
// reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise generates standard normal white noise with a fixed seed for
// reproducibility.
func GaussianNoise(seed int64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

// DampedCosine generates amplitude * decay^k * cos(2*pi*freq*k), the real
// part of a geometric sequence with complex ratio. Useful as a fixture for
// exponential fitting.
func DampedCosine(decay, freq, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = amplitude * math.Pow(decay, float64(i)) * math.Cos(2*math.Pi*freq*float64(i))
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}
