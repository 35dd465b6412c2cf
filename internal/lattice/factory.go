package lattice

import (
	"math"
	"math/rand"
)

// RandomSpins draws width independent uniform spins from {-1, +1}.
func RandomSpins(r *rand.Rand, width int) []float64 {
	spins := make([]float64, width)
	for i := range spins {
		if r.Intn(2) == 0 {
			spins[i] = 1
		} else {
			spins[i] = -1
		}
	}
	return spins
}

// RandomSymmetricCoupling draws an n x n standard-normal matrix,
// symmetrizes it via (W + W^T)/2 and zeroes the diagonal. The result is
// exactly symmetric with exactly zero self-coupling.
func RandomSymmetricCoupling(r *rand.Rand, n int) [][]float64 {
	coupling := make([][]float64, n)
	for i := range coupling {
		coupling[i] = make([]float64, n)
		for j := range coupling[i] {
			coupling[i][j] = r.NormFloat64()
		}
	}
	for i := 0; i < n; i++ {
		coupling[i][i] = 0
		for j := i + 1; j < n; j++ {
			avg := (coupling[i][j] + coupling[j][i]) / 2
			coupling[i][j] = avg
			coupling[j][i] = avg
		}
	}
	return coupling
}

// RandomLayerCoupling draws an nIn x nOut matrix of zero-mean normal
// values with standard deviation 1/sqrt(nIn), the fan-in normalization
// used for variance-preserving weight initialization.
func RandomLayerCoupling(r *rand.Rand, nIn, nOut int) [][]float64 {
	scale := 1 / math.Sqrt(float64(nIn))
	coupling := make([][]float64, nIn)
	for i := range coupling {
		coupling[i] = make([]float64, nOut)
		for j := range coupling[i] {
			coupling[i][j] = r.NormFloat64() * scale
		}
	}
	return coupling
}
