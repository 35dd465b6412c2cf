package lattice

import "math/rand"

// ShuffleCoupling returns a new matrix holding the exact same multiset
// of values as coupling, uniformly permuted across all positions and
// reshaped to the original dimensions. The input is left untouched.
func ShuffleCoupling(r *rand.Rand, coupling [][]float64) [][]float64 {
	if len(coupling) == 0 {
		return [][]float64{}
	}
	cols := len(coupling[0])
	flat := make([]float64, 0, len(coupling)*cols)
	for _, row := range coupling {
		flat = append(flat, row...)
	}
	r.Shuffle(len(flat), func(i, j int) {
		flat[i], flat[j] = flat[j], flat[i]
	})
	shuffled := make([][]float64, len(coupling))
	for i := range shuffled {
		shuffled[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return shuffled
}

// ShuffleCouplings replaces every coupling matrix of the system with an
// independently shuffled copy, decorrelating the couplings from layer
// adjacency while preserving their marginal distribution.
func (s *System) ShuffleCouplings(r *rand.Rand) {
	for l, coupling := range s.Couplings {
		s.Couplings[l] = ShuffleCoupling(r, coupling)
	}
}
