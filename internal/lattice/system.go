package lattice

import "math/rand"

const ffnWidthFactor = 4

// LayerWidths returns the numLayers+1 boundary widths of a layered stack.
// The widths follow a repeating period of four: every boundary with
// index l mod 4 == 3 takes the feed-forward width 4*baseWidth, all
// others take baseWidth.
func LayerWidths(baseWidth, numLayers int) []int {
	widths := make([]int, numLayers+1)
	for l := range widths {
		if l%4 == 3 {
			widths[l] = ffnWidthFactor * baseWidth
		} else {
			widths[l] = baseWidth
		}
	}
	return widths
}

// System is a layered spin chain: one spin vector per layer boundary and
// one bipartite coupling matrix per layer gap. Couplings[l] has shape
// (len(Spins[l]), len(Spins[l+1])). A System is owned exclusively by the
// relaxation run that created it; Spins are mutated in place.
type System struct {
	Spins     [][]float64
	Couplings [][][]float64
}

// NewSystem builds a fresh system with random spins and fan-in
// normalized random couplings for the given base width and layer count.
func NewSystem(r *rand.Rand, baseWidth, numLayers int) *System {
	widths := LayerWidths(baseWidth, numLayers)
	spins := make([][]float64, len(widths))
	for l, width := range widths {
		spins[l] = RandomSpins(r, width)
	}
	couplings := make([][][]float64, numLayers)
	for l := range couplings {
		couplings[l] = RandomLayerCoupling(r, widths[l], widths[l+1])
	}
	return &System{Spins: spins, Couplings: couplings}
}

// NumLayers returns the number of layer gaps.
func (s *System) NumLayers() int {
	return len(s.Couplings)
}

// Widths returns the boundary widths of the system.
func (s *System) Widths() []int {
	widths := make([]int, len(s.Spins))
	for l, spins := range s.Spins {
		widths[l] = len(spins)
	}
	return widths
}
