// Package dos estimates the logarithmic density of states of a
// single-layer spin system by direct sampling: energies of i.i.d.
// uniform spin configurations are binned into a normalized histogram.
package dos

import (
	"fmt"
	"math"
	"math/rand"

	"spinstack/internal/lattice"
)

// logEpsilon keeps empty bins out of log(0).
const logEpsilon = 1e-10

const DefaultBins = 50

// Estimate holds the left bin edges and the log of the normalized
// density per bin. Both slices have exactly numBins entries.
type Estimate struct {
	BinEdges   []float64 `json:"bin_edges"`
	LogDensity []float64 `json:"log_density"`
}

// Run samples numSamples random spin configurations against the given
// self-coupling, computes the Hamiltonian of each, and returns the
// log-histogram of the sampled energies over numBins bins.
func Run(r *rand.Rand, coupling [][]float64, numSamples, numBins int) (Estimate, error) {
	if len(coupling) == 0 {
		return Estimate{}, fmt.Errorf("coupling must not be empty")
	}
	for i, row := range coupling {
		if len(row) != len(coupling) {
			return Estimate{}, fmt.Errorf("coupling row %d has %d columns, want %d", i, len(row), len(coupling))
		}
	}
	if numSamples <= 0 {
		return Estimate{}, fmt.Errorf("num samples must be > 0, got %d", numSamples)
	}
	if numBins <= 0 {
		return Estimate{}, fmt.Errorf("num bins must be > 0, got %d", numBins)
	}

	energies := make([]float64, numSamples)
	for s := range energies {
		spins := lattice.RandomSpins(r, len(coupling))
		energies[s] = lattice.Hamiltonian(spins, coupling)
	}
	return histogram(energies, numBins), nil
}

// Comparison pairs the estimate for a structured coupling with the
// estimate for a distribution-preserving shuffle of the same coupling.
type Comparison struct {
	Trained  Estimate `json:"trained"`
	Shuffled Estimate `json:"shuffled"`
}

// CompareShuffled estimates the density of states for the coupling and
// for an independently shuffled copy of it, using the same sample and
// bin counts for both passes.
func CompareShuffled(r *rand.Rand, coupling [][]float64, numSamples, numBins int) (Comparison, error) {
	trained, err := Run(r, coupling, numSamples, numBins)
	if err != nil {
		return Comparison{}, err
	}
	shuffled, err := Run(r, lattice.ShuffleCoupling(r, coupling), numSamples, numBins)
	if err != nil {
		return Comparison{}, err
	}
	return Comparison{Trained: trained, Shuffled: shuffled}, nil
}

func histogram(energies []float64, numBins int) Estimate {
	lo := energies[0]
	hi := energies[0]
	for _, e := range energies[1:] {
		if e < lo {
			lo = e
		}
		if e > hi {
			hi = e
		}
	}
	if hi == lo {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(numBins)

	counts := make([]int, numBins)
	for _, e := range energies {
		bin := int((e - lo) / width)
		if bin >= numBins {
			bin = numBins - 1
		}
		counts[bin]++
	}

	edges := make([]float64, numBins)
	logDensity := make([]float64, numBins)
	total := float64(len(energies))
	for b := range counts {
		edges[b] = lo + width*float64(b)
		density := float64(counts[b]) / (total * width)
		logDensity[b] = math.Log(density + logEpsilon)
	}
	return Estimate{BinEdges: edges, LogDensity: logDensity}
}
