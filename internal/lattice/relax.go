package lattice

import (
	"context"
	"math/rand"
)

const cancelCheckInterval = 1024

// Relaxer drives zero-temperature single-spin-flip relaxation. A move is
// accepted only when its flip delta is strictly positive; there is no
// temperature parameter and no stochastic uphill acceptance.
type Relaxer struct {
	Rand  *rand.Rand
	Steps int
}

// Step proposes one uniform random single-spin flip. When the flip delta
// is positive the spin is flipped in place and the tracked energy drops
// by 2*delta; otherwise system and energy are left unchanged.
func (x *Relaxer) Step(s *System, energy float64) float64 {
	layer := x.Rand.Intn(len(s.Spins))
	node := x.Rand.Intn(len(s.Spins[layer]))
	delta := FlipDelta(s, layer, node)
	if delta > 0 {
		s.Spins[layer][node] *= -1
		energy -= 2 * delta
	}
	return energy
}

// Relax runs the configured number of steps from the given starting
// energy and returns the final energy together with the trajectory of
// tracked energies after each accepted move. The step budget is fixed;
// there is no convergence-based early stop.
func (x *Relaxer) Relax(ctx context.Context, s *System, energy float64) (float64, []float64, error) {
	trace := make([]float64, 0, 64)
	for step := 0; step < x.Steps; step++ {
		if step%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return energy, trace, err
			}
		}
		next := x.Step(s, energy)
		if next != energy {
			trace = append(trace, next)
		}
		energy = next
	}
	return energy, trace, nil
}
