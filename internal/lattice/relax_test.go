package lattice

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func TestStepLeavesNonImprovingStateUnchanged(t *testing.T) {
	// All spins up with positive couplings: every field is positive and
	// every delta is negative, so no proposal may be accepted.
	sys := &System{
		Spins: [][]float64{{1, 1}, {1, 1}},
		Couplings: [][][]float64{
			{{0.5, 0.5}, {0.5, 0.5}},
		},
	}
	energy := TotalEnergy(sys)
	relaxer := &Relaxer{Rand: rand.New(rand.NewSource(7))}
	for i := 0; i < 50; i++ {
		if got := relaxer.Step(sys, energy); got != energy {
			t.Fatalf("step %d changed energy: %f -> %f", i, energy, got)
		}
	}
	for l, spins := range sys.Spins {
		for n, spin := range spins {
			if spin != 1 {
				t.Fatalf("spin (%d,%d) changed: %f", l, n, spin)
			}
		}
	}
}

func TestRelaxNeverRaisesEnergy(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	sys := NewSystem(r, 4, 3)
	energy := TotalEnergy(sys)
	relaxer := &Relaxer{Rand: r, Steps: 2000}
	final, trace, err := relaxer.Relax(context.Background(), sys, energy)
	if err != nil {
		t.Fatalf("relax failed: %v", err)
	}
	previous := energy
	for i, value := range trace {
		if value >= previous {
			t.Fatalf("trace entry %d did not lower energy: %f -> %f", i, previous, value)
		}
		previous = value
	}
	if final != previous {
		t.Fatalf("final energy %f does not match trace tail %f", final, previous)
	}
	if math.Abs(TotalEnergy(sys)-final) > 1e-9 {
		t.Fatalf("tracked energy %f diverged from recomputation %f", final, TotalEnergy(sys))
	}
}

func TestRelaxDeterministicUnderFixedSeed(t *testing.T) {
	run := func() (float64, []float64, [][]float64) {
		r := rand.New(rand.NewSource(99))
		sys := NewSystem(r, 4, 2)
		relaxer := &Relaxer{Rand: r, Steps: 500}
		final, trace, err := relaxer.Relax(context.Background(), sys, TotalEnergy(sys))
		if err != nil {
			t.Fatalf("relax failed: %v", err)
		}
		return final, trace, sys.Spins
	}
	finalA, traceA, spinsA := run()
	finalB, traceB, spinsB := run()
	if finalA != finalB {
		t.Fatalf("final energies differ: %f vs %f", finalA, finalB)
	}
	if len(traceA) != len(traceB) {
		t.Fatalf("trace lengths differ: %d vs %d", len(traceA), len(traceB))
	}
	for i := range traceA {
		if traceA[i] != traceB[i] {
			t.Fatalf("trace entry %d differs: %f vs %f", i, traceA[i], traceB[i])
		}
	}
	for l := range spinsA {
		for n := range spinsA[l] {
			if spinsA[l][n] != spinsB[l][n] {
				t.Fatalf("spin (%d,%d) differs", l, n)
			}
		}
	}
}

func TestRelaxHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := rand.New(rand.NewSource(5))
	sys := NewSystem(r, 4, 1)
	relaxer := &Relaxer{Rand: r, Steps: 100000}
	if _, _, err := relaxer.Relax(ctx, sys, TotalEnergy(sys)); err == nil {
		t.Fatal("expected cancellation error")
	}
}
