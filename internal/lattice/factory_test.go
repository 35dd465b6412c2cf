package lattice

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSpinsValues(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	spins := RandomSpins(r, 64)
	if len(spins) != 64 {
		t.Fatalf("unexpected spin count: %d", len(spins))
	}
	sawUp := false
	sawDown := false
	for i, spin := range spins {
		if spin != 1 && spin != -1 {
			t.Fatalf("spin %d is not in {-1,+1}: %f", i, spin)
		}
		if spin == 1 {
			sawUp = true
		} else {
			sawDown = true
		}
	}
	if !sawUp || !sawDown {
		t.Fatalf("expected both spin values, up=%t down=%t", sawUp, sawDown)
	}
}

func TestRandomSymmetricCoupling(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	coupling := RandomSymmetricCoupling(r, 12)
	if len(coupling) != 12 {
		t.Fatalf("unexpected row count: %d", len(coupling))
	}
	for i := range coupling {
		if len(coupling[i]) != 12 {
			t.Fatalf("row %d has %d columns", i, len(coupling[i]))
		}
		if coupling[i][i] != 0 {
			t.Fatalf("diagonal %d is non-zero: %f", i, coupling[i][i])
		}
		for j := range coupling[i] {
			if coupling[i][j] != coupling[j][i] {
				t.Fatalf("asymmetry at (%d,%d): %f vs %f", i, j, coupling[i][j], coupling[j][i])
			}
		}
	}
}

func TestRandomLayerCouplingShapeAndScale(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	coupling := RandomLayerCoupling(r, 400, 7)
	if len(coupling) != 400 {
		t.Fatalf("unexpected row count: %d", len(coupling))
	}
	sum := 0.0
	sumSq := 0.0
	n := 0
	for i := range coupling {
		if len(coupling[i]) != 7 {
			t.Fatalf("row %d has %d columns", i, len(coupling[i]))
		}
		for _, w := range coupling[i] {
			sum += w
			sumSq += w * w
			n++
		}
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	// Fan-in 400 gives variance 1/400; allow sampling noise.
	if math.Abs(variance-1.0/400) > 5e-4 {
		t.Fatalf("unexpected variance: %g", variance)
	}
}

func TestLayerWidthsPattern(t *testing.T) {
	widths := LayerWidths(768, 12)
	if len(widths) != 13 {
		t.Fatalf("unexpected width count: %d", len(widths))
	}
	for l, width := range widths {
		want := 768
		if l%4 == 3 {
			want = 3072
		}
		if width != want {
			t.Fatalf("width[%d]=%d want %d", l, width, want)
		}
	}
}
