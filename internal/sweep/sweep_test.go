package sweep

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{name: "zero base width", cfg: Config{BaseWidth: 0, NumLayers: 2, MCMCSteps: 10}},
		{name: "negative base width", cfg: Config{BaseWidth: -4, NumLayers: 2, MCMCSteps: 10}},
		{name: "zero layers", cfg: Config{BaseWidth: 4, NumLayers: 0, MCMCSteps: 10}},
		{name: "negative steps", cfg: Config{BaseWidth: 4, NumLayers: 2, MCMCSteps: -1}},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		if !errors.Is(err, ErrConfiguration) {
			t.Fatalf("%s: expected ErrConfiguration, got %v", tc.name, err)
		}
	}
	valid := Config{BaseWidth: 4, NumLayers: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestSinglePointSweepNormalizesToUnit(t *testing.T) {
	outcome, err := Run(context.Background(), Config{
		BaseWidth: 4,
		NumLayers: 1,
		MCMCSteps: 100,
		Seed:      41,
	})
	if err != nil {
		if errors.Is(err, ErrDegenerateEnergy) {
			t.Skipf("seed produced degenerate shuffled energy: %v", err)
		}
		t.Fatalf("sweep failed: %v", err)
	}
	if len(outcome.Results) != 1 {
		t.Fatalf("unexpected result count: %d", len(outcome.Results))
	}
	result := outcome.Results[0]
	if result.DepthFraction != 1.0 {
		t.Fatalf("unexpected depth fraction: %f", result.DepthFraction)
	}
	if math.Abs(math.Abs(result.NormalizedDelta)-1.0) > 1e-12 {
		t.Fatalf("single-point sweep must normalize to unit magnitude, got %f", result.NormalizedDelta)
	}
	if math.IsNaN(result.EnergyTrained) || math.IsInf(result.EnergyTrained, 0) {
		t.Fatalf("trained energy is not finite: %f", result.EnergyTrained)
	}
	if math.IsNaN(result.EnergyShuffled) || math.IsInf(result.EnergyShuffled, 0) {
		t.Fatalf("shuffled energy is not finite: %f", result.EnergyShuffled)
	}
}

func TestSweepSeriesOrderingAndBounds(t *testing.T) {
	cfg := Config{BaseWidth: 4, NumLayers: 5, MCMCSteps: 400, Seed: 42}
	outcome, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(outcome.Results) != cfg.NumLayers {
		t.Fatalf("unexpected result count: %d", len(outcome.Results))
	}
	if len(outcome.Traces) != cfg.NumLayers {
		t.Fatalf("unexpected trace count: %d", len(outcome.Traces))
	}
	sawUnit := false
	for i, result := range outcome.Results {
		if result.Layers != i+1 {
			t.Fatalf("result %d out of order: layers=%d", i, result.Layers)
		}
		want := float64(i+1) / float64(cfg.NumLayers)
		if math.Abs(result.DepthFraction-want) > 1e-12 {
			t.Fatalf("result %d depth fraction %f want %f", i, result.DepthFraction, want)
		}
		if math.Abs(result.NormalizedDelta) > 1+1e-12 {
			t.Fatalf("result %d normalized delta out of range: %f", i, result.NormalizedDelta)
		}
		if math.Abs(math.Abs(result.NormalizedDelta)-1.0) <= 1e-12 {
			sawUnit = true
		}
	}
	if !sawUnit {
		t.Fatal("expected the maximal delta to normalize to unit magnitude")
	}
}

func TestSweepDeterministicAcrossWorkerCounts(t *testing.T) {
	base := Config{BaseWidth: 4, NumLayers: 4, MCMCSteps: 300, Seed: 7}

	serial := base
	serial.Workers = 1
	parallel := base
	parallel.Workers = 4

	outcomeA, err := Run(context.Background(), serial)
	if err != nil {
		t.Fatalf("serial sweep failed: %v", err)
	}
	outcomeB, err := Run(context.Background(), parallel)
	if err != nil {
		t.Fatalf("parallel sweep failed: %v", err)
	}
	for i := range outcomeA.Results {
		if outcomeA.Results[i] != outcomeB.Results[i] {
			t.Fatalf("result %d differs across worker counts:\n%+v\n%+v",
				i, outcomeA.Results[i], outcomeB.Results[i])
		}
	}
	for i := range outcomeA.Traces {
		a := outcomeA.Traces[i]
		b := outcomeB.Traces[i]
		if len(a.Trained) != len(b.Trained) || len(a.Shuffled) != len(b.Shuffled) {
			t.Fatalf("trace %d lengths differ", i)
		}
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{BaseWidth: 4, NumLayers: 3, MCMCSteps: 100000, Seed: 1})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestSweepRejectsInvalidConfig(t *testing.T) {
	_, err := Run(context.Background(), Config{BaseWidth: -1, NumLayers: 1})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
