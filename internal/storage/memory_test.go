package storage

import (
	"context"
	"testing"

	"spinstack/internal/model"
)

func newTestSweepRecord(runID string) model.SweepRecord {
	return model.SweepRecord{
		VersionedRecord: Stamp(),
		RunID:           runID,
		CreatedAtUTC:    "2026-01-01T00:00:00Z",
		BaseWidth:       4,
		NumLayers:       2,
		MCMCSteps:       100,
		Seed:            7,
		Workers:         1,
		Results: []model.RunResult{
			{Layers: 1, DepthFraction: 0.5, EnergyTrained: -3, EnergyShuffled: -2, Delta: -0.5, NormalizedDelta: -1},
			{Layers: 2, DepthFraction: 1, EnergyTrained: -4, EnergyShuffled: -5, Delta: 0.2, NormalizedDelta: 0.4},
		},
	}
}

func TestMemoryStoreSweepRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, ok, err := store.GetSweep(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected miss, ok=%t err=%v", ok, err)
	}

	record := newTestSweepRecord("sweep-1")
	if err := store.SaveSweep(ctx, record); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, ok, err := store.GetSweep(ctx, "sweep-1")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%t err=%v", ok, err)
	}
	if len(got.Results) != 2 || got.BaseWidth != 4 {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestMemoryStoreTracesAndListing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if err := store.SaveSweep(ctx, newTestSweepRecord("sweep-b")); err != nil {
		t.Fatalf("save sweep failed: %v", err)
	}
	if err := store.SaveDOS(ctx, model.DOSRecord{VersionedRecord: Stamp(), RunID: "dos-a"}); err != nil {
		t.Fatalf("save dos failed: %v", err)
	}
	traces := []model.EnergyTrace{{Layers: 1, Trained: []float64{-1, -2}}}
	if err := store.SaveEnergyTraces(ctx, "sweep-b", traces); err != nil {
		t.Fatalf("save traces failed: %v", err)
	}

	gotTraces, ok, err := store.GetEnergyTraces(ctx, "sweep-b")
	if err != nil || !ok {
		t.Fatalf("get traces failed: ok=%t err=%v", ok, err)
	}
	if len(gotTraces) != 1 || len(gotTraces[0].Trained) != 2 {
		t.Fatalf("unexpected traces: %+v", gotTraces)
	}

	ids, err := store.ListRunIDs(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "dos-a" || ids[1] != "sweep-b" {
		t.Fatalf("unexpected run ids: %v", ids)
	}
}

func TestMemoryStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := store.SaveSweep(ctx, newTestSweepRecord("sweep-x")); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	ids, err := store.ListRunIDs(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty store after reset, got %v", ids)
	}
}
