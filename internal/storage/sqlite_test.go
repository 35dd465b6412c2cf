//go:build sqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"spinstack/internal/model"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "spinstack.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}()

	record := newTestSweepRecord("sweep-sqlite")
	if err := store.SaveSweep(ctx, record); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// Upsert must replace, not duplicate.
	record.MCMCSteps = 200
	if err := store.SaveSweep(ctx, record); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, ok, err := store.GetSweep(ctx, "sweep-sqlite")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%t err=%v", ok, err)
	}
	if got.MCMCSteps != 200 {
		t.Fatalf("upsert did not replace payload: %+v", got)
	}

	if err := store.SaveEnergyTraces(ctx, "sweep-sqlite", []model.EnergyTrace{{Layers: 1, Trained: []float64{-1}}}); err != nil {
		t.Fatalf("save traces failed: %v", err)
	}
	traces, ok, err := store.GetEnergyTraces(ctx, "sweep-sqlite")
	if err != nil || !ok || len(traces) != 1 {
		t.Fatalf("get traces failed: ok=%t err=%v traces=%v", ok, err, traces)
	}

	ids, err := store.ListRunIDs(ctx)
	if err != nil || len(ids) != 1 || ids[0] != "sweep-sqlite" {
		t.Fatalf("unexpected run ids: %v err=%v", ids, err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if ids, err := store.ListRunIDs(ctx); err != nil || len(ids) != 0 {
		t.Fatalf("expected empty store after reset: %v err=%v", ids, err)
	}
}
