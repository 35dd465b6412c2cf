package storage

import (
	"context"

	"spinstack/internal/model"
)

// Store defines persistence operations for simulation run records.
type Store interface {
	Init(ctx context.Context) error
	SaveSweep(ctx context.Context, record model.SweepRecord) error
	GetSweep(ctx context.Context, runID string) (model.SweepRecord, bool, error)
	SaveDOS(ctx context.Context, record model.DOSRecord) error
	GetDOS(ctx context.Context, runID string) (model.DOSRecord, bool, error)
	SaveEnergyTraces(ctx context.Context, runID string, traces []model.EnergyTrace) error
	GetEnergyTraces(ctx context.Context, runID string) ([]model.EnergyTrace, bool, error)
	ListRunIDs(ctx context.Context) ([]string, error)
}

// Resetter is implemented by stores that can drop all persisted records.
type Resetter interface {
	Reset(ctx context.Context) error
}
