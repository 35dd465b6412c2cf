package storage

import (
	"context"
	"sort"
	"sync"

	"spinstack/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	sweeps      map[string]model.SweepRecord
	dos         map[string]model.DOSRecord
	traces      map[string][]model.EnergyTrace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.sweeps = make(map[string]model.SweepRecord)
	s.dos = make(map[string]model.DOSRecord)
	s.traces = make(map[string][]model.EnergyTrace)
	return nil
}

func (s *MemoryStore) SaveSweep(_ context.Context, record model.SweepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweeps[record.RunID] = record
	return nil
}

func (s *MemoryStore) GetSweep(_ context.Context, runID string) (model.SweepRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.sweeps[runID]
	return record, ok, nil
}

func (s *MemoryStore) SaveDOS(_ context.Context, record model.DOSRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dos[record.RunID] = record
	return nil
}

func (s *MemoryStore) GetDOS(_ context.Context, runID string) (model.DOSRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.dos[runID]
	return record, ok, nil
}

func (s *MemoryStore) SaveEnergyTraces(_ context.Context, runID string, traces []model.EnergyTrace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.traces[runID] = append([]model.EnergyTrace(nil), traces...)
	return nil
}

func (s *MemoryStore) GetEnergyTraces(_ context.Context, runID string) ([]model.EnergyTrace, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	traces, ok := s.traces[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.EnergyTrace(nil), traces...), true, nil
}

func (s *MemoryStore) ListRunIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool, len(s.sweeps)+len(s.dos))
	for runID := range s.sweeps {
		seen[runID] = true
	}
	for runID := range s.dos {
		seen[runID] = true
	}
	ids := make([]string, 0, len(seen))
	for runID := range seen {
		ids = append(ids, runID)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}
