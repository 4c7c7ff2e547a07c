package statestore

import (
	"context"
	"sync"

	"github.com/fluxionhq/fluxion/internal/corepipeline"
)

// MemoryStore is an in-memory Store, the default for hosts that don't need
// durability across process restarts (tests, one-shot CLI runs).
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*corepipeline.ExecutionResult
	steps   map[string]map[string]corepipeline.StepResult
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results: make(map[string]*corepipeline.ExecutionResult),
		steps:   make(map[string]map[string]corepipeline.StepResult),
	}
}

func (s *MemoryStore) SaveResult(_ context.Context, result *corepipeline.ExecutionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *result
	clone.Steps = append([]corepipeline.StepResult(nil), result.Steps...)
	s.results[result.RunID] = &clone
	return nil
}

func (s *MemoryStore) LoadResult(_ context.Context, runID string) (*corepipeline.ExecutionResult, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[runID]
	if !ok {
		return nil, false, nil
	}
	clone := *result
	clone.Steps = append([]corepipeline.StepResult(nil), result.Steps...)
	return &clone, true, nil
}

func (s *MemoryStore) UpdateStep(_ context.Context, runID, stepKey string, result corepipeline.StepResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byStep, ok := s.steps[runID]
	if !ok {
		byStep = make(map[string]corepipeline.StepResult)
		s.steps[runID] = byStep
	}
	byStep[stepKey] = result
	return nil
}

// StepResults returns every step result recorded for a run via UpdateStep,
// independent of whether SaveResult has been called yet.
func (s *MemoryStore) StepResults(runID string) map[string]corepipeline.StepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]corepipeline.StepResult, len(s.steps[runID]))
	for k, v := range s.steps[runID] {
		out[k] = v
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
