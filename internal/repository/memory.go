package repository

import (
	"context"
	"sync"

	"tech-selector/internal/models"

	"go.uber.org/zap"
)

// MemoryStore keeps evaluations in a slice for the lifetime of the process
type MemoryStore struct {
	mu          sync.RWMutex
	evaluations []models.Evaluation
	logger      *zap.Logger
}

// NewMemoryStore creates an empty store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	logger.Info("Evaluation store initialized", zap.String("driver", DriverMemory))
	return &MemoryStore{logger: logger}
}

// Append stores a copy of ev.
func (s *MemoryStore) Append(_ context.Context, ev *models.Evaluation) error {
	s.mu.Lock()
	s.evaluations = append(s.evaluations, *ev)
	n := len(s.evaluations)
	s.mu.Unlock()

	s.logger.Debug("Evaluation appended", zap.String("id", ev.ID), zap.Int("total", n))
	return nil
}

// List returns a copy of every evaluation in submission order.
func (s *MemoryStore) List(_ context.Context) ([]models.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Evaluation, len(s.evaluations))
	copy(out, s.evaluations)
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.evaluations), nil
}

func (s *MemoryStore) Close() error { return nil }
