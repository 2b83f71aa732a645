package store

import (
	"context"
	"sync"

	"intakeflow/internal/kyc/models"
	"intakeflow/pkg/sentinel"
)

// InMemory mirrors the append-only file in a slice.
type InMemory struct {
	mu   sync.RWMutex
	rows []models.Application
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) ByCustomerID(_ context.Context, customerID string) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].CustomerID == customerID {
			return s.rows[i], nil
		}
	}
	return models.Application{}, sentinel.ErrNotFound
}

func (s *InMemory) Append(_ context.Context, app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, app)
	return nil
}

func (s *InMemory) UpdateWhere(_ context.Context, pred Predicate, apply Apply) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for i := range s.rows {
		if pred(s.rows[i]) {
			apply(&s.rows[i])
			updated++
		}
	}
	return updated, nil
}

func (s *InMemory) All(_ context.Context) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Application, len(s.rows))
	copy(out, s.rows)
	return out, nil
}
