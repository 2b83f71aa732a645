package store

import (
	"context"
	"sync"

	"intakeflow/internal/invoice/models"
	"intakeflow/pkg/sentinel"
)

// InMemory keeps rows in a slice to mirror the append-only file exactly.
// It intentionally favors clarity over performance.
type InMemory struct {
	mu   sync.RWMutex
	rows []models.Record
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Lookup(_ context.Context, businessKey string) (models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Last write wins: scan from the tail.
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].Customer.UniqueID == businessKey {
			return s.rows[i], nil
		}
	}
	return models.Record{}, sentinel.ErrNotFound
}

func (s *InMemory) Append(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rec)
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

func (s *InMemory) Exists(_ context.Context, businessKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.rows {
		if rec.Customer.UniqueID == businessKey {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemory) All(_ context.Context) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.rows))
	copy(out, s.rows)
	return out, nil
}
