package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"intakeflow/internal/kyc/models"
	"intakeflow/pkg/sentinel"
)

// CSVStore keeps KYC applications in a flat CSV file.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSV opens (or creates, with headers) the KYC file at path.
func NewCSV(path string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &CSVStore{path: path}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.writeAll(nil); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVStore) ByCustomerID(_ context.Context, customerID string) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.readAll()
	if err != nil {
		return models.Application{}, err
	}
	for i := len(apps) - 1; i >= 0; i-- {
		if apps[i].CustomerID == customerID {
			return apps[i], nil
		}
	}
	return models.Application{}, sentinel.ErrNotFound
}

func (s *CSVStore) Append(_ context.Context, app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open kyc file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encodeApplication(app)); err != nil {
		return fmt.Errorf("append kyc row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append kyc row: %w", err)
	}
	return nil
}

func (s *CSVStore) UpdateWhere(_ context.Context, pred Predicate, apply Apply) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.readAll()
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range apps {
		if pred(apps[i]) {
			apply(&apps[i])
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := s.writeAll(apps); err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *CSVStore) All(_ context.Context) ([]models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *CSVStore) readAll() ([]models.Application, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open kyc file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read kyc file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	apps := make([]models.Application, 0, len(rows)-1)
	for _, row := range rows[1:] {
		app, err := decodeApplication(row)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}

func (s *CSVStore) writeAll(apps []models.Application) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write kyc file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("write kyc header: %w", err)
	}
	for _, app := range apps {
		if err := w.Write(encodeApplication(app)); err != nil {
			return fmt.Errorf("write kyc row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write kyc file: %w", err)
	}
	return nil
}

func encodeApplication(app models.Application) []string {
	values := app.Values()
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = values[col]
	}
	return row
}

func decodeApplication(row []string) (models.Application, error) {
	if len(row) != len(Columns) {
		return models.Application{}, fmt.Errorf("kyc row has %d columns, want %d", len(row), len(Columns))
	}
	var app models.Application
	for i, col := range Columns {
		if err := app.SetValue(col, row[i]); err != nil {
			return models.Application{}, fmt.Errorf("column %s: %w", col, err)
		}
	}
	return app, nil
}
