package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"intakeflow/internal/invoice/models"
	"intakeflow/pkg/sentinel"
)

const dateLayout = "2006-01-02"

// columns is the fixed column order assumed by every reader and writer of the
// invoice file. The medium itself enforces no schema.
var columns = []string{
	"cust_unique_id", "cust_tax_id", "cust_fname", "cust_lname",
	"cust_email", "transaction_id", "transaction_date",
	"billed_amount", "currency", "payment_due_date", "payment_status",
}

// CSVStore keeps invoice rows in a flat CSV file. Access is serialized with a
// mutex; the read-modify-write in UpdateWhere is still racy across processes,
// which the single-writer deployment model accepts.
type CSVStore struct {
	mu   sync.Mutex
	path string
}

// NewCSV opens (or creates, with headers) the invoice file at path.
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

func (s *CSVStore) Lookup(_ context.Context, businessKey string) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return models.Record{}, err
	}
	found := false
	var latest models.Record
	for _, rec := range recs {
		if rec.Customer.UniqueID == businessKey {
			latest = rec
			found = true
		}
	}
	if !found {
		return models.Record{}, sentinel.ErrNotFound
	}
	return latest, nil
}

func (s *CSVStore) Append(_ context.Context, rec models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open invoice file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encodeRecord(rec)); err != nil {
		return fmt.Errorf("append invoice row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append invoice row: %w", err)
	}
	return nil
}

func (s *CSVStore) UpdateWhere(_ context.Context, pred Predicate, apply Apply) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range recs {
		if pred(recs[i]) {
			apply(&recs[i])
			updated++
		}
	}
	if updated == 0 {
		return 0, nil
	}
	if err := s.writeAll(recs); err != nil {
		return 0, err
	}
	return updated, nil
}

func (s *CSVStore) Exists(ctx context.Context, businessKey string) (bool, error) {
	_, err := s.Lookup(ctx, businessKey)
	if err == sentinel.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *CSVStore) All(_ context.Context) ([]models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAll()
}

func (s *CSVStore) readAll() ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open invoice file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read invoice file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	recs := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] { // skip header
		rec, err := decodeRecord(row)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *CSVStore) writeAll(recs []models.Record) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write invoice file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write invoice header: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write(encodeRecord(rec)); err != nil {
			return fmt.Errorf("write invoice row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write invoice file: %w", err)
	}
	return nil
}

func encodeRecord(rec models.Record) []string {
	return []string{
		rec.Customer.UniqueID,
		rec.Customer.TaxID,
		rec.Customer.FirstName,
		rec.Customer.LastName,
		rec.Customer.Email,
		rec.Invoice.TransactionID,
		rec.Invoice.TransactionDate.Format(dateLayout),
		rec.Invoice.BilledAmount.String(),
		string(rec.Invoice.Currency),
		rec.Invoice.PaymentDueDate.Format(dateLayout),
		string(rec.Invoice.PaymentStatus),
	}
}

func decodeRecord(row []string) (models.Record, error) {
	if len(row) != len(columns) {
		return models.Record{}, fmt.Errorf("invoice row has %d columns, want %d", len(row), len(columns))
	}
	amount, err := decimal.NewFromString(row[7])
	if err != nil {
		return models.Record{}, fmt.Errorf("parse billed amount %q: %w", row[7], err)
	}
	txDate, err := time.Parse(dateLayout, row[6])
	if err != nil {
		return models.Record{}, fmt.Errorf("parse transaction date %q: %w", row[6], err)
	}
	dueDate, err := time.Parse(dateLayout, row[9])
	if err != nil {
		return models.Record{}, fmt.Errorf("parse due date %q: %w", row[9], err)
	}
	return models.Record{
		Customer: models.Customer{
			UniqueID:  row[0],
			TaxID:     row[1],
			FirstName: row[2],
			LastName:  row[3],
			Email:     row[4],
		},
		Invoice: models.Invoice{
			TransactionID:   row[5],
			TransactionDate: txDate,
			BilledAmount:    amount,
			Currency:        models.Currency(row[8]),
			PaymentDueDate:  dueDate,
			PaymentStatus:   models.PaymentStatus(row[10]),
		},
	}, nil
}
