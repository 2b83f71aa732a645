package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	_ "github.com/lib/pq"

	"intakeflow/internal/invoice/models"
	"intakeflow/pkg/sentinel"
)

// PostgresStore persists invoice rows in PostgreSQL. The serial id column
// stands in for physical file order so last-write-wins lookups stay faithful
// to the flat-file contract. This store is pure I/O; validation and identity
// rules live in the services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store and ensures the
// schema exists.
func NewPostgres(db *sql.DB) (*PostgresStore, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS invoice_records (
			id               BIGSERIAL PRIMARY KEY,
			cust_unique_id   TEXT NOT NULL,
			cust_tax_id      TEXT NOT NULL DEFAULT '',
			cust_fname       TEXT NOT NULL DEFAULT '',
			cust_lname       TEXT NOT NULL DEFAULT '',
			cust_email       TEXT NOT NULL DEFAULT '',
			transaction_id   TEXT NOT NULL,
			transaction_date DATE NOT NULL,
			billed_amount    NUMERIC(18,2) NOT NULL,
			currency         TEXT NOT NULL,
			payment_due_date DATE NOT NULL,
			payment_status   TEXT NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("ensure invoice_records schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

const recordColumns = `cust_unique_id, cust_tax_id, cust_fname, cust_lname, cust_email,
	transaction_id, transaction_date, billed_amount, currency, payment_due_date, payment_status`

func (s *PostgresStore) Lookup(ctx context.Context, businessKey string) (models.Record, error) {
	query := `SELECT ` + recordColumns + `
		FROM invoice_records WHERE cust_unique_id = $1
		ORDER BY id DESC LIMIT 1`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, businessKey))
	if err == sql.ErrNoRows {
		return models.Record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.Record{}, fmt.Errorf("lookup invoice record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec models.Record) error {
	query := `INSERT INTO invoice_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.db.ExecContext(ctx, query,
		rec.Customer.UniqueID, rec.Customer.TaxID, rec.Customer.FirstName,
		rec.Customer.LastName, rec.Customer.Email,
		rec.Invoice.TransactionID, rec.Invoice.TransactionDate,
		rec.Invoice.BilledAmount.String(), string(rec.Invoice.Currency),
		rec.Invoice.PaymentDueDate, string(rec.Invoice.PaymentStatus),
	)
	if err != nil {
		return fmt.Errorf("append invoice record: %w", err)
	}
	return nil
}

// UpdateWhere evaluates the predicate client-side so the contract matches the
// flat-file store exactly, then overwrites matching rows by id.
func (s *PostgresStore) UpdateWhere(ctx context.Context, pred Predicate, apply Apply) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, `+recordColumns+` FROM invoice_records ORDER BY id`)
	if err != nil {
		return 0, fmt.Errorf("scan invoice records: %w", err)
	}
	defer rows.Close()

	type matched struct {
		id  int64
		rec models.Record
	}
	var targets []matched
	for rows.Next() {
		var id int64
		rec, err := scanRecordWithID(rows, &id)
		if err != nil {
			return 0, fmt.Errorf("scan invoice record: %w", err)
		}
		if pred(rec) {
			apply(&rec)
			targets = append(targets, matched{id: id, rec: rec})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("scan invoice records: %w", err)
	}

	for _, t := range targets {
		_, err := s.db.ExecContext(ctx, `
			UPDATE invoice_records SET
				cust_unique_id = $1, cust_tax_id = $2, cust_fname = $3, cust_lname = $4,
				cust_email = $5, transaction_id = $6, transaction_date = $7,
				billed_amount = $8, currency = $9, payment_due_date = $10, payment_status = $11
			WHERE id = $12`,
			t.rec.Customer.UniqueID, t.rec.Customer.TaxID, t.rec.Customer.FirstName,
			t.rec.Customer.LastName, t.rec.Customer.Email,
			t.rec.Invoice.TransactionID, t.rec.Invoice.TransactionDate,
			t.rec.Invoice.BilledAmount.String(), string(t.rec.Invoice.Currency),
			t.rec.Invoice.PaymentDueDate, string(t.rec.Invoice.PaymentStatus),
			t.id,
		)
		if err != nil {
			return 0, fmt.Errorf("update invoice record %d: %w", t.id, err)
		}
	}
	return len(targets), nil
}

func (s *PostgresStore) Exists(ctx context.Context, businessKey string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM invoice_records WHERE cust_unique_id = $1)`, businessKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice record exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM invoice_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list invoice records: %w", err)
	}
	defer rows.Close()

	var recs []models.Record
	for rows.Next() {
		rec, err := scanRecordWithID(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan invoice record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoice records: %w", err)
	}
	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var rec models.Record
	var amount, currency, status string
	err := row.Scan(
		&rec.Customer.UniqueID, &rec.Customer.TaxID, &rec.Customer.FirstName,
		&rec.Customer.LastName, &rec.Customer.Email,
		&rec.Invoice.TransactionID, &rec.Invoice.TransactionDate,
		&amount, &currency, &rec.Invoice.PaymentDueDate, &status,
	)
	if err != nil {
		return models.Record{}, err
	}
	return finishRecord(rec, amount, currency, status)
}

func scanRecordWithID(rows *sql.Rows, id *int64) (models.Record, error) {
	var rec models.Record
	var amount, currency, status string
	dest := []any{
		&rec.Customer.UniqueID, &rec.Customer.TaxID, &rec.Customer.FirstName,
		&rec.Customer.LastName, &rec.Customer.Email,
		&rec.Invoice.TransactionID, &rec.Invoice.TransactionDate,
		&amount, &currency, &rec.Invoice.PaymentDueDate, &status,
	}
	if id != nil {
		dest = append([]any{id}, dest...)
	}
	if err := rows.Scan(dest...); err != nil {
		return models.Record{}, err
	}
	return finishRecord(rec, amount, currency, status)
}

func finishRecord(rec models.Record, amount, currency, status string) (models.Record, error) {
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Record{}, fmt.Errorf("parse billed amount %q: %w", amount, err)
	}
	rec.Invoice.BilledAmount = parsed
	rec.Invoice.Currency = models.Currency(currency)
	rec.Invoice.PaymentStatus = models.PaymentStatus(status)
	return rec, nil
}
