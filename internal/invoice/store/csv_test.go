package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"intakeflow/internal/invoice/models"
)

// CSVStoreSuite reruns the record store contract against the flat file.
type CSVStoreSuite struct {
	RecordStoreSuite
	path string
}

func (s *CSVStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "cust_file.csv")
	cs, err := NewCSV(s.path)
	s.Require().NoError(err)
	s.store = cs
	s.ctx = context.Background()
}

func TestCSVStoreSuite(t *testing.T) {
	suite.Run(t, new(CSVStoreSuite))
}

func (s *CSVStoreSuite) TestCreatesFileWithHeader() {
	raw, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	s.Equal(strings.Join(columns, ","), strings.TrimSpace(string(raw)))
}

// TestRoundTripThroughFile reopens the file to prove rows survive a restart.
func (s *CSVStoreSuite) TestRoundTripThroughFile() {
	rec := testRecord("A1", 1234.5)
	s.Require().NoError(s.store.Append(s.ctx, rec))

	reopened, err := NewCSV(s.path)
	s.Require().NoError(err)

	found, err := reopened.Lookup(s.ctx, "A1")
	s.Require().NoError(err)
	s.Equal(rec.Invoice.TransactionID, found.Invoice.TransactionID)
	s.True(found.Invoice.BilledAmount.Equal(decimal.NewFromFloat(1234.5)))
	s.Equal("2026-02-01", found.Invoice.TransactionDate.Format("2006-01-02"))
	s.Equal(models.CurrencyUSD, found.Invoice.Currency)
}

func (s *CSVStoreSuite) TestUpdatePersistsToFile() {
	rec := testRecord("A1", 100)
	s.Require().NoError(s.store.Append(s.ctx, rec))

	n, err := s.store.UpdateWhere(s.ctx,
		func(r models.Record) bool { return r.Customer.UniqueID == "A1" },
		func(r *models.Record) { r.Invoice.PaymentStatus = models.PaymentOverdue },
	)
	s.Require().NoError(err)
	s.Equal(1, n)

	reopened, err := NewCSV(s.path)
	s.Require().NoError(err)
	found, err := reopened.Lookup(s.ctx, "A1")
	s.Require().NoError(err)
	s.Equal(models.PaymentOverdue, found.Invoice.PaymentStatus)
}
