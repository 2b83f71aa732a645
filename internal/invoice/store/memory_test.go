package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"intakeflow/internal/invoice/models"
	"intakeflow/pkg/sentinel"
)

func testRecord(customerID string, amount float64) models.Record {
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	return models.Record{
		Customer: models.Customer{
			UniqueID:  customerID,
			TaxID:     "TX-1",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "a@x.com",
		},
		Invoice: models.Invoice{
			TransactionID:   uuid.NewString(),
			TransactionDate: day,
			BilledAmount:    decimal.NewFromFloat(amount),
			Currency:        models.CurrencyUSD,
			PaymentDueDate:  day.AddDate(0, 0, models.PaymentTermDays),
			PaymentStatus:   models.PaymentPending,
		},
	}
}

type RecordStoreSuite struct {
	suite.Suite
	store RecordStore
	ctx   context.Context
}

func (s *RecordStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestRecordStoreSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreSuite))
}

// TestAppendAndLookup verifies append order and last-write-wins lookups.
func (s *RecordStoreSuite) TestAppendAndLookup() {
	s.Run("returns ErrNotFound for unknown key", func() {
		_, err := s.store.Lookup(s.ctx, "ghost")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("finds an appended record", func() {
		rec := testRecord("A1", 100)
		s.Require().NoError(s.store.Append(s.ctx, rec))

		found, err := s.store.Lookup(s.ctx, "A1")
		s.Require().NoError(err)
		s.Equal(rec.Invoice.TransactionID, found.Invoice.TransactionID)
	})

	s.Run("last row wins when keys repeat", func() {
		first := testRecord("A2", 100)
		second := testRecord("A2", 250)
		s.Require().NoError(s.store.Append(s.ctx, first))
		s.Require().NoError(s.store.Append(s.ctx, second))

		found, err := s.store.Lookup(s.ctx, "A2")
		s.Require().NoError(err)
		s.Equal(second.Invoice.TransactionID, found.Invoice.TransactionID)
		s.True(found.Invoice.BilledAmount.Equal(decimal.NewFromInt(250)))
	})
}

func (s *RecordStoreSuite) TestExists() {
	ok, err := s.store.Exists(s.ctx, "A1")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Append(s.ctx, testRecord("A1", 100)))

	ok, err = s.store.Exists(s.ctx, "A1")
	s.Require().NoError(err)
	s.True(ok)
}

// TestUpdateWhere verifies in-place overwrite without row loss.
func (s *RecordStoreSuite) TestUpdateWhere() {
	first := testRecord("A1", 100)
	second := testRecord("A2", 200)
	s.Require().NoError(s.store.Append(s.ctx, first))
	s.Require().NoError(s.store.Append(s.ctx, second))

	n, err := s.store.UpdateWhere(s.ctx,
		func(rec models.Record) bool { return rec.Invoice.TransactionID == second.Invoice.TransactionID },
		func(rec *models.Record) { rec.Invoice.PaymentStatus = models.PaymentPaid },
	)
	s.Require().NoError(err)
	s.Equal(1, n)

	all, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2, "update must never delete rows")
	s.Equal(models.PaymentPending, all[0].Invoice.PaymentStatus)
	s.Equal(models.PaymentPaid, all[1].Invoice.PaymentStatus)

	n, err = s.store.UpdateWhere(s.ctx,
		func(models.Record) bool { return false },
		func(*models.Record) {},
	)
	s.Require().NoError(err)
	s.Zero(n)
}
