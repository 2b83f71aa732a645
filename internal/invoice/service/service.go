package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"intakeflow/internal/audit"
	"intakeflow/internal/invoice/metrics"
	"intakeflow/internal/invoice/models"
	"intakeflow/internal/invoice/store"
	"intakeflow/internal/invoice/workflow"
	"intakeflow/pkg/derrors"
	"intakeflow/pkg/sentinel"
)

// Service fronts the invoice intake flow: submitting records, looking up
// customers, mutating payment status, and driving the workflow engine.
type Service struct {
	records store.RecordStore
	engine  *workflow.Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor audit.Publisher
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(records store.RecordStore, engine *workflow.Engine, opts ...Option) (*Service, error) {
	if records == nil {
		return nil, fmt.Errorf("record store is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("workflow engine is required")
	}
	s := &Service{
		records: records,
		engine:  engine,
		logger:  slog.Default(),
		auditor: audit.NopPublisher{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitInput is one form submission. Amount arrives as a string because that
// is what the form carries; parsing failures are validation errors.
type SubmitInput struct {
	CustomerID    string `json:"cust_unique_id"`
	TaxID         string `json:"cust_tax_id"`
	FirstName     string `json:"cust_fname"`
	LastName      string `json:"cust_lname"`
	Email         string `json:"cust_email"`
	Amount        string `json:"billed_amount"`
	Currency      string `json:"currency"`
	PaymentStatus string `json:"payment_status"`
}

// Submit validates the input, mints the invoice (transaction ID, dates) and
// appends the record to the store. The workflow is driven separately via
// RunWorkflow, matching the original two-button flow.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (models.Record, error) {
	rec, err := s.buildRecord(in)
	if err != nil {
		return models.Record{}, err
	}

	if err := s.records.Append(ctx, rec); err != nil {
		return models.Record{}, derrors.Wrap(err, derrors.CodeInternal, "failed to save record")
	}
	s.metrics.IncrementRecordsSaved()
	s.auditor.Publish(ctx, audit.Event{
		Action:  audit.ActionRecordSaved,
		Subject: rec.Customer.UniqueID,
		Detail:  "transaction " + rec.Invoice.TransactionID,
	})
	s.logger.InfoContext(ctx, "record saved",
		"customer_id", rec.Customer.UniqueID,
		"transaction_id", rec.Invoice.TransactionID,
	)
	return rec, nil
}

func (s *Service) buildRecord(in SubmitInput) (models.Record, error) {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	if in.CustomerID == "" {
		return models.Record{}, derrors.New(derrors.CodeBadRequest, workflow.ErrCustomerIDRequired)
	}
	if strings.TrimSpace(in.TaxID) == "" {
		return models.Record{}, derrors.New(derrors.CodeBadRequest, "Tax ID is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return models.Record{}, derrors.New(derrors.CodeBadRequest, "a valid email address is required")
	}

	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return models.Record{}, derrors.Newf(derrors.CodeBadRequest, "invalid amount %q", in.Amount)
	}
	currency, err := models.ParseCurrency(in.Currency)
	if err != nil {
		return models.Record{}, err
	}
	status, err := models.ParsePaymentStatus(strings.ToLower(in.PaymentStatus))
	if err != nil {
		return models.Record{}, err
	}

	inv, err := models.NewInvoice(amount, currency, status, s.now())
	if err != nil {
		return models.Record{}, err
	}
	return models.Record{
		Customer: models.Customer{
			UniqueID:  in.CustomerID,
			TaxID:     strings.TrimSpace(in.TaxID),
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     in.Email,
		},
		Invoice: inv,
	}, nil
}

// RunWorkflow is the caller-facing workflow entry point: it loads the most
// recent record for the customer and runs validate → generate → notify over it.
// Step failures come back as data on the state; only storage failures error.
func (s *Service) RunWorkflow(ctx context.Context, customerID string) (*models.State, error) {
	rec, err := s.records.Lookup(ctx, customerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, derrors.Newf(derrors.CodeNotFound, "customer %q not found", customerID)
	}
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to load record")
	}

	st, err := s.engine.Run(ctx, models.NewState(rec))
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "workflow storage failure")
	}

	action := audit.ActionWorkflowDone
	if st.Err != "" {
		action = audit.ActionWorkflowFailed
	}
	s.auditor.Publish(ctx, audit.Event{
		Action:  action,
		Subject: rec.Customer.UniqueID,
		Detail:  st.Err,
	})
	return st, nil
}

// Search returns the most recent record for a business key.
func (s *Service) Search(ctx context.Context, customerID string) (models.Record, error) {
	rec, err := s.records.Lookup(ctx, customerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Record{}, derrors.Newf(derrors.CodeNotFound, "customer %q not found", customerID)
	}
	if err != nil {
		return models.Record{}, derrors.Wrap(err, derrors.CodeInternal, "failed to load record")
	}
	return rec, nil
}

// UpdatePaymentStatus overwrites the payment status of every row carrying the
// transaction ID.
func (s *Service) UpdatePaymentStatus(ctx context.Context, transactionID, status string) error {
	parsed, err := models.ParsePaymentStatus(strings.ToLower(status))
	if err != nil {
		return err
	}
	n, err := s.records.UpdateWhere(ctx,
		func(rec models.Record) bool { return rec.Invoice.TransactionID == transactionID },
		func(rec *models.Record) { rec.Invoice.PaymentStatus = parsed },
	)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeInternal, "failed to update payment status")
	}
	if n == 0 {
		return derrors.Newf(derrors.CodeNotFound, "transaction %q not found", transactionID)
	}
	return nil
}

// List returns every stored record in append order.
func (s *Service) List(ctx context.Context) ([]models.Record, error) {
	recs, err := s.records.All(ctx)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to list records")
	}
	return recs, nil
}
