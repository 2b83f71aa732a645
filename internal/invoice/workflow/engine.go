// Package workflow drives the validate → generate-document → notify pipeline.
// It is a fixed three-step sequence over an explicit state value: step failures
// are captured as data on the state and returned to the caller for display,
// never raised. The one exception is storage I/O, which escapes as a Go error
// because no step can recover from an unavailable store.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"intakeflow/internal/invoice/metrics"
	"intakeflow/internal/invoice/models"
)

// ErrCustomerIDRequired is the fatal validation message for a missing business key.
const ErrCustomerIDRequired = "Customer ID is required"

// DocumentGenerator renders the invoice document for a finished state and
// returns its file path. It must be idempotent per transaction ID: regenerating
// with the same ID overwrites the same file.
type DocumentGenerator interface {
	Generate(ctx context.Context, st *models.State) (string, error)
}

// Notifier delivers the document to the recipient. A false result with nil
// error is a soft failure (e.g. invalid address); an error is a transport
// failure. Callers must treat both as "not sent".
type Notifier interface {
	Send(ctx context.Context, recipient string, st *models.State, attachmentPath string) (bool, error)
}

// DuplicateChecker is the slice of the record store the validate step needs.
type DuplicateChecker interface {
	Exists(ctx context.Context, businessKey string) (bool, error)
}

// Engine runs the pipeline. One Engine serves many invocations; each State is
// owned by the single invocation that created it.
type Engine struct {
	keys     DuplicateChecker
	docs     DocumentGenerator
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the engine's time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(keys DuplicateChecker, docs DocumentGenerator, notifier Notifier, opts ...Option) (*Engine, error) {
	if keys == nil || docs == nil || notifier == nil {
		return nil, fmt.Errorf("duplicate checker, document generator and notifier are required")
	}
	e := &Engine{
		keys:     keys,
		docs:     docs,
		notifier: notifier,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ValidateStep checks the business key. A missing key is fatal and sets the
// state error; a key that already exists in the store is recorded as a
// duplicate but, by policy, does not halt the pipeline. The returned error is
// storage-level only.
func (e *Engine) ValidateStep(ctx context.Context, st *models.State) (*models.State, error) {
	if st.Customer.UniqueID == "" {
		st.Err = ErrCustomerIDRequired
		e.metrics.StepFailed("validate")
		return st, nil
	}

	dup, err := e.keys.Exists(ctx, st.Customer.UniqueID)
	if err != nil {
		return st, fmt.Errorf("duplicate check for %q: %w", st.Customer.UniqueID, err)
	}
	if dup {
		e.logger.WarnContext(ctx, "duplicate customer ID, proceeding",
			"customer_id", st.Customer.UniqueID)
	}

	st.Validation = &models.ValidationStatus{
		IsValid:     true,
		ValidatedAt: e.now(),
		Duplicate:   dup,
	}
	e.metrics.StepSucceeded("validate")
	return st, nil
}

// GenerateDocumentStep invokes the document adapter. Adapter failures become
// the state error and clear no prior status.
func (e *Engine) GenerateDocumentStep(ctx context.Context, st *models.State) *models.State {
	path, err := e.docs.Generate(ctx, st)
	if err != nil {
		st.Err = fmt.Sprintf("Invoice generation failed: %v", err)
		e.metrics.StepFailed("generate_document")
		return st
	}
	st.Document = &models.DocumentStatus{
		Generated:   true,
		GeneratedAt: e.now(),
		FilePath:    path,
	}
	e.metrics.StepSucceeded("generate_document")
	return st
}

// NotifyStep sends the generated document to the customer's email address.
func (e *Engine) NotifyStep(ctx context.Context, st *models.State) *models.State {
	var path string
	if st.Document != nil {
		path = st.Document.FilePath
	}
	sent, err := e.notifier.Send(ctx, st.Customer.Email, st, path)
	if err != nil {
		st.Err = fmt.Sprintf("Email notification failed: %v", err)
		e.metrics.StepFailed("notify")
		return st
	}
	st.Notification = &models.NotificationStatus{
		Sent:      sent,
		SentAt:    e.now(),
		Recipient: st.Customer.Email,
	}
	e.metrics.StepSucceeded("notify")
	return st
}

// Run executes the three steps in order with fail-fast semantics. Completed is
// set only when every step finished without a state error; a duplicate business
// key is not an error under the passthrough policy. The returned Go error is
// reserved for storage failures during validation.
func (e *Engine) Run(ctx context.Context, st *models.State) (*models.State, error) {
	st, err := e.ValidateStep(ctx, st)
	if err != nil {
		return st, err
	}
	if st.Err != "" {
		return st, nil
	}

	st = e.GenerateDocumentStep(ctx, st)
	if st.Err != "" {
		return st, nil
	}

	st = e.NotifyStep(ctx, st)
	if st.Err != "" {
		return st, nil
	}

	st.Completed = true
	e.metrics.IncrementWorkflowsCompleted()
	e.logger.InfoContext(ctx, "workflow completed",
		"customer_id", st.Customer.UniqueID,
		"transaction_id", st.Invoice.TransactionID,
		"recipient", st.Customer.Email,
	)
	return st, nil
}
