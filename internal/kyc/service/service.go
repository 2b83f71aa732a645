// Package service fronts the KYC subsystem: accepting applications, assigning
// customer IDs, correcting records, moving status, and rendering the
// compliance document.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"intakeflow/internal/audit"
	"intakeflow/internal/kyc/identity"
	"intakeflow/internal/kyc/metrics"
	"intakeflow/internal/kyc/models"
	"intakeflow/internal/kyc/store"
	"intakeflow/pkg/derrors"
	"intakeflow/pkg/sentinel"
)

// DocumentGenerator renders the compliance PDF for one application.
type DocumentGenerator interface {
	Generate(ctx context.Context, app models.Application) (string, error)
}

type Service struct {
	apps      store.Store
	documents DocumentGenerator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   audit.Publisher
	now       func() time.Time
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

func New(apps store.Store, documents DocumentGenerator, opts ...Option) (*Service, error) {
	if apps == nil {
		return nil, fmt.Errorf("application store is required")
	}
	if documents == nil {
		return nil, fmt.Errorf("document generator is required")
	}
	s := &Service{
		apps:      apps,
		documents: documents,
		logger:    slog.Default(),
		auditor:   audit.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitInput carries the applicant's form values plus the declaration
// checkbox. The identity fields (kyc_id, customer_id, submission_date, status)
// are server-assigned and ignored if sent.
type SubmitInput struct {
	Application         models.Application `json:"application"`
	DeclarationAccepted bool               `json:"declaration_accepted"`
}

// Submit validates the form, rejects applicants who already hold a customer
// ID, assigns the next sequential ID for the current year, and appends the
// application as Pending.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (models.Application, error) {
	if !in.DeclarationAccepted {
		return models.Application{}, derrors.New(derrors.CodeBadRequest, "the declaration must be accepted")
	}
	app := in.Application
	app.KYCID = ""
	app.CustomerID = ""
	app.SubmissionDate = ""
	app.Status = models.StatusPending
	if err := models.Validate(app); err != nil {
		return models.Application{}, err
	}

	existing, err := s.apps.All(ctx)
	if err != nil {
		return models.Application{}, derrors.Wrap(err, derrors.CodeInternal, "failed to load applications")
	}
	if id, dup := identity.FindDuplicate(existing, identity.KeyOf(app)); dup {
		s.metrics.IncrementDuplicatesRejected()
		s.logger.WarnContext(ctx, "duplicate applicant rejected", "existing_customer_id", id)
		return models.Application{}, derrors.Newf(derrors.CodeConflict,
			"applicant already registered under customer ID %s", id)
	}

	ids := make([]string, 0, len(existing))
	for _, a := range existing {
		ids = append(ids, a.CustomerID)
	}
	now := s.now()
	customerID, err := identity.NextCustomerID(ids, now.Year())
	if err != nil {
		return models.Application{}, derrors.Wrap(err, derrors.CodeInternal, "failed to assign customer ID")
	}

	app.KYCID = uuid.NewString()
	app.CustomerID = customerID
	app.SubmissionDate = now.Format("2006-01-02")

	if err := s.apps.Append(ctx, app); err != nil {
		return models.Application{}, derrors.Wrap(err, derrors.CodeInternal, "failed to save application")
	}
	s.metrics.IncrementSubmissions()
	s.auditor.Publish(ctx, audit.Event{
		Action:  audit.ActionKYCSubmitted,
		Subject: app.CustomerID,
	})
	s.logger.InfoContext(ctx, "kyc application submitted",
		"customer_id", app.CustomerID,
		"kyc_id", app.KYCID,
	)
	return app, nil
}

// Get returns the application assigned the customer ID.
func (s *Service) Get(ctx context.Context, customerID string) (models.Application, error) {
	app, err := s.apps.ByCustomerID(ctx, customerID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Application{}, derrors.Newf(derrors.CodeNotFound, "customer %q not found", customerID)
	}
	if err != nil {
		return models.Application{}, derrors.Wrap(err, derrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// Update corrects the form fields of an existing application. The assigned
// identity (kyc_id, customer_id, submission_date) and the status survive the
// correction; status moves only through SetStatus.
func (s *Service) Update(ctx context.Context, customerID string, updated models.Application) (models.Application, error) {
	current, err := s.Get(ctx, customerID)
	if err != nil {
		return models.Application{}, err
	}

	updated.KYCID = current.KYCID
	updated.CustomerID = current.CustomerID
	updated.SubmissionDate = current.SubmissionDate
	updated.Status = current.Status
	if err := models.Validate(updated); err != nil {
		return models.Application{}, err
	}

	n, err := s.apps.UpdateWhere(ctx,
		func(app models.Application) bool { return app.CustomerID == customerID },
		func(app *models.Application) { *app = updated },
	)
	if err != nil {
		return models.Application{}, derrors.Wrap(err, derrors.CodeInternal, "failed to update application")
	}
	if n == 0 {
		return models.Application{}, derrors.Newf(derrors.CodeNotFound, "customer %q not found", customerID)
	}
	s.auditor.Publish(ctx, audit.Event{
		Action:  audit.ActionKYCUpdated,
		Subject: customerID,
	})
	s.logger.InfoContext(ctx, "kyc application updated", "customer_id", customerID)
	return updated, nil
}

// Search returns applications whose values contain the query, matched
// case-insensitively across every form field. An empty query returns all.
func (s *Service) Search(ctx context.Context, query string) ([]models.Application, error) {
	apps, err := s.apps.All(ctx)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to list applications")
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return apps, nil
	}
	var matched []models.Application
	for _, app := range apps {
		for _, v := range app.Values() {
			if strings.Contains(strings.ToLower(v), query) {
				matched = append(matched, app)
				break
			}
		}
	}
	return matched, nil
}

// SetStatus moves an application to the given status.
func (s *Service) SetStatus(ctx context.Context, customerID, status string) (models.Application, error) {
	parsed, err := models.ParseStatus(status)
	if err != nil {
		return models.Application{}, err
	}
	n, err := s.apps.UpdateWhere(ctx,
		func(app models.Application) bool { return app.CustomerID == customerID },
		func(app *models.Application) { app.Status = parsed },
	)
	if err != nil {
		return models.Application{}, derrors.Wrap(err, derrors.CodeInternal, "failed to update status")
	}
	if n == 0 {
		return models.Application{}, derrors.Newf(derrors.CodeNotFound, "customer %q not found", customerID)
	}
	s.metrics.StatusChanged(string(parsed))
	s.auditor.Publish(ctx, audit.Event{
		Action:  audit.ActionKYCStatusChanged,
		Subject: customerID,
		Detail:  string(parsed),
	})
	s.logger.InfoContext(ctx, "kyc status changed",
		"customer_id", customerID,
		"status", parsed,
	)
	return s.Get(ctx, customerID)
}

// GenerateDocument renders the compliance PDF for a completed application and
// returns the file path. Applications in any other status are refused.
func (s *Service) GenerateDocument(ctx context.Context, customerID string) (string, error) {
	app, err := s.Get(ctx, customerID)
	if err != nil {
		return "", err
	}
	if app.Status != models.StatusCompleted {
		return "", derrors.Newf(derrors.CodeConflict,
			"customer %s is %s; the compliance document requires Completed status", customerID, app.Status)
	}
	path, err := s.documents.Generate(ctx, app)
	if err != nil {
		return "", derrors.Wrap(err, derrors.CodeInternal, "failed to render compliance document")
	}
	s.metrics.IncrementDocumentsRendered()
	s.auditor.Publish(ctx, audit.Event{
		Action:  audit.ActionKYCDocumentReady,
		Subject: customerID,
		Detail:  path,
	})
	s.logger.InfoContext(ctx, "compliance document rendered",
		"customer_id", customerID,
		"path", path,
	)
	return path, nil
}
