package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"intakeflow/internal/audit"
	"intakeflow/internal/invoice/models"
	"intakeflow/internal/invoice/store"
	"intakeflow/internal/invoice/workflow"
	"intakeflow/internal/notify"
	"intakeflow/pkg/derrors"
)

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, st *models.State) (string, error) {
	return "invoices/INV_" + st.Invoice.TransactionID + ".pdf", nil
}

type capturingPublisher struct {
	events []audit.Event
}

func (p *capturingPublisher) Publish(_ context.Context, e audit.Event) {
	p.events = append(p.events, e)
}

func newTestService(t *testing.T) (*Service, *store.InMemory, *notify.MemoryNotifier, *capturingPublisher) {
	t.Helper()
	recs := store.NewInMemory()
	notifier := notify.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine, err := workflow.New(recs, stubGenerator{}, notifier, workflow.WithLogger(logger))
	require.NoError(t, err)

	pub := &capturingPublisher{}
	svc, err := New(recs, engine,
		WithLogger(logger),
		WithAuditPublisher(pub),
		WithClock(func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)
	return svc, recs, notifier, pub
}

func validInput() SubmitInput {
	return SubmitInput{
		CustomerID:    "A1",
		TaxID:         "TX-99",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "a@x.com",
		Amount:        "100.0",
		Currency:      "USD",
		PaymentStatus: "Pending",
	}
}

func TestSubmitMintsInvoice(t *testing.T) {
	svc, recs, _, pub := newTestService(t)

	rec, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	require.NotEmpty(t, rec.Invoice.TransactionID)
	require.Equal(t, "2026-03-14", rec.Invoice.TransactionDate.Format("2006-01-02"))
	require.Equal(t, "2026-04-13", rec.Invoice.PaymentDueDate.Format("2006-01-02"), "due date is creation + 30 days")
	require.Equal(t, models.PaymentPending, rec.Invoice.PaymentStatus)

	stored, err := recs.Lookup(context.Background(), "A1")
	require.NoError(t, err)
	require.Equal(t, rec.Invoice.TransactionID, stored.Invoice.TransactionID)

	require.Len(t, pub.events, 1)
	require.Equal(t, audit.ActionRecordSaved, pub.events[0].Action)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*SubmitInput)
	}{
		{"missing customer ID", func(in *SubmitInput) { in.CustomerID = "" }},
		{"missing tax ID", func(in *SubmitInput) { in.TaxID = " " }},
		{"bad email", func(in *SubmitInput) { in.Email = "not-an-address" }},
		{"bad amount", func(in *SubmitInput) { in.Amount = "one hundred" }},
		{"negative amount", func(in *SubmitInput) { in.Amount = "-5" }},
		{"bad currency", func(in *SubmitInput) { in.Currency = "CHF" }},
		{"bad status", func(in *SubmitInput) { in.PaymentStatus = "settled" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Submit(ctx, in)
			require.Error(t, err)
			require.True(t, derrors.HasCode(err, derrors.CodeBadRequest), "want bad request, got %v", err)
		})
	}
}

func TestRunWorkflowEndToEnd(t *testing.T) {
	svc, _, notifier, pub := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)

	st, err := svc.RunWorkflow(ctx, "A1")
	require.NoError(t, err)

	require.True(t, st.Completed)
	require.Equal(t, "a@x.com", st.Notification.Recipient)
	require.Contains(t, st.Document.FilePath, rec.Invoice.TransactionID)

	deliveries := notifier.Deliveries()
	require.Len(t, deliveries, 1)
	require.Equal(t, "a@x.com", deliveries[0].Recipient)

	require.Equal(t, audit.ActionWorkflowDone, pub.events[len(pub.events)-1].Action)
}

func TestRunWorkflowUnknownCustomer(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.RunWorkflow(context.Background(), "missing")
	require.True(t, derrors.HasCode(err, derrors.CodeNotFound))
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, recs, _, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Submit(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePaymentStatus(ctx, rec.Invoice.TransactionID, "Paid"))

	stored, err := recs.Lookup(ctx, "A1")
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, stored.Invoice.PaymentStatus)

	err = svc.UpdatePaymentStatus(ctx, "no-such-tx", "paid")
	require.True(t, derrors.HasCode(err, derrors.CodeNotFound))
}
