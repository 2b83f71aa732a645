package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"intakeflow/internal/invoice/models"
	"intakeflow/internal/invoice/store"
)

type fakeGenerator struct {
	calls int
	fail  error
}

func (g *fakeGenerator) Generate(_ context.Context, st *models.State) (string, error) {
	g.calls++
	if g.fail != nil {
		return "", g.fail
	}
	return "invoices/INV_" + st.Invoice.TransactionID + ".pdf", nil
}

type fakeNotifier struct {
	calls    int
	softFail bool
	fail     error
	lastPath string
}

func (n *fakeNotifier) Send(_ context.Context, _ string, _ *models.State, path string) (bool, error) {
	n.calls++
	n.lastPath = path
	if n.fail != nil {
		return false, n.fail
	}
	return !n.softFail, nil
}

func newTestEngine(t *testing.T, keys DuplicateChecker, docs *fakeGenerator, notifier *fakeNotifier) *Engine {
	t.Helper()
	e, err := New(keys, docs, notifier, WithClock(func() time.Time {
		return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	}))
	require.NoError(t, err)
	return e
}

func newState(customerID, email string) *models.State {
	inv, _ := models.NewInvoice(decimal.NewFromFloat(100.0), models.CurrencyUSD, models.PaymentPending, time.Now())
	return models.NewState(models.Record{
		Customer: models.Customer{UniqueID: customerID, Email: email},
		Invoice:  inv,
	})
}

func TestRunMissingCustomerIDIsFatal(t *testing.T) {
	docs := &fakeGenerator{}
	notifier := &fakeNotifier{}
	e := newTestEngine(t, store.NewInMemory(), docs, notifier)

	st, err := e.Run(context.Background(), newState("", "a@x.com"))
	require.NoError(t, err)

	require.Equal(t, "Customer ID is required", st.Err)
	require.False(t, st.Completed)
	require.Nil(t, st.Document)
	require.Nil(t, st.Notification)
	require.Zero(t, docs.calls, "document adapter must not run after fatal validation error")
	require.Zero(t, notifier.calls)
}

func TestRunDuplicateKeyProceeds(t *testing.T) {
	recs := store.NewInMemory()
	st := newState("A1", "a@x.com")
	require.NoError(t, recs.Append(context.Background(), st.Record()))

	docs := &fakeGenerator{}
	notifier := &fakeNotifier{}
	e := newTestEngine(t, recs, docs, notifier)

	out, err := e.Run(context.Background(), newState("A1", "a@x.com"))
	require.NoError(t, err)

	require.Empty(t, out.Err)
	require.NotNil(t, out.Validation)
	require.True(t, out.Validation.Duplicate)
	require.True(t, out.Completed)
	require.Equal(t, 1, docs.calls, "duplicate key is non-fatal and must not halt the pipeline")
}

func TestRunHappyPath(t *testing.T) {
	docs := &fakeGenerator{}
	notifier := &fakeNotifier{}
	e := newTestEngine(t, store.NewInMemory(), docs, notifier)

	st := newState("A1", "a@x.com")
	out, err := e.Run(context.Background(), st)
	require.NoError(t, err)

	require.True(t, out.Completed)
	require.Empty(t, out.Err)
	require.NotNil(t, out.Validation)
	require.True(t, out.Validation.IsValid)
	require.NotNil(t, out.Document)
	require.Contains(t, out.Document.FilePath, st.Invoice.TransactionID)
	require.NotNil(t, out.Notification)
	require.True(t, out.Notification.Sent)
	require.Equal(t, "a@x.com", out.Notification.Recipient)
	require.Equal(t, out.Document.FilePath, notifier.lastPath)
}

func TestRunGenerationFailureHaltsBeforeNotify(t *testing.T) {
	docs := &fakeGenerator{fail: errors.New("render: out of disk")}
	notifier := &fakeNotifier{}
	e := newTestEngine(t, store.NewInMemory(), docs, notifier)

	out, err := e.Run(context.Background(), newState("A1", "a@x.com"))
	require.NoError(t, err)

	require.Equal(t, "Invoice generation failed: render: out of disk", out.Err)
	require.False(t, out.Completed)
	require.Nil(t, out.Document)
	require.Zero(t, notifier.calls)
	// A generation failure must not clear the validation status.
	require.NotNil(t, out.Validation)
}

func TestRunDeliveryFailureKeepsDocument(t *testing.T) {
	docs := &fakeGenerator{}
	notifier := &fakeNotifier{fail: errors.New("smtp: connection refused")}
	e := newTestEngine(t, store.NewInMemory(), docs, notifier)

	out, err := e.Run(context.Background(), newState("A1", "a@x.com"))
	require.NoError(t, err)

	require.Equal(t, "Email notification failed: smtp: connection refused", out.Err)
	require.False(t, out.Completed)
	// The generated document is not rolled back.
	require.NotNil(t, out.Document)
	require.True(t, out.Document.Generated)
}

func TestRunSoftDeliveryFailureCompletes(t *testing.T) {
	docs := &fakeGenerator{}
	notifier := &fakeNotifier{softFail: true}
	e := newTestEngine(t, store.NewInMemory(), docs, notifier)

	out, err := e.Run(context.Background(), newState("A1", "bad-address"))
	require.NoError(t, err)

	require.Empty(t, out.Err)
	require.True(t, out.Completed)
	require.NotNil(t, out.Notification)
	require.False(t, out.Notification.Sent, "soft failure must surface as not sent")
}

type failingChecker struct{ err error }

func (c failingChecker) Exists(context.Context, string) (bool, error) { return false, c.err }

func TestRunStorageErrorEscapes(t *testing.T) {
	storageErr := errors.New("read invoice file: input/output error")
	docs := &fakeGenerator{}
	notifier := &fakeNotifier{}
	e := newTestEngine(t, failingChecker{err: storageErr}, docs, notifier)

	_, err := e.Run(context.Background(), newState("A1", "a@x.com"))
	require.ErrorIs(t, err, storageErr)
	require.Zero(t, docs.calls)
}

func TestDistinctTransactionIDsYieldDistinctPaths(t *testing.T) {
	docs := &fakeGenerator{}
	notifier := &fakeNotifier{}
	e := newTestEngine(t, store.NewInMemory(), docs, notifier)

	first, err := e.Run(context.Background(), newState("A1", "a@x.com"))
	require.NoError(t, err)
	second, err := e.Run(context.Background(), newState("A1", "a@x.com"))
	require.NoError(t, err)

	require.NotEqual(t, first.Invoice.TransactionID, second.Invoice.TransactionID)
	require.NotEqual(t, first.Document.FilePath, second.Document.FilePath)
}
