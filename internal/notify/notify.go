// Package notify delivers generated invoices to customers. The SMTP notifier
// is the production transport; the memory notifier backs tests and the
// no-SMTP development mode.
package notify

import (
	"context"
	"net/mail"
	"sync"

	"intakeflow/internal/invoice/models"
)

// Delivery records one send attempt against the memory notifier.
type Delivery struct {
	Recipient      string
	AttachmentPath string
	TransactionID  string
}

// MemoryNotifier collects deliveries instead of sending them. A syntactically
// invalid recipient is a soft failure (false, nil), matching the transport
// contract.
type MemoryNotifier struct {
	mu         sync.Mutex
	deliveries []Delivery

	// FailWith forces the next Send to return an error, for failure-path tests.
	FailWith error
}

func NewMemory() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Send(_ context.Context, recipient string, st *models.State, attachmentPath string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.FailWith != nil {
		return false, n.FailWith
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return false, nil
	}
	n.deliveries = append(n.deliveries, Delivery{
		Recipient:      recipient,
		AttachmentPath: attachmentPath,
		TransactionID:  st.Invoice.TransactionID,
	})
	return true, nil
}

// Deliveries returns a snapshot of recorded sends.
func (n *MemoryNotifier) Deliveries() []Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Delivery, len(n.deliveries))
	copy(out, n.deliveries)
	return out
}
