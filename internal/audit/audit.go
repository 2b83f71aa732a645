// Package audit captures key domain actions (record saved, workflow finished,
// KYC status changes) for the compliance trail. Events flow through an
// in-process channel to a background worker, which drains them into a store;
// the store may be in-memory or a Kafka topic.
package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture one action. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions recorded by the intake service.
const (
	ActionRecordSaved      = "invoice.record_saved"
	ActionWorkflowDone     = "invoice.workflow_completed"
	ActionWorkflowFailed   = "invoice.workflow_failed"
	ActionKYCSubmitted     = "kyc.application_submitted"
	ActionKYCUpdated       = "kyc.application_updated"
	ActionKYCStatusChanged = "kyc.status_changed"
	ActionKYCDocumentReady = "kyc.document_generated"
)

// Store persists events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher accepts events from domain services without blocking them.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}
