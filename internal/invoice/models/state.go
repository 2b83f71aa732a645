package models

import "time"

// ValidationStatus is set by the validate step. Duplicate marks a business key
// that already exists in the store; by policy that is a non-fatal concern and
// the pipeline still proceeds.
type ValidationStatus struct {
	IsValid     bool      `json:"is_valid"`
	ValidatedAt time.Time `json:"validated_at"`
	Duplicate   bool      `json:"duplicate,omitempty"`
}

// DocumentStatus is set by the document generation step.
type DocumentStatus struct {
	Generated   bool      `json:"is_generated"`
	GeneratedAt time.Time `json:"generated_at"`
	FilePath    string    `json:"file_path"`
}

// NotificationStatus is set by the notify step. Sent=false with no state error
// means a soft delivery failure (e.g. invalid address); callers must treat both
// paths as "not sent".
type NotificationStatus struct {
	Sent      bool      `json:"is_sent"`
	SentAt    time.Time `json:"sent_at"`
	Recipient string    `json:"recipient"`
}

// State is the transient carrier mutated step-by-step by the workflow engine.
// It is owned by the single invocation that created it and never persisted;
// only the Customer/Invoice fields are saved, separately, by the caller.
type State struct {
	Customer Customer `json:"customer"`
	Invoice  Invoice  `json:"invoice"`

	Validation   *ValidationStatus   `json:"validation_status,omitempty"`
	Document     *DocumentStatus     `json:"document_generation_status,omitempty"`
	Notification *NotificationStatus `json:"notification_status,omitempty"`

	// Err carries step-level failures as data for the caller to display.
	// It never aborts the process.
	Err       string `json:"error,omitempty"`
	Completed bool   `json:"completed"`
}

// NewState builds a fresh workflow state around a record.
func NewState(rec Record) *State {
	return &State{Customer: rec.Customer, Invoice: rec.Invoice}
}

// Record extracts the persistable portion of the state.
func (s *State) Record() Record {
	return Record{Customer: s.Customer, Invoice: s.Invoice}
}
