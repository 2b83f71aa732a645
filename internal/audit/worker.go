package audit

import (
	"context"
	"log/slog"
	"time"
)

// Worker consumes audit events from the publisher's channel and persists them.
// It keeps background processing testable without wiring queue implementations
// into domain services.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if event.Timestamp.IsZero() {
				event.Timestamp = time.Now()
			}
			if err := w.store.Append(ctx, event); err != nil {
				// The trail is best-effort; a failing sink must not kill the worker.
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action, "error", err)
			}
		}
	}
}
