package audit

import (
	"context"
	"log/slog"
)

// ChannelPublisher hands events to the worker over a buffered channel. If the
// buffer is full the event is dropped with a warning; the audit trail must
// never stall a workflow.
type ChannelPublisher struct {
	ch     chan Event
	logger *slog.Logger
}

func NewChannelPublisher(buffer int, logger *slog.Logger) *ChannelPublisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &ChannelPublisher{ch: make(chan Event, buffer), logger: logger}
}

// Inbox exposes the receive side for the worker.
func (p *ChannelPublisher) Inbox() <-chan Event {
	return p.ch
}

func (p *ChannelPublisher) Publish(ctx context.Context, event Event) {
	select {
	case p.ch <- event:
	default:
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action, "subject", event.Subject)
	}
}

// NopPublisher discards events; used when auditing is not wired.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
