// Package audit keeps a best-effort history of ledger mutations. Deletes in
// the budget engine are hard deletes, so this log is the only record of what
// happened to a trip's ledger over time.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the budget engine.
const (
	TypeTransactionCreated = "transaction.created"
	TypeTransactionUpdated = "transaction.updated"
	TypeTransactionDeleted = "transaction.deleted"
	TypeExpenseSplit       = "expense.split"
)

type Event struct {
	ID        uuid.UUID         `json:"id,omitempty"`
	Type      string            `json:"event_type,omitempty"`
	TripID    uuid.UUID         `json:"trip_id,omitempty"`
	Data      any               `json:"event_data,omitempty"`
	Metadata  map[string]string `json:"event_metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type EventOption func(*Event)

func WithType(eventType string) EventOption {
	return func(e *Event) {
		e.Type = eventType
	}
}

func WithTrip(tripID uuid.UUID) EventOption {
	return func(e *Event) {
		e.TripID = tripID
	}
}

func WithData(data any) EventOption {
	return func(e *Event) {
		e.Data = data
	}
}

func WithMetadata(metadata map[string]string) EventOption {
	return func(e *Event) {
		e.Metadata = metadata
	}
}

func NewEvent(opts ...EventOption) Event {
	e := Event{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Metadata:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

type EventLogger interface {
	Save(ctx context.Context, e Event) error
	GetByType(ctx context.Context, eventType string) ([]Event, error)
}
