package budget

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository is the injected ledger store. Reads that find
// nothing return (nil, nil); Delete on a missing id is not an error.
type TransactionRepository interface {
	// ListByTrip returns a trip's transactions ordered by transaction date
	// descending.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ParticipantRepository is the trip roster, owned by an external module.
type ParticipantRepository interface {
	// ListByTrip returns the roster in its stored order. Settlement and
	// equal splits depend on this order being stable.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]Participant, error)
}
