package budget

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeExpense           TransactionType = "expense"
	TypeSplitContribution TransactionType = "split_contribution"
)

type Status string

const (
	StatusPaid    Status = "paid"
	StatusUnpaid  Status = "unpaid"
	StatusPartial Status = "partial"
)

// DefaultCategory is used when a transaction carries no category label.
const DefaultCategory = "other"

type SplitMethod string

const (
	SplitEqual      SplitMethod = "equal"
	SplitPercentage SplitMethod = "percentage"
	SplitCustom     SplitMethod = "custom"
)

var (
	ErrInvalidAmount  = errors.New("amount must not be negative")
	ErrNoParticipants = errors.New("no participants to split among")
	ErrInvalidMethod  = errors.New("unsupported split method")
	ErrSplitMismatch  = errors.New("split shares do not sum to the expense amount")
)

// Transaction is one ledger entry on a trip. A row is either a real expense
// or a split_contribution, a derived IOU linking a debtor (AssignedTo) to
// the participant who fronted the money (PaidBy).
type Transaction struct {
	ID              uuid.UUID       `json:"id"`
	TripID          uuid.UUID       `json:"trip_id"`
	Type            TransactionType `json:"transaction_type"`
	Status          Status          `json:"status"`
	Amount          float64         `json:"amount"`
	Category        string          `json:"category,omitempty"`
	Description     string          `json:"description,omitempty"`
	PaidBy          *uuid.UUID      `json:"paid_by_participant_id,omitempty"`
	AssignedTo      *uuid.UUID      `json:"assigned_to_participant_id,omitempty"`
	SplitMethod     SplitMethod     `json:"split_method,omitempty"`
	SplitDetails    []SplitShare    `json:"split_details,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// SplitShare records one participant's part of a divided expense. Amount is
// authoritative; Percentage is kept for audit when the percentage method was
// used.
type SplitShare struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Amount        float64   `json:"amount"`
	Percentage    float64   `json:"percentage,omitempty"`
}

// Participant is one trip member. AmountPaid is a running total owned and
// mutated by the roster module; the engine only reads it.
type Participant struct {
	ID         uuid.UUID `json:"id"`
	TripID     uuid.UUID `json:"trip_id"`
	Name       string    `json:"name"`
	AmountPaid float64   `json:"amount_paid"`
}

// round2 rounds a monetary value to cents. Intermediate math stays at full
// float precision; rounding happens once at each computed boundary.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
