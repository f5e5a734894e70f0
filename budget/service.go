package budget

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tripwise/tripbudget/audit"
	"github.com/tripwise/tripbudget/currency"
	"github.com/tripwise/tripbudget/tipping"
)

// Service is the trip budget engine. It is pure computation over the
// injected transaction store and participant roster; the only I/O it does
// goes through those two repositories and the optional audit worker.
type Service struct {
	transactions TransactionRepository
	participants ParticipantRepository
	converter    *currency.Converter
	tips         *tipping.Calculator
	audit        *audit.Worker
	validate     *validator.Validate
	logger       *slog.Logger
	now          func() time.Time
}

type ServiceOption func(*Service)

func WithConverter(c *currency.Converter) ServiceOption {
	return func(s *Service) {
		s.converter = c
	}
}

func WithTipCalculator(c *tipping.Calculator) ServiceOption {
	return func(s *Service) {
		s.tips = c
	}
}

// WithAuditWorker wires ledger mutations into the audit event log.
func WithAuditWorker(w *audit.Worker) ServiceOption {
	return func(s *Service) {
		s.audit = w
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(transactions TransactionRepository, participants ParticipantRepository, opts ...ServiceOption) *Service {
	s := &Service{
		transactions: transactions,
		participants: participants,
		converter:    currency.NewConverter(),
		tips:         tipping.NewCalculator(),
		validate:     validator.New(),
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transactions returns a trip's full ledger, newest first.
func (s *Service) Transactions(ctx context.Context, tripID uuid.UUID) ([]Transaction, error) {
	return s.transactions.ListByTrip(ctx, tripID)
}

// Transaction returns a single ledger entry, or nil when the id is unknown.
func (s *Service) Transaction(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

type CreateTransactionInput struct {
	TripID          uuid.UUID       `validate:"required"`
	Type            TransactionType `validate:"omitempty,oneof=expense split_contribution"`
	Status          Status          `validate:"required,oneof=paid unpaid partial"`
	Amount          float64         `validate:"gte=0"`
	Category        string
	Description     string
	PaidBy          *uuid.UUID
	AssignedTo      *uuid.UUID
	TransactionDate *time.Time
}

func (s *Service) CreateTransaction(ctx context.Context, in CreateTransactionInput) (*Transaction, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid transaction: %w", err)
	}

	now := s.now().UTC()
	tx := &Transaction{
		ID:              uuid.New(),
		TripID:          in.TripID,
		Type:            in.Type,
		Status:          in.Status,
		Amount:          in.Amount,
		Category:        in.Category,
		Description:     in.Description,
		PaidBy:          in.PaidBy,
		AssignedTo:      in.AssignedTo,
		TransactionDate: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if tx.Type == "" {
		tx.Type = TypeExpense
	}
	if tx.Category == "" {
		tx.Category = DefaultCategory
	}
	if in.TransactionDate != nil {
		tx.TransactionDate = *in.TransactionDate
	}

	if err := s.transactions.Insert(ctx, tx); err != nil {
		return nil, err
	}

	s.record(audit.TypeTransactionCreated, tx.TripID, map[string]string{
		"transaction_id": tx.ID.String(),
		"amount":         strconv.FormatFloat(tx.Amount, 'f', 2, 64),
		"category":       tx.Category,
	})

	return tx, nil
}

// UpdateTransactionInput is a partial update; nil fields are left as they
// are.
type UpdateTransactionInput struct {
	Status          *Status  `validate:"omitempty,oneof=paid unpaid partial"`
	Amount          *float64 `validate:"omitempty,gte=0"`
	Category        *string
	Description     *string
	TransactionDate *time.Time
}

// UpdateTransaction merges the patch into the stored row and stamps
// UpdatedAt. It returns nil when the id does not exist.
func (s *Service) UpdateTransaction(ctx context.Context, id uuid.UUID, in UpdateTransactionInput) (*Transaction, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid transaction patch: %w", err)
	}

	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, nil
	}

	if in.Status != nil {
		tx.Status = *in.Status
	}
	if in.Amount != nil {
		tx.Amount = *in.Amount
	}
	if in.Category != nil {
		tx.Category = *in.Category
	}
	if in.Description != nil {
		tx.Description = *in.Description
	}
	if in.TransactionDate != nil {
		tx.TransactionDate = *in.TransactionDate
	}
	tx.UpdatedAt = s.now().UTC()

	if err := s.transactions.Update(ctx, tx); err != nil {
		return nil, err
	}

	s.record(audit.TypeTransactionUpdated, tx.TripID, map[string]string{
		"transaction_id": tx.ID.String(),
	})

	return tx, nil
}

// DeleteTransaction removes the row unconditionally. Deleting an unknown id
// is not an error.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.transactions.Delete(ctx, id); err != nil {
		return err
	}

	if tx != nil {
		s.record(audit.TypeTransactionDeleted, tx.TripID, map[string]string{
			"transaction_id": id.String(),
			"amount":         strconv.FormatFloat(tx.Amount, 'f', 2, 64),
		})
	}

	return nil
}

type SplitExpenseInput struct {
	TripID      uuid.UUID `validate:"required"`
	TotalAmount float64   `validate:"gt=0"`
	Category    string
	Description string
	PaidBy      uuid.UUID    `validate:"required"`
	Splits      []SplitShare `validate:"min=1"`
}

// CreateSplitExpense writes the parent expense (already paid by PaidBy) plus
// one unpaid split_contribution per share belonging to someone else. The
// shares must cover the whole amount: their sum may diverge from TotalAmount
// by at most one cent per share, otherwise ErrSplitMismatch.
func (s *Service) CreateSplitExpense(ctx context.Context, in SplitExpenseInput) ([]Transaction, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid split expense: %w", err)
	}

	var sum float64
	for _, share := range in.Splits {
		if share.Amount < 0 {
			return nil, ErrInvalidAmount
		}
		sum += share.Amount
	}
	tolerance := 0.01 * float64(len(in.Splits))
	if math.Abs(sum-in.TotalAmount) > tolerance+1e-9 {
		return nil, fmt.Errorf("%w: shares sum to %.2f, expense is %.2f", ErrSplitMismatch, sum, in.TotalAmount)
	}

	now := s.now().UTC()
	category := in.Category
	if category == "" {
		category = DefaultCategory
	}

	paidBy := in.PaidBy
	parent := Transaction{
		ID:              uuid.New(),
		TripID:          in.TripID,
		Type:            TypeExpense,
		Status:          StatusPaid,
		Amount:          in.TotalAmount,
		Category:        category,
		Description:     in.Description,
		PaidBy:          &paidBy,
		SplitMethod:     SplitCustom,
		SplitDetails:    in.Splits,
		TransactionDate: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.transactions.Insert(ctx, &parent); err != nil {
		return nil, err
	}

	created := []Transaction{parent}
	for _, share := range in.Splits {
		if share.ParticipantID == in.PaidBy {
			continue
		}

		assignedTo := share.ParticipantID
		child := Transaction{
			ID:              uuid.New(),
			TripID:          in.TripID,
			Type:            TypeSplitContribution,
			Status:          StatusUnpaid,
			Amount:          share.Amount,
			Category:        category,
			Description:     fmt.Sprintf("Split: %s", in.Description),
			PaidBy:          &paidBy,
			AssignedTo:      &assignedTo,
			TransactionDate: now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.transactions.Insert(ctx, &child); err != nil {
			return nil, err
		}
		created = append(created, child)
	}

	s.record(audit.TypeExpenseSplit, in.TripID, map[string]string{
		"expense_id": parent.ID.String(),
		"amount":     strconv.FormatFloat(in.TotalAmount, 'f', 2, 64),
		"shares":     strconv.Itoa(len(in.Splits)),
	})
	s.logger.Info("split expense created",
		"trip_id", in.TripID,
		"expense_id", parent.ID,
		"contributions", len(created)-1,
	)

	return created, nil
}

// Convert changes an amount between two currencies using the injected rate
// table.
func (s *Service) Convert(amount float64, from, to string) (currency.Conversion, error) {
	return s.converter.Convert(amount, from, to)
}

// Tip computes the customary tip for a bill in the given country.
func (s *Service) Tip(amount float64, countryCode string, service tipping.Service) tipping.Tip {
	return s.tips.Tip(amount, countryCode, service)
}

func (s *Service) record(eventType string, tripID uuid.UUID, metadata map[string]string) {
	if s.audit == nil {
		return
	}
	s.audit.Log(audit.NewEvent(
		audit.WithType(eventType),
		audit.WithTrip(tripID),
		audit.WithMetadata(metadata),
	))
}
