package budget

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

//go:embed schema.sql
var schema string

// Migrate applies the engine's schema. Statements are idempotent so it is
// safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

type pgTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *pgTransactionRepository {
	return &pgTransactionRepository{db: db}
}

const transactionColumns = `id, trip_id, transaction_type, status, amount,
	COALESCE(category, ''), COALESCE(description, ''), paid_by_participant_id,
	assigned_to_participant_id, COALESCE(split_method, ''), split_details,
	transaction_date, created_at, updated_at`

func (r *pgTransactionRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]Transaction, error) {
	query := `SELECT ` + transactionColumns + `
			  FROM transactions
			  WHERE trip_id = $1
			  ORDER BY transaction_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}

	return transactions, rows.Err()
}

func (r *pgTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return tx, nil
}

func (r *pgTransactionRepository) Insert(ctx context.Context, tx *Transaction) error {
	details, err := marshalSplitDetails(tx.SplitDetails)
	if err != nil {
		return err
	}

	query := `INSERT INTO transactions (id, trip_id, transaction_type, status, amount, category,
			  description, paid_by_participant_id, assigned_to_participant_id, split_method,
			  split_details, transaction_date, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.db.ExecContext(ctx, query,
		tx.ID,
		tx.TripID,
		tx.Type,
		tx.Status,
		tx.Amount,
		tx.Category,
		tx.Description,
		uuidOrNil(tx.PaidBy),
		uuidOrNil(tx.AssignedTo),
		tx.SplitMethod,
		details,
		tx.TransactionDate,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	return nil
}

func (r *pgTransactionRepository) Update(ctx context.Context, tx *Transaction) error {
	details, err := marshalSplitDetails(tx.SplitDetails)
	if err != nil {
		return err
	}

	query := `UPDATE transactions
			  SET transaction_type = $1, status = $2, amount = $3, category = $4, description = $5,
			      paid_by_participant_id = $6, assigned_to_participant_id = $7, split_method = $8,
			      split_details = $9, transaction_date = $10, updated_at = $11
			  WHERE id = $12`
	_, err = r.db.ExecContext(ctx, query,
		tx.Type,
		tx.Status,
		tx.Amount,
		tx.Category,
		tx.Description,
		uuidOrNil(tx.PaidBy),
		uuidOrNil(tx.AssignedTo),
		tx.SplitMethod,
		details,
		tx.TransactionDate,
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (r *pgTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*Transaction, error) {
	var (
		tx         Transaction
		paidBy     uuid.NullUUID
		assignedTo uuid.NullUUID
		details    []byte
	)
	err := row.Scan(
		&tx.ID,
		&tx.TripID,
		&tx.Type,
		&tx.Status,
		&tx.Amount,
		&tx.Category,
		&tx.Description,
		&paidBy,
		&assignedTo,
		&tx.SplitMethod,
		&details,
		&tx.TransactionDate,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paidBy.Valid {
		tx.PaidBy = &paidBy.UUID
	}
	if assignedTo.Valid {
		tx.AssignedTo = &assignedTo.UUID
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &tx.SplitDetails); err != nil {
			return nil, fmt.Errorf("decoding split details: %w", err)
		}
	}

	return &tx, nil
}

func marshalSplitDetails(details []SplitShare) ([]byte, error) {
	if details == nil {
		return nil, nil
	}
	b, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("encoding split details: %w", err)
	}
	return b, nil
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

type pgParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) *pgParticipantRepository {
	return &pgParticipantRepository{db: db}
}

func (r *pgParticipantRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]Participant, error) {
	query := `SELECT id, trip_id, COALESCE(name, ''), amount_paid
			  FROM participants
			  WHERE trip_id = $1
			  ORDER BY joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("querying participants: %w", err)
	}
	defer rows.Close()

	var participants []Participant
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name, &p.AmountPaid); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}
