package budget

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryTransactionRepository keeps the ledger in process. It backs tests
// and local development; the Postgres repository is the production store.
type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]Transaction
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{
		transactions: make(map[uuid.UUID]Transaction),
	}
}

func (r *MemoryTransactionRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Transaction
	for _, tx := range r.transactions {
		if tx.TripID == tripID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TransactionDate.Equal(out[j].TransactionDate) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].TransactionDate.After(out[j].TransactionDate)
	})
	return out, nil
}

func (r *MemoryTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	return &tx, nil
}

func (r *MemoryTransactionRepository) Insert(ctx context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepository) Update(ctx context.Context, tx *Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transactions[tx.ID] = *tx
	return nil
}

func (r *MemoryTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.transactions, id)
	return nil
}

// MemoryParticipantRepository is an in-process roster with stable order.
type MemoryParticipantRepository struct {
	mu           sync.RWMutex
	participants []Participant
}

func NewMemoryParticipantRepository(participants ...Participant) *MemoryParticipantRepository {
	return &MemoryParticipantRepository{participants: participants}
}

func (r *MemoryParticipantRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Participant
	for _, p := range r.participants {
		if p.TripID == tripID {
			out = append(out, p)
		}
	}
	return out, nil
}

// Add appends a participant, keeping roster order by insertion.
func (r *MemoryParticipantRepository) Add(p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.participants = append(r.participants, p)
}
