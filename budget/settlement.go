package budget

import (
	"context"

	"github.com/google/uuid"
)

// Transfer is one direct payment in a settlement plan.
type Transfer struct {
	FromParticipantID uuid.UUID `json:"from_participant_id"`
	FromName          string    `json:"from_name,omitempty"`
	ToParticipantID   uuid.UUID `json:"to_participant_id"`
	ToName            string    `json:"to_name,omitempty"`
	Amount            float64   `json:"amount"`
}

// Settlement is the plan of peer-to-peer payments that clears every
// outstanding split debt on a trip.
type Settlement struct {
	Owes             []Transfer `json:"owes"`
	TotalOutstanding float64    `json:"total_outstanding"`
}

// Balances below this are treated as settled; they are float dust left by
// cent-rounded arithmetic, not real debt.
const settleEpsilon = 0.005

// SettleUp nets all unpaid split_contribution rows into a settlement plan.
//
// Every unpaid contribution debits its assignee and credits the payer who
// fronted the money; paid and partial rows are already (or separately)
// accounted for and are ignored. Debtors are then matched to creditors
// greedily in roster order. The plan is not guaranteed to use the fewest
// possible transfers, but applying it drives every balance to zero and it
// never contains a non-positive transfer.
func (s *Service) SettleUp(ctx context.Context, tripID uuid.UUID) (*Settlement, error) {
	participants, err := s.participants.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.transactions.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	ledger := newBalanceLedger(participants)
	for _, tx := range transactions {
		if tx.Type != TypeSplitContribution || tx.Status != StatusUnpaid {
			continue
		}
		if tx.AssignedTo == nil || tx.PaidBy == nil {
			continue
		}
		ledger.add(*tx.AssignedTo, -tx.Amount)
		ledger.add(*tx.PaidBy, tx.Amount)
	}

	var debtors, creditors []*balanceEntry
	for _, entry := range ledger.order {
		switch {
		case entry.balance < -settleEpsilon:
			debtors = append(debtors, entry)
		case entry.balance > settleEpsilon:
			creditors = append(creditors, entry)
		}
	}

	owes := make([]Transfer, 0)
	var total float64
	for _, debtor := range debtors {
		remaining := -debtor.balance
		for _, creditor := range creditors {
			if remaining <= settleEpsilon {
				break
			}
			if creditor.balance <= settleEpsilon {
				continue
			}

			amount := round2(min(remaining, creditor.balance))
			if amount <= 0 {
				continue
			}

			owes = append(owes, Transfer{
				FromParticipantID: debtor.id,
				FromName:          debtor.name,
				ToParticipantID:   creditor.id,
				ToName:            creditor.name,
				Amount:            amount,
			})
			remaining -= amount
			creditor.balance -= amount
			total += amount
		}
	}

	return &Settlement{
		Owes:             owes,
		TotalOutstanding: round2(total),
	}, nil
}

type balanceEntry struct {
	id      uuid.UUID
	name    string
	balance float64
}

// balanceLedger keeps one balance per participant, preserving roster order.
// Rows that reference someone missing from the roster still get an entry so
// the plan stays zero-sum.
type balanceLedger struct {
	order []*balanceEntry
	byID  map[uuid.UUID]*balanceEntry
}

func newBalanceLedger(participants []Participant) *balanceLedger {
	l := &balanceLedger{
		byID: make(map[uuid.UUID]*balanceEntry, len(participants)),
	}
	for _, p := range participants {
		entry := &balanceEntry{id: p.ID, name: p.Name}
		l.order = append(l.order, entry)
		l.byID[p.ID] = entry
	}
	return l
}

func (l *balanceLedger) add(id uuid.UUID, amount float64) {
	entry, ok := l.byID[id]
	if !ok {
		entry = &balanceEntry{id: id}
		l.order = append(l.order, entry)
		l.byID[id] = entry
	}
	entry.balance += amount
}
