package budget

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Summary totals a trip's ledger against a planned budget. Remaining goes
// negative when the trip is over budget; callers must not clamp it.
type Summary struct {
	TotalBudget  float64 `json:"total_budget"`
	TotalSpent   float64 `json:"total_spent"`
	TotalPending float64 `json:"total_pending"`
	Remaining    float64 `json:"remaining"`
	PercentUsed  int     `json:"percent_used"`
}

// Summary scans the ledger once: paid amounts count as spent, unpaid and
// partial amounts as pending.
func (s *Service) Summary(ctx context.Context, tripID uuid.UUID, totalBudget float64) (*Summary, error) {
	transactions, err := s.transactions.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	var spent, pending float64
	for _, tx := range transactions {
		switch tx.Status {
		case StatusPaid:
			spent += tx.Amount
		case StatusUnpaid, StatusPartial:
			pending += tx.Amount
		}
	}

	spent = round2(spent)
	pending = round2(pending)

	percentUsed := 0
	if totalBudget != 0 {
		percentUsed = int(math.Round(spent / totalBudget * 100))
	}

	return &Summary{
		TotalBudget:  totalBudget,
		TotalSpent:   spent,
		TotalPending: pending,
		Remaining:    round2(totalBudget - spent - pending),
		PercentUsed:  percentUsed,
	}, nil
}

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CategoryBreakdown groups the ledger by category, largest total first.
// Rows without a category land in "other".
func (s *Service) CategoryBreakdown(ctx context.Context, tripID uuid.UUID) ([]CategoryTotal, error) {
	transactions, err := s.transactions.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*CategoryTotal)
	var grandTotal float64
	for _, tx := range transactions {
		category := tx.Category
		if category == "" {
			category = DefaultCategory
		}
		row, ok := totals[category]
		if !ok {
			row = &CategoryTotal{Category: category}
			totals[category] = row
		}
		row.Amount += tx.Amount
		row.Count++
		grandTotal += tx.Amount
	}

	breakdown := make([]CategoryTotal, 0, len(totals))
	for _, row := range totals {
		row.Amount = round2(row.Amount)
		if grandTotal != 0 {
			row.Percentage = round2(row.Amount / grandTotal * 100)
		}
		breakdown = append(breakdown, *row)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount == breakdown[j].Amount {
			return breakdown[i].Category < breakdown[j].Category
		}
		return breakdown[i].Amount > breakdown[j].Amount
	})

	return breakdown, nil
}
