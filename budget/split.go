package budget

import (
	"context"

	"github.com/google/uuid"
)

// SplitSpec is one participant's requested part of a split. Percentage is
// read in percentage mode, Amount in custom mode.
type SplitSpec struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Percentage    float64   `json:"percentage,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
}

// ParticipantShare is what one participant owes for a split and where that
// leaves them against what they have already paid. A positive balance means
// they still owe money.
type ParticipantShare struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Name          string    `json:"name"`
	TotalOwed     float64   `json:"total_owed"`
	TotalPaid     float64   `json:"total_paid"`
	Balance       float64   `json:"balance"`
}

// CalculateSplit divides totalAmount across the trip's participants.
//
// Equal mode splits across the whole roster, each share rounded to cents
// independently (a three-way split of 100 yields 33.33 each and loses one
// cent). Percentage and custom modes only cover participants named in
// specs; custom amounts are taken verbatim and are not checked against
// totalAmount.
func (s *Service) CalculateSplit(ctx context.Context, tripID uuid.UUID, totalAmount float64, method SplitMethod, specs []SplitSpec) ([]ParticipantShare, error) {
	if totalAmount < 0 {
		return nil, ErrInvalidAmount
	}

	participants, err := s.participants.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	var shares []ParticipantShare

	switch method {
	case SplitEqual:
		if len(participants) == 0 {
			return nil, ErrNoParticipants
		}
		share := round2(totalAmount / float64(len(participants)))
		for _, p := range participants {
			shares = append(shares, newShare(p, share))
		}

	case SplitPercentage:
		for _, spec := range specs {
			p, ok := byID[spec.ParticipantID]
			if !ok {
				continue
			}
			owed := round2(totalAmount * spec.Percentage / 100)
			shares = append(shares, newShare(p, owed))
		}

	case SplitCustom:
		for _, spec := range specs {
			p, ok := byID[spec.ParticipantID]
			if !ok {
				continue
			}
			shares = append(shares, newShare(p, spec.Amount))
		}

	default:
		return nil, ErrInvalidMethod
	}

	return shares, nil
}

func newShare(p Participant, owed float64) ParticipantShare {
	return ParticipantShare{
		ParticipantID: p.ID,
		Name:          p.Name,
		TotalOwed:     owed,
		TotalPaid:     p.AmountPaid,
		Balance:       round2(owed - p.AmountPaid),
	}
}
