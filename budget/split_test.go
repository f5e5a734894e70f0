package budget

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, participants ...Participant) (*Service, uuid.UUID) {
	t.Helper()

	tripID := uuid.New()
	for i := range participants {
		participants[i].TripID = tripID
	}
	svc := NewService(
		NewMemoryTransactionRepository(),
		NewMemoryParticipantRepository(participants...),
	)
	return svc, tripID
}

func TestCalculateSplitEqual(t *testing.T) {
	svc, tripID := newTestService(t,
		Participant{ID: uuid.New(), Name: "Ana", AmountPaid: 40},
		Participant{ID: uuid.New(), Name: "Bruno", AmountPaid: 0},
		Participant{ID: uuid.New(), Name: "Carla", AmountPaid: 10},
		Participant{ID: uuid.New(), Name: "Diego", AmountPaid: 0},
	)

	shares, err := svc.CalculateSplit(context.Background(), tripID, 100, SplitEqual, nil)
	require.NoError(t, err)
	require.Len(t, shares, 4)

	for _, share := range shares {
		assert.Equal(t, 25.0, share.TotalOwed)
	}
	assert.Equal(t, -15.0, shares[0].Balance) // Ana overpaid
	assert.Equal(t, 25.0, shares[1].Balance)
	assert.Equal(t, 15.0, shares[2].Balance)
}

func TestCalculateSplitEqualRoundingLoss(t *testing.T) {
	// 100 across three people rounds each share to 33.33; the lost cent is
	// documented behavior, not redistributed.
	svc, tripID := newTestService(t,
		Participant{ID: uuid.New(), Name: "Ana"},
		Participant{ID: uuid.New(), Name: "Bruno"},
		Participant{ID: uuid.New(), Name: "Carla"},
	)

	shares, err := svc.CalculateSplit(context.Background(), tripID, 100, SplitEqual, nil)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	var sum float64
	for _, share := range shares {
		assert.Equal(t, 33.33, share.TotalOwed)
		sum += share.TotalOwed
	}
	assert.InDelta(t, 99.99, sum, 1e-9)
}

func TestCalculateSplitEqualNoParticipants(t *testing.T) {
	svc, tripID := newTestService(t)

	_, err := svc.CalculateSplit(context.Background(), tripID, 100, SplitEqual, nil)
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestCalculateSplitPercentage(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana", AmountPaid: 50}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	carla := Participant{ID: uuid.New(), Name: "Carla"}
	svc, tripID := newTestService(t, ana, bruno, carla)

	shares, err := svc.CalculateSplit(context.Background(), tripID, 200, SplitPercentage, []SplitSpec{
		{ParticipantID: ana.ID, Percentage: 60},
		{ParticipantID: bruno.ID, Percentage: 40},
	})
	require.NoError(t, err)

	// Carla is not named in the specs and is excluded.
	require.Len(t, shares, 2)
	assert.Equal(t, 120.0, shares[0].TotalOwed)
	assert.Equal(t, 70.0, shares[0].Balance)
	assert.Equal(t, 80.0, shares[1].TotalOwed)
}

func TestCalculateSplitCustom(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	svc, tripID := newTestService(t, ana, bruno)

	// Custom amounts are taken verbatim, even when they don't add up to the
	// total.
	shares, err := svc.CalculateSplit(context.Background(), tripID, 500, SplitCustom, []SplitSpec{
		{ParticipantID: ana.ID, Amount: 120.5},
		{ParticipantID: bruno.ID, Amount: 80},
	})
	require.NoError(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, 120.5, shares[0].TotalOwed)
	assert.Equal(t, 80.0, shares[1].TotalOwed)
}

func TestCalculateSplitUnknownMethod(t *testing.T) {
	svc, tripID := newTestService(t, Participant{ID: uuid.New(), Name: "Ana"})

	_, err := svc.CalculateSplit(context.Background(), tripID, 100, SplitMethod("shares"), nil)
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestCalculateSplitNegativeAmount(t *testing.T) {
	svc, tripID := newTestService(t, Participant{ID: uuid.New(), Name: "Ana"})

	_, err := svc.CalculateSplit(context.Background(), tripID, -1, SplitEqual, nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
