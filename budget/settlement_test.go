package budget

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addContribution(t *testing.T, svc *Service, tripID uuid.UUID, debtor, creditor uuid.UUID, amount float64, status Status) {
	t.Helper()

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		TripID:     tripID,
		Type:       TypeSplitContribution,
		Status:     status,
		Amount:     amount,
		PaidBy:     &creditor,
		AssignedTo: &debtor,
	})
	require.NoError(t, err)
}

func TestSettleUpSingleCreditor(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	carla := Participant{ID: uuid.New(), Name: "Carla"}
	svc, tripID := newTestService(t, ana, bruno, carla)

	ctx := context.Background()
	addContribution(t, svc, tripID, ana.ID, carla.ID, 30, StatusUnpaid)
	addContribution(t, svc, tripID, bruno.ID, carla.ID, 20, StatusUnpaid)

	settlement, err := svc.SettleUp(ctx, tripID)
	require.NoError(t, err)

	require.Len(t, settlement.Owes, 2)
	assert.Equal(t, ana.ID, settlement.Owes[0].FromParticipantID)
	assert.Equal(t, carla.ID, settlement.Owes[0].ToParticipantID)
	assert.Equal(t, 30.0, settlement.Owes[0].Amount)
	assert.Equal(t, bruno.ID, settlement.Owes[1].FromParticipantID)
	assert.Equal(t, 20.0, settlement.Owes[1].Amount)
	assert.Equal(t, 50.0, settlement.TotalOutstanding)
}

func TestSettleUpEmptyLedger(t *testing.T) {
	svc, tripID := newTestService(t,
		Participant{ID: uuid.New(), Name: "Ana"},
		Participant{ID: uuid.New(), Name: "Bruno"},
	)

	settlement, err := svc.SettleUp(context.Background(), tripID)
	require.NoError(t, err)
	assert.Empty(t, settlement.Owes)
	assert.Zero(t, settlement.TotalOutstanding)
}

func TestSettleUpIgnoresPaidAndPartialRows(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	svc, tripID := newTestService(t, ana, bruno)

	addContribution(t, svc, tripID, ana.ID, bruno.ID, 40, StatusPaid)
	addContribution(t, svc, tripID, ana.ID, bruno.ID, 25, StatusPartial)
	addContribution(t, svc, tripID, ana.ID, bruno.ID, 10, StatusUnpaid)

	settlement, err := svc.SettleUp(context.Background(), tripID)
	require.NoError(t, err)

	require.Len(t, settlement.Owes, 1)
	assert.Equal(t, 10.0, settlement.Owes[0].Amount)
	assert.Equal(t, 10.0, settlement.TotalOutstanding)
}

func TestSettleUpIgnoresPlainExpenses(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	svc, tripID := newTestService(t, ana, bruno)

	_, err := svc.CreateTransaction(context.Background(), CreateTransactionInput{
		TripID: tripID,
		Status: StatusUnpaid,
		Amount: 99,
		PaidBy: &ana.ID,
	})
	require.NoError(t, err)

	settlement, err := svc.SettleUp(context.Background(), tripID)
	require.NoError(t, err)
	assert.Empty(t, settlement.Owes)
}

func TestSettleUpZeroSum(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	carla := Participant{ID: uuid.New(), Name: "Carla"}
	diego := Participant{ID: uuid.New(), Name: "Diego"}
	svc, tripID := newTestService(t, ana, bruno, carla, diego)

	// A tangle of cross debts between four people.
	addContribution(t, svc, tripID, ana.ID, bruno.ID, 33.33, StatusUnpaid)
	addContribution(t, svc, tripID, ana.ID, carla.ID, 12.5, StatusUnpaid)
	addContribution(t, svc, tripID, bruno.ID, carla.ID, 41.2, StatusUnpaid)
	addContribution(t, svc, tripID, carla.ID, diego.ID, 18.75, StatusUnpaid)
	addContribution(t, svc, tripID, diego.ID, ana.ID, 7.07, StatusUnpaid)

	settlement, err := svc.SettleUp(context.Background(), tripID)
	require.NoError(t, err)

	// Replay the ledger to get each participant's net position, then apply
	// every transfer; everyone must land on zero.
	balances := map[uuid.UUID]float64{
		ana.ID:   -33.33 - 12.5 + 7.07,
		bruno.ID: 33.33 - 41.2,
		carla.ID: 12.5 + 41.2 - 18.75,
		diego.ID: 18.75 - 7.07,
	}
	var total float64
	for _, transfer := range settlement.Owes {
		assert.Greater(t, transfer.Amount, 0.0)
		balances[transfer.FromParticipantID] += transfer.Amount
		balances[transfer.ToParticipantID] -= transfer.Amount
		total += transfer.Amount
	}
	for id, balance := range balances {
		assert.InDelta(t, 0, balance, 0.01, "participant %s not settled", id)
	}
	assert.InDelta(t, total, settlement.TotalOutstanding, 1e-9)
}

func TestSettleUpDebtorSpreadAcrossCreditors(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	carla := Participant{ID: uuid.New(), Name: "Carla"}
	svc, tripID := newTestService(t, ana, bruno, carla)

	addContribution(t, svc, tripID, ana.ID, bruno.ID, 60, StatusUnpaid)
	addContribution(t, svc, tripID, ana.ID, carla.ID, 40, StatusUnpaid)

	settlement, err := svc.SettleUp(context.Background(), tripID)
	require.NoError(t, err)

	require.Len(t, settlement.Owes, 2)
	assert.Equal(t, 60.0, settlement.Owes[0].Amount)
	assert.Equal(t, bruno.ID, settlement.Owes[0].ToParticipantID)
	assert.Equal(t, 40.0, settlement.Owes[1].Amount)
	assert.Equal(t, carla.ID, settlement.Owes[1].ToParticipantID)
	assert.Equal(t, 100.0, settlement.TotalOutstanding)
}

func TestSettleUpCancellingDebts(t *testing.T) {
	ana := Participant{ID: uuid.New(), Name: "Ana"}
	bruno := Participant{ID: uuid.New(), Name: "Bruno"}
	svc, tripID := newTestService(t, ana, bruno)

	addContribution(t, svc, tripID, ana.ID, bruno.ID, 25, StatusUnpaid)
	addContribution(t, svc, tripID, bruno.ID, ana.ID, 25, StatusUnpaid)

	settlement, err := svc.SettleUp(context.Background(), tripID)
	require.NoError(t, err)
	assert.Empty(t, settlement.Owes)
	assert.Zero(t, settlement.TotalOutstanding)
}
