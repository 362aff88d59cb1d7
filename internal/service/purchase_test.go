package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
)

type fakeTransactions struct {
	balance       *models.Balance
	balanceErr    error
	createErr     error
	processErr    error
	withdrawErr   error
	createCalls   int
	processCalls  int
	withdrawCalls int
	balanceCalls  int
	lastCreate    models.CreateTransactionRequest
}

func (f *fakeTransactions) Balance(context.Context, string) (*models.Balance, error) {
	f.balanceCalls++
	if f.balanceErr != nil {
		return nil, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeTransactions) CreateTransaction(_ context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	f.createCalls++
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Transaction{
		ID:            "tx-1",
		UserID:        req.UserID,
		Amount:        req.Amount,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		Status:        models.TransactionPending,
	}, nil
}

func (f *fakeTransactions) ProcessPayment(_ context.Context, id string) (*models.Transaction, error) {
	f.processCalls++
	if f.processErr != nil {
		return nil, f.processErr
	}
	return &models.Transaction{
		ID:          id,
		Amount:      f.lastCreate.Amount,
		Description: f.lastCreate.Description,
		Status:      models.TransactionSuccess,
	}, nil
}

func (f *fakeTransactions) Withdraw(context.Context, models.WithdrawFundsRequest) (*models.Balance, error) {
	f.withdrawCalls++
	if f.withdrawErr != nil {
		return nil, f.withdrawErr
	}
	return &models.Balance{UserID: "u-1", Amount: f.balance.Amount - f.lastCreate.Amount}, nil
}

type fakeEvents struct {
	event *models.Event
	err   error
}

func (f *fakeEvents) Get(context.Context, string) (*models.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	ev := *f.event
	return &ev, nil
}

func attendee() *models.User {
	return &models.User{ID: "u-1", Name: "Alice", Role: models.RoleAttendee}
}

func concertEvent() *models.Event {
	return &models.Event{
		ID:              "ev-1",
		Title:           "Foo",
		BasePrice:       50000,
		Status:          models.EventPublished,
		Capacity:        100,
		RegisteredCount: 10,
	}
}

func TestPurchaseRequiresAuthentication(t *testing.T) {
	txs := &fakeTransactions{}
	svc := NewPurchaseService(txs, &fakeEvents{event: concertEvent()}, nil, nil)

	_, err := svc.Purchase(context.Background(), nil, "ev-1", 1)

	assert.ErrorIs(t, err, apperrors.ErrNotAuthenticated)
	assert.Zero(t, txs.createCalls)
}

func TestPurchaseBalanceFetchFailure(t *testing.T) {
	txs := &fakeTransactions{balanceErr: assert.AnError}
	svc := NewPurchaseService(txs, &fakeEvents{event: concertEvent()}, nil, nil)

	_, err := svc.Purchase(context.Background(), attendee(), "ev-1", 1)

	assert.ErrorIs(t, err, apperrors.ErrBalanceUnavailable)
	assert.Zero(t, txs.createCalls)
}

func TestPurchaseInsufficientBalanceCreatesNoTransaction(t *testing.T) {
	txs := &fakeTransactions{balance: &models.Balance{UserID: "u-1", Amount: 90000}}
	svc := NewPurchaseService(txs, &fakeEvents{event: concertEvent()}, nil, nil)

	// 2 tickets at 50000 = 100000, over the 90000 balance.
	_, err := svc.Purchase(context.Background(), attendee(), "ev-1", 2)

	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.Zero(t, txs.createCalls)
	assert.Zero(t, txs.withdrawCalls)
}

func TestPurchaseCapacityExceeded(t *testing.T) {
	event := concertEvent()
	event.Capacity = 10
	event.RegisteredCount = 10

	txs := &fakeTransactions{balance: &models.Balance{UserID: "u-1", Amount: 1000000}}
	svc := NewPurchaseService(txs, &fakeEvents{event: event}, nil, nil)

	_, err := svc.Purchase(context.Background(), attendee(), "ev-1", 1)

	assert.ErrorIs(t, err, apperrors.ErrCapacityExceeded)
	assert.Zero(t, txs.createCalls)
}

func TestPurchaseUnlimitedCapacityIsNeverExceeded(t *testing.T) {
	event := concertEvent()
	event.Capacity = 0

	txs := &fakeTransactions{balance: &models.Balance{UserID: "u-1", Amount: 10000000}}
	svc := NewPurchaseService(txs, &fakeEvents{event: event}, nil, nil)

	result, err := svc.Purchase(context.Background(), attendee(), "ev-1", 50)

	require.NoError(t, err)
	assert.Equal(t, 50, result.Quantity)
}

func TestPurchaseHappyPath(t *testing.T) {
	txs := &fakeTransactions{balance: &models.Balance{UserID: "u-1", Amount: 200000}}
	svc := NewPurchaseService(txs, &fakeEvents{event: concertEvent()}, nil, nil)

	result, err := svc.Purchase(context.Background(), attendee(), "ev-1", 3)

	require.NoError(t, err)
	assert.Equal(t, 1, txs.createCalls)
	assert.Equal(t, 1, txs.processCalls)
	assert.Equal(t, 1, txs.withdrawCalls)

	assert.Equal(t, "Ticket purchase for Foo (3 tickets)", txs.lastCreate.Description)
	assert.Equal(t, "Balance", txs.lastCreate.PaymentMethod)
	assert.Equal(t, 150000.0, txs.lastCreate.Amount)

	assert.Equal(t, 3, result.Quantity)
	assert.Empty(t, result.Warning)
	require.NotNil(t, result.Balance)
	assert.Equal(t, 50000.0, result.Balance.Amount)

	// Optimistic local bump, flagged as unconfirmed.
	require.NotNil(t, result.Event)
	assert.Equal(t, 13, result.Event.RegisteredCount)
	assert.True(t, result.Event.CountStale)
}

func TestPurchasePaymentFailureIsFatal(t *testing.T) {
	txs := &fakeTransactions{
		balance:    &models.Balance{UserID: "u-1", Amount: 200000},
		processErr: assert.AnError,
	}
	svc := NewPurchaseService(txs, &fakeEvents{event: concertEvent()}, nil, nil)

	_, err := svc.Purchase(context.Background(), attendee(), "ev-1", 1)

	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	assert.Zero(t, txs.withdrawCalls)
}

func TestPurchaseWithdrawFailureIsSuccessWithWarning(t *testing.T) {
	txs := &fakeTransactions{
		balance:     &models.Balance{UserID: "u-1", Amount: 200000},
		withdrawErr: assert.AnError,
	}
	svc := NewPurchaseService(txs, &fakeEvents{event: concertEvent()}, nil, nil)

	result, err := svc.Purchase(context.Background(), attendee(), "ev-1", 2)

	require.NoError(t, err, "paid purchase must not be rolled back")
	assert.Equal(t, apperrors.ErrBalanceDeductionFailed.Error(), result.Warning)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, models.TransactionSuccess, result.Transaction.Status)

	// One precondition fetch plus the reconciliation re-fetch.
	assert.Equal(t, 2, txs.balanceCalls)
}

func TestExtractQuantity(t *testing.T) {
	tests := []struct {
		name        string
		description string
		amount      float64
		unitPrice   float64
		want        int
	}{
		{"from description", "Ticket purchase for Foo (3 tickets)", 0, 0, 3},
		{"single ticket wording", "Ticket purchase for Foo (1 ticket)", 0, 0, 1},
		{"fallback division", "manual adjustment", 150000, 50000, 3},
		{"zero unit price", "manual adjustment", 150000, 0, 1},
		{"empty description", "", 100000, 50000, 2},
		{"rounding", "refill", 149999, 50000, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractQuantity(tt.description, tt.amount, tt.unitPrice))
		})
	}
}
