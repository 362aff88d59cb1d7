package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/logger"
	"tixgate/internal/messaging"
	"tixgate/internal/metrics"
	"tixgate/internal/models"
)

// TransactionAPI is the slice of the transaction service the purchase flow
// needs. *external.TransactionClient satisfies it.
type TransactionAPI interface {
	Balance(ctx context.Context, userID string) (*models.Balance, error)
	CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error)
	ProcessPayment(ctx context.Context, transactionID string) (*models.Transaction, error)
	Withdraw(ctx context.Context, req models.WithdrawFundsRequest) (*models.Balance, error)
}

// EventAPI is the slice of the event service the purchase flow needs.
type EventAPI interface {
	Get(ctx context.Context, eventID string) (*models.Event, error)
}

// PurchaseService executes the ticket-buy flow: precondition checks, then
// create transaction, process payment and withdraw the balance, in that
// order. The withdraw step is deliberately last and deliberately not rolled
// back on failure: once payment processed the ticket is owned, and a missed
// deduction is reported as a warning and reconciled by re-fetching the
// balance.
type PurchaseService struct {
	transactions TransactionAPI
	events       EventAPI
	natsClient   *messaging.NATSClient
	collector    *metrics.Collector
}

func NewPurchaseService(transactions TransactionAPI, events EventAPI, natsClient *messaging.NATSClient, collector *metrics.Collector) *PurchaseService {
	return &PurchaseService{
		transactions: transactions,
		events:       events,
		natsClient:   natsClient,
		collector:    collector,
	}
}

// PurchaseResult is what a completed flow hands back to the handler.
// Event is a local copy with the registered count bumped optimistically and
// marked stale; the event service still owns the real count. Warning is
// ErrBalanceDeductionFailed when the withdraw step failed after payment.
type PurchaseResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Event       *models.Event       `json:"event"`
	Balance     *models.Balance     `json:"balance,omitempty"`
	Quantity    int                 `json:"quantity"`
	Warning     string              `json:"warning,omitempty"`
}

func (s *PurchaseService) Purchase(ctx context.Context, user *models.User, eventID string, quantity int) (*PurchaseResult, error) {
	if user == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	if quantity < 1 {
		return nil, &apperrors.ValidationError{Field: "quantity", Message: "must be at least 1"}
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		s.recordUpstreamError("events")
		return nil, err
	}

	balance, err := s.transactions.Balance(ctx, user.ID)
	if err != nil {
		s.recordUpstreamError("transactions")
		s.recordPurchase("rejected")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrBalanceUnavailable, err)
	}

	total := event.BasePrice * float64(quantity)
	if balance.Amount < total {
		s.recordPurchase("rejected")
		return nil, apperrors.ErrInsufficientBalance
	}

	if remaining := event.RemainingSpots(); remaining >= 0 && quantity > remaining {
		s.recordPurchase("rejected")
		return nil, apperrors.ErrCapacityExceeded
	}

	tx, err := s.transactions.CreateTransaction(ctx, models.CreateTransactionRequest{
		UserID:        user.ID,
		Amount:        total,
		Description:   fmt.Sprintf("Ticket purchase for %s (%d tickets)", event.Title, quantity),
		PaymentMethod: "Balance",
	})
	if err != nil {
		s.recordUpstreamError("transactions")
		s.recordPurchase("failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentFailed, err)
	}

	processed, err := s.transactions.ProcessPayment(ctx, tx.ID)
	if err != nil {
		s.recordUpstreamError("transactions")
		s.recordPurchase("failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentFailed, err)
	}

	purchased := ExtractQuantity(processed.Description, processed.Amount, event.BasePrice)

	updated := *event
	updated.RegisteredCount += purchased
	updated.CountStale = true

	result := &PurchaseResult{
		Transaction: processed,
		Event:       &updated,
		Quantity:    purchased,
	}

	freshBalance, err := s.transactions.Withdraw(ctx, models.WithdrawFundsRequest{
		UserID:      user.ID,
		Amount:      total,
		Description: processed.Description,
	})
	if err != nil {
		// Payment already went through, the ticket is owned. Do not roll
		// back; report the missed deduction and re-fetch the real balance.
		logger.WithContext(ctx).Warn("balance deduction failed after payment",
			"transaction_id", processed.ID,
			"user_id", user.ID,
			"amount", total,
			"error", err)

		result.Warning = apperrors.ErrBalanceDeductionFailed.Error()
		if fresh, ferr := s.transactions.Balance(ctx, user.ID); ferr == nil {
			result.Balance = fresh
		}

		if perr := s.natsClient.Publish(models.SubjectBalanceDeductionFailed, models.BalanceDeductionFailedEvent{
			TransactionID: processed.ID,
			UserID:        user.ID,
			Amount:        total,
			Timestamp:     time.Now().UTC(),
		}); perr != nil {
			logger.WithContext(ctx).Error("failed to publish deduction failure", "error", perr)
		}

		if s.collector != nil {
			s.collector.RecordDeductionFailure()
		}
		s.recordPurchase("completed_with_warning")
	} else {
		result.Balance = freshBalance
		s.recordPurchase("completed")
	}

	if perr := s.natsClient.Publish(models.SubjectPurchaseCompleted, models.PurchaseCompletedEvent{
		TransactionID: processed.ID,
		EventID:       event.ID,
		UserID:        user.ID,
		Quantity:      purchased,
		Amount:        total,
		Timestamp:     time.Now().UTC(),
	}); perr != nil {
		logger.WithContext(ctx).Error("failed to publish purchase completion", "error", perr)
	}

	return result, nil
}

var quantityPattern = regexp.MustCompile(`\((\d+) tickets?\)`)

// ExtractQuantity recovers how many tickets a transaction covered. The
// description carries it as "(<n> tickets)"; when the pattern is absent the
// amount divided by the unit price is the next best guess, and one ticket is
// the floor.
func ExtractQuantity(description string, amount, unitPrice float64) int {
	if m := quantityPattern.FindStringSubmatch(description); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if unitPrice > 0 {
		if n := int(math.Round(amount / unitPrice)); n > 0 {
			return n
		}
	}
	return 1
}

func (s *PurchaseService) recordPurchase(outcome string) {
	if s.collector != nil {
		s.collector.RecordPurchase(outcome)
	}
}

func (s *PurchaseService) recordUpstreamError(service string) {
	if s.collector != nil {
		s.collector.RecordUpstreamError(service)
	}
}
