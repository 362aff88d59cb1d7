package service

import (
	"context"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
)

// WalletAPI covers the balance endpoints the wallet pages use.
type WalletAPI interface {
	Balance(ctx context.Context, userID string) (*models.Balance, error)
	AddFunds(ctx context.Context, req models.AddFundsRequest) (*models.Balance, error)
	Withdraw(ctx context.Context, req models.WithdrawFundsRequest) (*models.Balance, error)
	UserTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

// WalletService fronts a user's own balance and transaction history. Every
// operation is scoped to the acting user; the transaction service owns the
// actual numbers.
type WalletService struct {
	transactions WalletAPI
}

func NewWalletService(transactions WalletAPI) *WalletService {
	return &WalletService{transactions: transactions}
}

func (s *WalletService) Balance(ctx context.Context, actor *models.User) (*models.Balance, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	balance, err := s.transactions.Balance(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return balance, nil
}

func (s *WalletService) TopUp(ctx context.Context, actor *models.User, amount float64, method string) (*models.Balance, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	if amount <= 0 {
		return nil, &apperrors.ValidationError{Field: "amount", Message: "must be positive"}
	}
	if method == "" {
		method = "Bank Transfer"
	}
	return s.transactions.AddFunds(ctx, models.AddFundsRequest{
		UserID:        actor.ID,
		Amount:        amount,
		Description:   "Wallet top-up",
		PaymentMethod: method,
	})
}

func (s *WalletService) Withdraw(ctx context.Context, actor *models.User, amount float64) (*models.Balance, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	if amount <= 0 {
		return nil, &apperrors.ValidationError{Field: "amount", Message: "must be positive"}
	}
	return s.transactions.Withdraw(ctx, models.WithdrawFundsRequest{
		UserID:      actor.ID,
		Amount:      amount,
		Description: "Wallet withdrawal",
	})
}

func (s *WalletService) Transactions(ctx context.Context, actor *models.User) ([]models.Transaction, error) {
	if actor == nil {
		return nil, apperrors.ErrNotAuthenticated
	}
	return s.transactions.UserTransactions(ctx, actor.ID)
}
