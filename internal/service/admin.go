package service

import (
	"context"

	"tixgate/internal/models"
)

// AdminTransactionAPI is the slice of the transaction service the admin
// console uses.
type AdminTransactionAPI interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Refund(ctx context.Context, transactionID string) (*models.Transaction, error)
	Delete(ctx context.Context, transactionID string) error
}

// AdminService backs the transaction console. Role gating happens at the
// route guard; everything here is plain pass-through to the ledger owner.
type AdminService struct {
	transactions AdminTransactionAPI
}

func NewAdminService(transactions AdminTransactionAPI) *AdminService {
	return &AdminService{transactions: transactions}
}

func (s *AdminService) Transactions(ctx context.Context) ([]models.Transaction, error) {
	return s.transactions.List(ctx)
}

func (s *AdminService) Refund(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return s.transactions.Refund(ctx, transactionID)
}

func (s *AdminService) DeleteTransaction(ctx context.Context, transactionID string) error {
	return s.transactions.Delete(ctx, transactionID)
}
