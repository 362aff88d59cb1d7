package external

import (
	"context"
	"net/http"
	"strings"

	"tixgate/internal/models"
)

// TransactionClient wraps the transaction service, which owns balances and
// the authoritative transaction ledger. All of its responses use the strict
// envelope.
type TransactionClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTransactionClient(cfg Config) *TransactionClient {
	return &TransactionClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg.Timeout),
	}
}

func (tc *TransactionClient) Balance(ctx context.Context, userID string) (*models.Balance, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodGet, tc.baseURL+"/api/users/"+userID+"/balance", nil)
	if err != nil {
		return nil, err
	}
	var balance models.Balance
	if err := unwrapEnvelope(status, raw, &balance, "failed to fetch balance"); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (tc *TransactionClient) AddFunds(ctx context.Context, req models.AddFundsRequest) (*models.Balance, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPost, tc.baseURL+"/api/balance/add", req)
	if err != nil {
		return nil, err
	}
	var balance models.Balance
	if err := unwrapEnvelope(status, raw, &balance, "failed to add funds"); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (tc *TransactionClient) Withdraw(ctx context.Context, req models.WithdrawFundsRequest) (*models.Balance, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPost, tc.baseURL+"/api/balance/withdraw", req)
	if err != nil {
		return nil, err
	}
	var balance models.Balance
	if err := unwrapEnvelope(status, raw, &balance, "failed to withdraw funds"); err != nil {
		return nil, err
	}
	return &balance, nil
}

func (tc *TransactionClient) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPost, tc.baseURL+"/api/transactions", req)
	if err != nil {
		return nil, err
	}
	var tx models.Transaction
	if err := unwrapEnvelope(status, raw, &tx, "failed to create transaction"); err != nil {
		return nil, err
	}
	return &tx, nil
}

// ProcessPayment moves a pending transaction through payment processing.
func (tc *TransactionClient) ProcessPayment(ctx context.Context, transactionID string) (*models.Transaction, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPut, tc.baseURL+"/api/transactions/"+transactionID+"/process", map[string]any{})
	if err != nil {
		return nil, err
	}
	var tx models.Transaction
	if err := unwrapEnvelope(status, raw, &tx, "failed to process payment"); err != nil {
		return nil, err
	}
	return &tx, nil
}

func (tc *TransactionClient) Refund(ctx context.Context, transactionID string) (*models.Transaction, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodPut, tc.baseURL+"/api/transactions/"+transactionID+"/refund", nil)
	if err != nil {
		return nil, err
	}
	var tx models.Transaction
	if err := unwrapEnvelope(status, raw, &tx, "failed to refund transaction"); err != nil {
		return nil, err
	}
	return &tx, nil
}

// List returns every transaction; admin console use only.
func (tc *TransactionClient) List(ctx context.Context) ([]models.Transaction, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodGet, tc.baseURL+"/api/transactions", nil)
	if err != nil {
		return nil, err
	}
	var txs []models.Transaction
	if err := unwrapEnvelope(status, raw, &txs, "failed to list transactions"); err != nil {
		return nil, err
	}
	return txs, nil
}

func (tc *TransactionClient) UserTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodGet, tc.baseURL+"/api/users/"+userID+"/transactions", nil)
	if err != nil {
		return nil, err
	}
	var txs []models.Transaction
	if err := unwrapEnvelope(status, raw, &txs, "failed to list transactions"); err != nil {
		return nil, err
	}
	return txs, nil
}

func (tc *TransactionClient) Delete(ctx context.Context, transactionID string) error {
	status, raw, err := doJSON(ctx, tc.httpClient, http.MethodDelete, tc.baseURL+"/api/transactions/"+transactionID, nil)
	if err != nil {
		return err
	}
	return unwrapEnvelope(status, raw, nil, "failed to delete transaction")
}
