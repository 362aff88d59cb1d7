package models

// TransactionStatus as reported by the transaction service.
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "Pending"
	TransactionSuccess  TransactionStatus = "Success"
	TransactionFailed   TransactionStatus = "Failed"
	TransactionRefunded TransactionStatus = "Refunded"
)

// Transaction is a locally observed copy; the transaction service owns the
// authoritative state.
type Transaction struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	TicketID      string            `json:"ticket_id,omitempty"`
	Amount        float64           `json:"amount"`
	Description   string            `json:"description"`
	PaymentMethod string            `json:"payment_method"`
	Status        TransactionStatus `json:"status"`
	Reference     string            `json:"reference,omitempty"`
	CreatedAt     string            `json:"created_at,omitempty"`
	UpdatedAt     string            `json:"updated_at,omitempty"`
}

// Balance is a user's wallet amount, read and mutated only through the
// transaction service's add/withdraw endpoints.
type Balance struct {
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

type CreateTransactionRequest struct {
	UserID        string  `json:"user_id"`
	TicketID      string  `json:"ticket_id,omitempty"`
	Amount        float64 `json:"amount"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
}

type AddFundsRequest struct {
	UserID        string  `json:"user_id"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Description   string  `json:"description,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

type WithdrawFundsRequest struct {
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description,omitempty"`
}

// PurchaseRequest is the gateway-facing body of the ticket-buy flow.
type PurchaseRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
