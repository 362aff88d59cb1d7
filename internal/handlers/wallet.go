package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type fundsRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// GetBalance - GET /api/wallet/balance
func (h *Handlers) GetBalance(c *gin.Context) {
	balance, err := h.services.Wallet.Balance(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// TopUp - POST /api/wallet/topup
func (h *Handlers) TopUp(c *gin.Context) {
	var req fundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.services.Wallet.TopUp(c.Request.Context(), currentUser(c), req.Amount, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// WithdrawFunds - POST /api/wallet/withdraw
func (h *Handlers) WithdrawFunds(c *gin.Context) {
	var req fundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance, err := h.services.Wallet.Withdraw(c.Request.Context(), currentUser(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// ListMyTransactions - GET /api/wallet/transactions
func (h *Handlers) ListMyTransactions(c *gin.Context) {
	txs, err := h.services.Wallet.Transactions(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
