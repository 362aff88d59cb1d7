package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListTransactions - GET /api/admin/transactions
func (h *Handlers) ListTransactions(c *gin.Context) {
	txs, err := h.services.Admin.Transactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// RefundTransaction - PUT /api/admin/transactions/:id/refund
func (h *Handlers) RefundTransaction(c *gin.Context) {
	tx, err := h.services.Admin.Refund(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction - DELETE /api/admin/transactions/:id
func (h *Handlers) DeleteTransaction(c *gin.Context) {
	if err := h.services.Admin.DeleteTransaction(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
