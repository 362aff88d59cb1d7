package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/models"
	"tixgate/internal/session"
)

// PurchaseTickets - POST /api/events/:id/purchase
// One purchase at a time per session; the guard here is the request-in-flight
// check, not the submit button.
func (h *Handlers) PurchaseTickets(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil || sess.IsGuest() {
		respondError(c, apperrors.ErrNotAuthenticated)
		return
	}

	var req models.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := sess.BeginPurchase(); err != nil {
		if apperrors.Is(err, session.ErrPurchaseInFlight) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "a purchase is already in progress",
				"code":  "PURCHASE_IN_FLIGHT",
			})
			return
		}
		respondError(c, err)
		return
	}
	defer sess.EndPurchase()

	result, err := h.services.Purchase.Purchase(c.Request.Context(), sess.User(), c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
