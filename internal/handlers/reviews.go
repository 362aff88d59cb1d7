package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tixgate/internal/models"
)

// ListEventReviews - GET /api/reviews/event/:eventId
func (h *Handlers) ListEventReviews(c *gin.Context) {
	reviews, err := h.services.Reviews.ByEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ListFlaggedReviews - GET /api/reviews/flagged
func (h *Handlers) ListFlaggedReviews(c *gin.Context) {
	reviews, err := h.services.Reviews.Flagged(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// CreateReview - POST /api/reviews/event/:eventId
func (h *Handlers) CreateReview(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Create(c.Request.Context(), currentUser(c), c.Param("eventId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// UpdateReview - PUT /api/reviews/:id
func (h *Handlers) UpdateReview(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.services.Reviews.Update(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview - DELETE /api/reviews/:id
func (h *Handlers) DeleteReview(c *gin.Context) {
	if err := h.services.Reviews.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FlagReview - POST /api/reviews/:id/flag
func (h *Handlers) FlagReview(c *gin.Context) {
	review, err := h.services.Reviews.Flag(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// CancelFlagReview - POST /api/reviews/:id/cancel-flag
func (h *Handlers) CancelFlagReview(c *gin.Context) {
	review, err := h.services.Reviews.CancelFlag(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
