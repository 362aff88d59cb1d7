package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tixgate/internal/models"
)

// ListEventTickets - GET /api/tickets/event/:eventId
func (h *Handlers) ListEventTickets(c *gin.Context) {
	tickets, err := h.services.Tickets.ByEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// CreateTicket - POST /api/tickets
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req models.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.services.Tickets.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// DeleteTicket - DELETE /api/tickets/:id
func (h *Handlers) DeleteTicket(c *gin.Context) {
	if err := h.services.Tickets.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateTicket - POST /api/tickets/:id/validate
func (h *Handlers) ValidateTicket(c *gin.Context) {
	ticket, err := h.services.Tickets.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}
