package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tixgate/internal/models"
)

// ListEvents - GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	events, err := h.services.Events.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent - POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent - PUT /api/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	var req models.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// TransitionEvent - POST /api/events/:id/:action (publish, cancel, complete)
func (h *Handlers) TransitionEvent(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := h.services.Events.Transition(c.Request.Context(), currentUser(c), c.Param("id"), action)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// DeleteEvent - DELETE /api/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	if err := h.services.Events.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func currentUser(c *gin.Context) *models.User {
	if sess := currentSession(c); sess != nil {
		return sess.User()
	}
	return nil
}
