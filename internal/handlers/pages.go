package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginPage - GET /login
// Landing point for guard redirects. Echoes the returnUrl so the front end
// can navigate back after a successful login.
func (h *Handlers) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "login required",
		"returnUrl": c.Query("returnUrl"),
	})
}

// UnauthorizedPage - GET /unauthorized
func (h *Handlers) UnauthorizedPage(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"error": "you do not have permission to view this page",
	})
}
