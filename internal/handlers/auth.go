package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/logger"
	"tixgate/internal/models"
)

// Register - POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleAttendee
	}

	auth, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	user := h.adoptSession(c, auth)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login - POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	auth, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	user := h.adoptSession(c, auth)

	// Honor the returnUrl the guard attached when it bounced the user here.
	if target := c.Query("returnUrl"); target != "" && target[0] == '/' {
		c.Header("Location", target)
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// adoptSession promotes the browser session with the identity the auth
// service just confirmed. The token store was already written by the client.
func (h *Handlers) adoptSession(c *gin.Context, auth *models.AuthResponse) *models.User {
	user := &models.User{
		ID:    auth.UserID,
		Name:  auth.Name,
		Email: auth.Email,
		Role:  auth.Role,
	}
	if sess := currentSession(c); sess != nil {
		sess.SetUser(user)
	}

	if err := h.natsClient.Publish(models.SubjectSessionSignedIn, models.SessionSignedInEvent{
		UserID:    user.ID,
		Role:      user.Role,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		logger.WithContext(c.Request.Context()).Error("failed to publish sign-in", "error", err)
	}

	return user
}

// Me - GET /api/auth/me
func (h *Handlers) Me(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil || sess.IsGuest() {
		respondError(c, apperrors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": sess.User()})
}

// UpdateProfile - PUT /api/auth/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil || sess.IsGuest() {
		respondError(c, apperrors.ErrNotAuthenticated)
		return
	}

	var patch models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), sess.User().ID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	sess.SetUser(user)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout - POST /api/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	sess := currentSession(c)
	if sess != nil {
		if err := sess.Logout(c.Request.Context()); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
