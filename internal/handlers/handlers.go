package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/external"
	"tixgate/internal/logger"
	"tixgate/internal/messaging"
	"tixgate/internal/service"
	"tixgate/internal/session"
)

type Handlers struct {
	auth       *external.AuthClient
	services   *service.Services
	natsClient *messaging.NATSClient
}

func NewHandlers(auth *external.AuthClient, services *service.Services, natsClient *messaging.NATSClient) *Handlers {
	return &Handlers{
		auth:       auth,
		services:   services,
		natsClient: natsClient,
	}
}

// currentSession returns the session the middleware bound to the request.
func currentSession(c *gin.Context) *session.Session {
	return session.FromContext(c.Request.Context())
}

// respondError translates the typed taxonomy into a status and a stable
// machine-readable code the front end can branch on.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= 500 {
		logger.WithContext(c.Request.Context()).Error("request failed",
			"path", c.Request.URL.Path,
			"error", err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  apperrors.Code(err),
	})
}
