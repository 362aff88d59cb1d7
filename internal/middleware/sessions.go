package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tixgate/internal/logger"
	"tixgate/internal/session"
	"tixgate/internal/tokenstore"
)

// SessionCookie is the browser cookie carrying the gateway session id.
const SessionCookie = "tg_session"

const sessionCookieMaxAge = 12 * 60 * 60

// Sessions resolves the browser session from its cookie, binds the session
// and its token store into the request context and triggers rehydration.
// A missing or unknown cookie gets a fresh session id.
func Sessions(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || sid == "" {
			sid = logger.NewRequestID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, sessionCookieMaxAge, "/", "", false, true)
		}

		sess := manager.Get(sid)

		ctx := session.NewContext(c.Request.Context(), sess)
		ctx = tokenstore.NewContext(ctx, sess.Store())
		c.Request = c.Request.WithContext(ctx)

		sess.Rehydrate(ctx)

		c.Next()
	}
}
