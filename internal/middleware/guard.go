package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tixgate/internal/models"
	"tixgate/internal/session"
)

const (
	// LoginPath receives guests with a returnUrl query parameter so they
	// can come back to the page they asked for after signing in.
	LoginPath = "/login"

	// UnauthorizedPath receives signed-in users whose role does not
	// permit the requested page.
	UnauthorizedPath = "/unauthorized"
)

// Guard admits only sessions whose role is in the allowed set. Guests are
// redirected to the login page, authenticated users with the wrong role to
// the unauthorized page. While a session is still rehydrating the request
// is answered with 503 so the client retries instead of being bounced to
// login by a race.
func Guard(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.FromContext(c.Request.Context())
		if sess == nil || sess.IsLoading() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "session not ready",
			})
			return
		}

		if sess.IsGuest() {
			target := c.Request.URL.Path
			if q := c.Request.URL.RawQuery; q != "" {
				target += "?" + q
			}
			c.Redirect(http.StatusFound, LoginPath+"?returnUrl="+url.QueryEscape(target))
			c.Abort()
			return
		}

		if !sess.HasAnyRole(allowed...) {
			c.Redirect(http.StatusFound, UnauthorizedPath)
			c.Abort()
			return
		}

		c.Next()
	}
}
