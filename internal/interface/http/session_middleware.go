package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nduongg04/live-docs/internal/domain/session"
)

// sessionMiddleware rehydrates the session from the encrypted cookie and runs
// it through the refresh coordinator. A refreshed or failed session is written
// back so the client converges on the new state. An unreadable cookie counts
// as no session at all.
func (h *Handler) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(h.cfg.Session.CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		sess, err := h.codec.Decode(raw)
		if err != nil {
			h.logger.Warn("session cookie unreadable", "error", err)
			h.clearSessionCookie(c)
			c.Next()
			return
		}

		outcome := h.coordinator.Resolve(c.Request.Context(), sess)
		switch outcome.State {
		case session.StateRefreshed, session.StateError:
			h.writeSessionCookie(c, outcome.Session)
		}
		setSession(c, outcome.Session)
		c.Next()
	}
}

// routeGuard redirects unauthenticated requests on protected page paths to
// the sign-in page. A session parked in the refresh-error state counts as
// unauthenticated.
func (h *Handler) routeGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := getSession(c)
		if ok && !sess.IsZero() && !sess.Failed() {
			c.Next()
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, h.cfg.Session.SignInPath)
		c.Abort()
	}
}

func (h *Handler) writeSessionCookie(c *gin.Context, sess session.Session) {
	encoded, err := h.codec.Encode(sess)
	if err != nil {
		h.logger.Error("failed to encode session cookie", "error", err)
		return
	}
	maxAge := int(h.cfg.Auth.RefreshTokenTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, encoded, maxAge, "/", "", secureRequest(c), true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", secureRequest(c), true)
}

func secureRequest(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
