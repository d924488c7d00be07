package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nduongg04/live-docs/internal/domain/document"
	"github.com/nduongg04/live-docs/internal/domain/session"
)

// getSessionState returns the resolved session, including the terminal
// refresh-error marker when set. An absent session yields an empty object so
// the frontend can branch without a 401 round trip.
func (h *Handler) getSessionState(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok || sess.IsZero() {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, sessionView(sess))
}

func (h *Handler) signOut(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"signedOut": true})
}

// collabAuth issues the identity payload for the hosted collaboration
// provider. It requires an intact session with a live access token.
func (h *Handler) collabAuth(c *gin.Context) {
	sess, ok := getSession(c)
	if !ok || sess.IsZero() || sess.Failed() {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "active session required", nil))
		return
	}
	identity := document.Identify(sess.User.ID, sess.User.DisplayName, sess.User.Email, sess.User.Avatar)
	c.JSON(http.StatusOK, identity)
}

// sessionView is the client-facing session shape. Tokens stay inside the
// encrypted cookie; only the profile, expiry, and error marker go out.
func sessionView(sess session.Session) gin.H {
	view := gin.H{
		"user":      sess.User,
		"expiresAt": sess.ExpiresAt,
	}
	if sess.Error != "" {
		view["error"] = sess.Error
	}
	return view
}
