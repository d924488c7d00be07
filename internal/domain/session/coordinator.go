package session

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nduongg04/live-docs/internal/domain/auth"
)

// State describes the outcome of resolving a session.
type State int

const (
	// StateValid means the access token has not lapsed; the session passed
	// through unchanged.
	StateValid State = iota
	// StateRefreshed means the access token lapsed and was renewed; the
	// session carries a new access token (and refresh token, if rotated).
	StateRefreshed
	// StateError means the refresh failed; the session carries the terminal
	// RefreshTokenError marker until the user re-authenticates.
	StateError
)

// Outcome is the explicit result of a session read. Refresh failures are
// data, not exceptions: callers branch on State instead of recovering a
// thrown error.
type Outcome struct {
	State   State
	Session Session
}

// Refresher exchanges a refresh token for a fresh access token. The auth
// service implements it directly; remote deployments can substitute an HTTP
// client against the refresh endpoint.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (auth.RefreshResponse, error)
}

// Coordinator re-runs the token lifecycle on every session read: pass
// through while the access token is valid, refresh once it lapses, and park
// the session in the terminal error state when the refresh token itself is
// rejected.
type Coordinator struct {
	refresher Refresher
	group     singleflight.Group
	logger    *slog.Logger
	now       func() time.Time
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(refresher Refresher, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		refresher: refresher,
		logger:    logger.With("component", "session.coordinator"),
		now:       time.Now,
	}
}

// Resolve inspects the session's access token expiry and refreshes it when
// lapsed. Concurrent resolves holding the same refresh token collapse into a
// single backend call; every waiter observes the same rotated pair.
func (c *Coordinator) Resolve(ctx context.Context, sess Session) Outcome {
	if sess.Failed() {
		return Outcome{State: StateError, Session: sess}
	}

	expiry := sess.ExpiresAt
	if expiry.IsZero() {
		parsed, err := auth.TokenExpiry(sess.AccessToken)
		if err != nil {
			c.logger.Warn("access token unreadable, forcing refresh", "error", err)
		}
		expiry = parsed
	}
	if expiry.After(c.now()) {
		return Outcome{State: StateValid, Session: sess}
	}

	if sess.RefreshToken == "" {
		sess.Error = ErrRefreshToken
		return Outcome{State: StateError, Session: sess}
	}

	result, err, _ := c.group.Do(sess.RefreshToken, func() (any, error) {
		return c.refresher.Refresh(ctx, sess.RefreshToken)
	})
	if err != nil {
		c.logger.Warn("refresh token exchange failed", "error", err)
		// Access token left stale on purpose: the guard keys off Error.
		sess.Error = ErrRefreshToken
		return Outcome{State: StateError, Session: sess}
	}

	renewed := result.(auth.RefreshResponse)
	sess.AccessToken = renewed.AccessToken
	if renewed.RefreshToken != "" {
		sess.RefreshToken = renewed.RefreshToken
	}
	if expiry, err := auth.TokenExpiry(renewed.AccessToken); err == nil {
		sess.ExpiresAt = expiry
	} else {
		sess.ExpiresAt = time.Time{}
	}
	return Outcome{State: StateRefreshed, Session: sess}
}

// FromLogin builds a fresh session from a login response.
func FromLogin(resp auth.LoginResponse) Session {
	sess := Session{
		User: UserInfo{
			ID:          resp.User.ID,
			Email:       resp.User.Email,
			DisplayName: resp.User.DisplayName,
			Avatar:      resp.User.Avatar,
		},
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if expiry, err := auth.TokenExpiry(resp.AccessToken); err == nil {
		sess.ExpiresAt = expiry
	}
	return sess
}
