package session

import "time"

// ErrRefreshToken is the terminal error marker carried by a session whose
// refresh token could not be exchanged. The route guard treats it the same
// as a missing session.
const ErrRefreshToken = "RefreshTokenError"

// UserInfo is the profile slice carried inside a session.
type UserInfo struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
}

// Session is the client-held bundle of tokens, profile, and the optional
// terminal error marker. It is rehydrated from the encrypted cookie on every
// request.
type Session struct {
	User         UserInfo  `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Error        string    `json:"error,omitempty"`
}

// IsZero reports whether the session carries no tokens at all.
func (s Session) IsZero() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// Failed reports whether the session is in the terminal refresh-error state.
func (s Session) Failed() bool {
	return s.Error == ErrRefreshToken
}

// MergeProfile merges updated user fields into the session without touching
// token state. Empty fields leave the current value in place.
func (s Session) MergeProfile(user UserInfo) Session {
	if user.Email != "" {
		s.User.Email = user.Email
	}
	if user.DisplayName != "" {
		s.User.DisplayName = user.DisplayName
	}
	if user.Avatar != "" {
		s.User.Avatar = user.Avatar
	}
	if user.ID != 0 {
		s.User.ID = user.ID
	}
	return s
}
