package auth

import "time"

// Config drives authentication behavior. Access and refresh tokens are
// signed with independent secrets and expiries.
type Config struct {
	AccessSecret         string
	RefreshSecret        string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	AvatarPlaceholderURL string
	Google               GoogleConfig
}

// GoogleConfig holds settings for verifying Google sign-in assertions.
type GoogleConfig struct {
	ClientID string
}

// User represents a persisted account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExternalAccount links an external provider identity to exactly one user.
// The pair (Provider, ProviderAccountID) is globally unique.
type ExternalAccount struct {
	ID                int64
	UserID            int64
	Provider          string
	ProviderAccountID string
	Type              string
	CreatedAt         time.Time
}

// AvatarUpload carries an avatar file received with a multipart request.
type AvatarUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Email       string
	DisplayName string
	Password    string
	Avatar      *AvatarUpload
}

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token pair together with the user profile.
type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserView `json:"user"`
}

// RefreshResponse carries the re-minted access token. RefreshToken is only
// set when the backend rotated it.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Claims are extracted from a verified JWT.
type Claims struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// ProviderCallback is the payload posted by the frontend after an external
// provider sign-in completed.
type ProviderCallback struct {
	Provider    string         `json:"provider"`
	AccessToken string         `json:"accessToken"`
	IDToken     string         `json:"idToken"`
	Profile     map[string]any `json:"profile"`
}

// ProviderIdentity is a verified assertion from an identity provider.
type ProviderIdentity struct {
	Subject string
	Email   string
}

func toView(user User) UserView {
	return UserView{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Avatar:      user.Avatar,
		CreatedAt:   user.CreatedAt,
	}
}
