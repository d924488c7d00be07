package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

// TokenManager signs and verifies the access/refresh token pair. The two
// token kinds use independent secrets, so a refresh token never validates
// as an access token and vice versa.
type TokenManager struct {
	cfg Config
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(cfg Config) *TokenManager {
	return &TokenManager{cfg: cfg}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateAccess mints a short-lived access token for the user.
func (m *TokenManager) GenerateAccess(user User) (string, error) {
	return m.generate(user, m.cfg.AccessSecret, m.cfg.AccessTokenTTL)
}

// GenerateRefresh mints a long-lived refresh token for the user.
func (m *TokenManager) GenerateRefresh(user User) (string, error) {
	return m.generate(user, m.cfg.RefreshSecret, m.cfg.RefreshTokenTTL)
}

// ParseAccess verifies an access token and returns its claims.
func (m *TokenManager) ParseAccess(token string) (Claims, error) {
	return m.parse(token, m.cfg.AccessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *TokenManager) ParseRefresh(token string) (Claims, error) {
	return m.parse(token, m.cfg.RefreshSecret)
}

func (m *TokenManager) generate(user User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        newTokenID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", apperrors.Wrap("internal", "failed to sign token", err)
	}
	return signed, nil
}

func (m *TokenManager) parse(token, secret string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, apperrors.Wrap("unauthorized", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("unauthorized", "token invalid", nil)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, apperrors.Wrap("unauthorized", "token missing expiry", nil)
	}
	if claims.ExpiresAt.Time.Before(time.Now()) {
		return Claims{}, apperrors.Wrap("unauthorized", "token expired", nil)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Claims{}, apperrors.Wrap("unauthorized", "token subject malformed", err)
	}
	return Claims{
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// TokenExpiry extracts the expiry from a token without verifying the
// signature. The session coordinator uses it to decide whether a refresh is
// due; verification happens backend-side on every API call.
func TokenExpiry(token string) (time.Time, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, &tokenClaims{})
	if err != nil {
		return time.Time{}, err
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token missing expiry")
	}
	return claims.ExpiresAt.Time, nil
}

func newTokenID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
