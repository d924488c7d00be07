package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

// Service exposes authentication workflows.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error)
	ExchangeProvider(ctx context.Context, req ProviderCallback) (LoginResponse, error)
	ValidateAccess(ctx context.Context, token string) (Claims, error)
}

type service struct {
	cfg      Config
	repo     Repository
	tokens   *TokenManager
	avatars  AvatarStore
	verifier IdentityVerifier
	logger   *slog.Logger
}

// NewService constructs a Service instance. verifier may be nil when no
// provider is configured for ID-token verification.
func NewService(cfg Config, repo Repository, tokens *TokenManager, avatars AvatarStore, verifier IdentityVerifier, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		repo:     repo,
		tokens:   tokens,
		avatars:  avatars,
		verifier: verifier,
		logger:   logger.With("component", "auth.service"),
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "invalid email address", err)
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "displayName cannot be empty", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
	}
	_, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("internal", "failed to check user", err)
	}
	if exists {
		return LoginResponse{}, apperrors.Wrap("conflict", "email already registered", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("internal", "failed to hash password", err)
	}

	avatarURL := s.cfg.AvatarPlaceholderURL
	if req.Avatar != nil && len(req.Avatar.Data) > 0 {
		uploaded, err := s.avatars.Upload(ctx, req.Avatar.FileName, req.Avatar.ContentType, req.Avatar.Data)
		if err != nil {
			return LoginResponse{}, apperrors.Wrap("upstream_error", "failed to upload avatar", err)
		}
		avatarURL = uploaded
	}

	user, err := s.repo.Create(ctx, email, displayName, string(hashed), avatarURL)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return LoginResponse{}, apperrors.Wrap("conflict", "email already registered", err)
		}
		return LoginResponse{}, apperrors.Wrap("internal", "failed to create user", err)
	}
	return s.buildLoginResponse(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "invalid email address", err)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
	}
	user, found, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("internal", "failed to fetch user", err)
	}
	if !found {
		return LoginResponse{}, apperrors.Wrap("unauthorized", "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, apperrors.Wrap("unauthorized", "invalid email or password", nil)
	}
	return s.buildLoginResponse(user)
}

// Refresh exchanges a valid refresh token for a new access token. The
// subject of the new access token always matches the refresh token's.
func (s *service) Refresh(ctx context.Context, refreshToken string) (RefreshResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return RefreshResponse{}, apperrors.Wrap("unauthorized", "refresh token missing", nil)
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return RefreshResponse{}, err
	}
	user, found, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return RefreshResponse{}, apperrors.Wrap("internal", "failed to load user", err)
	}
	if !found {
		return RefreshResponse{}, apperrors.Wrap("unauthorized", "user not found", nil)
	}
	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return RefreshResponse{}, err
	}
	return RefreshResponse{AccessToken: access}, nil
}

func (s *service) ValidateAccess(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap("unauthorized", "token missing", nil)
	}
	return s.tokens.ParseAccess(token)
}

// ExchangeProvider resolves an external provider assertion to a local user,
// creating the user and the account link on first sign-in, and returns the
// same token pair contract as Login.
func (s *service) ExchangeProvider(ctx context.Context, req ProviderCallback) (LoginResponse, error) {
	profile, err := normalizeProviderProfile(req.Provider, req.Profile)
	if err != nil {
		return LoginResponse{}, err
	}
	if s.verifier != nil && req.Provider == ProviderGoogle {
		var identity ProviderIdentity
		switch {
		case req.IDToken != "":
			identity, err = s.verifier.Verify(ctx, req.Provider, req.IDToken)
		case req.AccessToken != "":
			lookup, ok := s.verifier.(IdentityLookup)
			if !ok {
				return LoginResponse{}, apperrors.Wrap("unauthorized", "provider id token missing", nil)
			}
			identity, err = lookup.Identity(ctx, req.AccessToken)
		default:
			return LoginResponse{}, apperrors.Wrap("unauthorized", "provider token missing", nil)
		}
		if err != nil {
			return LoginResponse{}, err
		}
		if identity.Subject != profile.SubjectID {
			return LoginResponse{}, apperrors.Wrap("unauthorized", "provider subject mismatch", nil)
		}
	}

	account, found, err := s.repo.GetAccount(ctx, req.Provider, profile.SubjectID)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("internal", "failed to fetch external account", err)
	}
	if found {
		user, ok, err := s.repo.GetByID(ctx, account.UserID)
		if err != nil {
			return LoginResponse{}, apperrors.Wrap("internal", "failed to load user", err)
		}
		if !ok {
			return LoginResponse{}, apperrors.Wrap("unauthorized", "user not found", nil)
		}
		return s.buildLoginResponse(user)
	}

	email, err := normalizeEmail(profile.Email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "invalid provider email", err)
	}
	user, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("internal", "failed to check existing user", err)
	}
	if !exists {
		passwordHash, err := hashRandomPassword()
		if err != nil {
			return LoginResponse{}, apperrors.Wrap("internal", "failed to generate password hash", err)
		}
		avatarURL := profile.Avatar
		if avatarURL == "" {
			avatarURL = s.cfg.AvatarPlaceholderURL
		}
		user, err = s.repo.Create(ctx, email, profile.DisplayName, passwordHash, avatarURL)
		if err != nil {
			if errors.Is(err, ErrEmailExists) {
				return LoginResponse{}, apperrors.Wrap("conflict", "email already registered", err)
			}
			return LoginResponse{}, apperrors.Wrap("internal", "failed to create user", err)
		}
	}

	if _, err := s.repo.LinkAccount(ctx, ExternalAccount{
		UserID:            user.ID,
		Provider:          req.Provider,
		ProviderAccountID: profile.SubjectID,
		Type:              "oauth",
	}); err != nil {
		if errors.Is(err, ErrAccountExists) {
			return LoginResponse{}, apperrors.Wrap("conflict", "external account already linked", err)
		}
		return LoginResponse{}, apperrors.Wrap("internal", "failed to link external account", err)
	}
	return s.buildLoginResponse(user)
}

func (s *service) buildLoginResponse(user User) (LoginResponse, error) {
	access, err := s.tokens.GenerateAccess(user)
	if err != nil {
		return LoginResponse{}, err
	}
	refresh, err := s.tokens.GenerateRefresh(user)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         toView(user),
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

// hashRandomPassword produces an unusable password hash for accounts that
// only ever sign in through an external provider.
func hashRandomPassword() (string, error) {
	raw, err := randomString(32)
	if err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func randomString(size int) (string, error) {
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
