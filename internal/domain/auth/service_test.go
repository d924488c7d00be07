package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "User@Example.com",
		DisplayName: "Doc Writer",
		Password:    "pass1234",
	})
	require.NoError(t, err)
	require.Equal(t, "user@example.com", registered.User.Email)
	require.Equal(t, "Doc Writer", registered.User.DisplayName)
	require.NotZero(t, registered.User.ID)
	require.NotEmpty(t, registered.AccessToken)
	require.NotEmpty(t, registered.RefreshToken)
	require.NotEmpty(t, registered.User.Avatar)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, registered.User.Email, resp.User.Email)

	claims, err := svc.ValidateAccess(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, claims.UserID)
	require.Equal(t, registered.User.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Empty(t, refreshed.RefreshToken)

	renewedClaims, err := svc.ValidateAccess(context.Background(), refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, claims.UserID, renewedClaims.UserID)
}

func TestService_LoginWrongPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "user@example.com",
		DisplayName: "Doc Writer",
		Password:    "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "wrong-pass",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "pass1234",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))
}

func TestService_DuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "user@example.com",
		DisplayName: "First",
		Password:    "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:       "user@example.com",
		DisplayName: "Second",
		Password:    "pass12345",
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "conflict"))
}

func TestService_RefreshTokenNotValidAsAccess(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "user@example.com",
		DisplayName: "Doc Writer",
		Password:    "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.ValidateAccess(context.Background(), resp.RefreshToken)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))
}

func TestService_ExchangeProviderCreatesAndReuses(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	callback := ProviderCallback{
		Provider: ProviderGoogle,
		Profile: map[string]any{
			"sub":     "google-123",
			"email":   "Social@Example.com",
			"name":    "Social User",
			"picture": "https://cdn.example.com/p.png",
		},
	}

	first, err := svc.ExchangeProvider(context.Background(), callback)
	require.NoError(t, err)
	require.Equal(t, "social@example.com", first.User.Email)
	require.Equal(t, "Social User", first.User.DisplayName)
	require.NotEmpty(t, first.AccessToken)

	account, found, err := repo.GetAccount(context.Background(), ProviderGoogle, "google-123")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, first.User.ID, account.UserID)

	second, err := svc.ExchangeProvider(context.Background(), callback)
	require.NoError(t, err)
	require.Equal(t, first.User.ID, second.User.ID)
	require.Len(t, repo.accounts, 1)
}

func TestService_ExchangeProviderLinksExistingEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "user@example.com",
		DisplayName: "Doc Writer",
		Password:    "pass1234",
	})
	require.NoError(t, err)

	resp, err := svc.ExchangeProvider(context.Background(), ProviderCallback{
		Provider: ProviderFacebook,
		Profile: map[string]any{
			"id":    "fb-42",
			"email": "user@example.com",
			"name":  "Doc Writer",
		},
	})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, resp.User.ID)

	account, found, err := repo.GetAccount(context.Background(), ProviderFacebook, "fb-42")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, registered.User.ID, account.UserID)
}

func TestService_ExchangeProviderVerifierSubjectMismatch(t *testing.T) {
	repo := newMemoryRepo()
	verifier := stubVerifier{identity: ProviderIdentity{Subject: "someone-else", Email: "user@example.com"}}
	svc := NewService(Config{
		AccessSecret:         "access-secret",
		RefreshSecret:        "refresh-secret",
		AccessTokenTTL:       time.Hour,
		RefreshTokenTTL:      24 * time.Hour,
		AvatarPlaceholderURL: "https://cdn.example.com/placeholder.png",
	}, repo, NewTokenManager(Config{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}), stubAvatarStore{}, verifier, newTestLogger())

	_, err := svc.ExchangeProvider(context.Background(), ProviderCallback{
		Provider: ProviderGoogle,
		IDToken:  "raw-id-token",
		Profile: map[string]any{
			"sub":   "google-123",
			"email": "user@example.com",
			"name":  "Social User",
		},
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))

	// The userinfo fallback is subject to the same check.
	_, err = svc.ExchangeProvider(context.Background(), ProviderCallback{
		Provider:    ProviderGoogle,
		AccessToken: "provider-access-token",
		Profile: map[string]any{
			"sub":   "google-123",
			"email": "user@example.com",
			"name":  "Social User",
		},
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "unauthorized"))
}

func TestService_ExchangeProviderMissingSubject(t *testing.T) {
	svc := newTestService(newMemoryRepo())

	_, err := svc.ExchangeProvider(context.Background(), ProviderCallback{
		Provider: ProviderGoogle,
		Profile:  map[string]any{"email": "user@example.com"},
	})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func newTestService(repo Repository) Service {
	return NewService(Config{
		AccessSecret:         "access-secret",
		RefreshSecret:        "refresh-secret",
		AccessTokenTTL:       time.Hour,
		RefreshTokenTTL:      24 * time.Hour,
		AvatarPlaceholderURL: "https://cdn.example.com/placeholder.png",
	}, repo, NewTokenManager(Config{
		AccessSecret:    "access-secret",
		RefreshSecret:   "refresh-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}), stubAvatarStore{}, nil, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubVerifier struct {
	identity ProviderIdentity
}

func (s stubVerifier) Verify(_ context.Context, _, _ string) (ProviderIdentity, error) {
	return s.identity, nil
}

func (s stubVerifier) Identity(_ context.Context, _ string) (ProviderIdentity, error) {
	return s.identity, nil
}

type stubAvatarStore struct{}

func (stubAvatarStore) Upload(_ context.Context, fileName, _ string, _ []byte) (string, error) {
	return "https://cdn.example.com/" + fileName, nil
}

type memoryRepo struct {
	users    map[int64]User
	accounts map[string]ExternalAccount
	seq      int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		users:    make(map[int64]User),
		accounts: make(map[string]ExternalAccount),
	}
}

func (m *memoryRepo) Create(_ context.Context, email, displayName, passwordHash, avatarURL string) (User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return User{}, ErrEmailExists
		}
	}
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Avatar:       avatarURL,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) GetByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *memoryRepo) GetAccount(_ context.Context, provider, providerAccountID string) (ExternalAccount, bool, error) {
	account, ok := m.accounts[provider+":"+providerAccountID]
	return account, ok, nil
}

func (m *memoryRepo) LinkAccount(_ context.Context, account ExternalAccount) (ExternalAccount, error) {
	key := account.Provider + ":" + account.ProviderAccountID
	if _, ok := m.accounts[key]; ok {
		return ExternalAccount{}, ErrAccountExists
	}
	m.seq++
	account.ID = m.seq
	account.CreatedAt = time.Now()
	m.accounts[key] = account
	return account, nil
}
