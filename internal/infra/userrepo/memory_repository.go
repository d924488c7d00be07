package userrepo

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/user"
)

// MemoryRepository is an in-memory implementation for tests and local dev.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]auth.User
	accounts   map[string]auth.ExternalAccount
	userSeq    int64
	accountSeq int64
}

// NewMemoryRepository constructs a repository backed by process memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[int64]auth.User),
		accounts: make(map[string]auth.ExternalAccount),
	}
}

func (r *MemoryRepository) Create(_ context.Context, email, displayName, passwordHash, avatarURL string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return auth.User{}, auth.ErrEmailExists
		}
	}
	r.userSeq++
	u := auth.User{
		ID:           r.userSeq,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		Avatar:       avatarURL,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, true, nil
		}
	}
	return auth.User{}, false, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	return u, ok, nil
}

func (r *MemoryRepository) GetAccount(_ context.Context, provider, providerAccountID string) (auth.ExternalAccount, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[accountKey(provider, providerAccountID)]
	return account, ok, nil
}

func (r *MemoryRepository) LinkAccount(_ context.Context, account auth.ExternalAccount) (auth.ExternalAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := accountKey(account.Provider, account.ProviderAccountID)
	if _, exists := r.accounts[key]; exists {
		return auth.ExternalAccount{}, auth.ErrAccountExists
	}
	r.accountSeq++
	account.ID = r.accountSeq
	account.CreatedAt = time.Now().UTC()
	r.accounts[key] = account
	return account, nil
}

func (r *MemoryRepository) Update(_ context.Context, id int64, fields user.UpdateFields) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	if fields.DisplayName != nil {
		u.DisplayName = *fields.DisplayName
	}
	if fields.PasswordHash != nil {
		u.PasswordHash = *fields.PasswordHash
	}
	if fields.AvatarURL != nil {
		u.Avatar = *fields.AvatarURL
	}
	r.users[id] = u
	return u, nil
}

func (r *MemoryRepository) FindByEmails(_ context.Context, emails []string) ([]auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []auth.User
	for _, email := range emails {
		for _, u := range r.users {
			if strings.EqualFold(u.Email, email) {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (r *MemoryRepository) FindByIDs(_ context.Context, ids []int64) ([]auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []auth.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]auth.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *MemoryRepository) DeleteAll(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := int64(len(r.users))
	r.users = make(map[int64]auth.User)
	r.accounts = make(map[string]auth.ExternalAccount)
	return deleted, nil
}

func accountKey(provider, providerAccountID string) string {
	return provider + ":" + providerAccountID
}

var (
	_ auth.Repository = (*MemoryRepository)(nil)
	_ user.Repository = (*MemoryRepository)(nil)
)
