package usercache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/user"
)

type cachedView struct {
	payload   auth.UserView
	expiresAt time.Time
}

// MemoryStore is an in-memory lookup cache for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]cachedView
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]cachedView)}
}

func (s *MemoryStore) Get(_ context.Context, email string) (auth.UserView, bool, error) {
	key := strings.ToLower(email)
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return auth.UserView{}, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return auth.UserView{}, false, nil
	}
	return entry.payload, true, nil
}

func (s *MemoryStore) Set(_ context.Context, view auth.UserView, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[strings.ToLower(view.Email)] = cachedView{payload: view, expiresAt: exp}
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ user.LookupCache = (*MemoryStore)(nil)
