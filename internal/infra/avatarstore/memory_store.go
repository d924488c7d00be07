package avatarstore

import (
	"context"
	"path"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps uploaded avatars in process memory and serves fake
// URLs. Used in tests and when no object store is configured.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload records the avatar bytes and returns a deterministic-looking URL.
func (s *MemoryStore) Upload(_ context.Context, fileName, _ string, data []byte) (string, error) {
	key := path.Join("avatars", uuid.NewString()+path.Ext(fileName))
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return "memory://" + key, nil
}

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
