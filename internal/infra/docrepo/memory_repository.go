package docrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nduongg04/live-docs/internal/domain/document"
)

// MemoryRepository is an in-memory implementation for tests and local dev.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]document.Document
}

// NewMemoryRepository constructs a repository backed by process memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[uuid.UUID]document.Document)}
}

func (r *MemoryRepository) Create(_ context.Context, doc document.Document) (document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = cloneDoc(doc)
	return doc, nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (document.Document, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return document.Document{}, false, nil
	}
	return cloneDoc(doc), true, nil
}

func (r *MemoryRepository) ListByEmail(_ context.Context, email string) ([]document.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []document.Document
	for _, doc := range r.docs {
		if _, ok := doc.Accesses[email]; ok {
			out = append(out, cloneDoc(doc))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, doc document.Document) (document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = cloneDoc(doc)
	return doc, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func cloneDoc(doc document.Document) document.Document {
	accesses := make(map[string]document.Role, len(doc.Accesses))
	for email, role := range doc.Accesses {
		accesses[email] = role
	}
	doc.Accesses = accesses
	return doc
}

var _ document.Repository = (*MemoryRepository)(nil)
