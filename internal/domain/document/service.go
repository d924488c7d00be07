package document

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

// Repository abstracts document metadata persistence.
type Repository interface {
	Create(ctx context.Context, doc Document) (Document, error)
	Get(ctx context.Context, id uuid.UUID) (Document, bool, error)
	ListByEmail(ctx context.Context, email string) ([]Document, error)
	Update(ctx context.Context, doc Document) (Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes document metadata workflows. Access checks run server
// side against the stored access list, never against client-reported lists.
type Service interface {
	Create(ctx context.Context, creatorID int64, creatorEmail, title string) (Document, error)
	Get(ctx context.Context, id uuid.UUID, requesterEmail string) (Document, error)
	ListForUser(ctx context.Context, email string) ([]Document, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, requesterEmail, title string) (Document, error)
	Share(ctx context.Context, id uuid.UUID, requesterEmail, email string, role Role) (Document, error)
	RemoveAccess(ctx context.Context, id uuid.UUID, requesterEmail, email string) (Document, error)
	Delete(ctx context.Context, id uuid.UUID, requesterEmail string) error
	Collaborators(ctx context.Context, id uuid.UUID, requesterEmail, filter string) ([]string, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{repo: repo, logger: logger.With("component", "document.service")}
}

func (s *service) Create(ctx context.Context, creatorID int64, creatorEmail, title string) (Document, error) {
	creatorEmail = normalizeEmail(creatorEmail)
	if creatorEmail == "" {
		return Document{}, apperrors.Wrap("invalid_input", "creator email cannot be empty", nil)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled"
	}
	now := time.Now().UTC()
	doc := Document{
		ID:           uuid.New(),
		Title:        title,
		CreatorID:    creatorID,
		CreatorEmail: creatorEmail,
		Accesses:     map[string]Role{creatorEmail: RoleEditor},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		return Document{}, apperrors.Wrap("internal", "failed to create document", err)
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, requesterEmail string) (Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if _, ok := doc.RoleOf(normalizeEmail(requesterEmail)); !ok {
		return Document{}, apperrors.Wrap("forbidden", "no access to document", nil)
	}
	return doc, nil
}

func (s *service) ListForUser(ctx context.Context, email string) ([]Document, error) {
	docs, err := s.repo.ListByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperrors.Wrap("internal", "failed to list documents", err)
	}
	return docs, nil
}

func (s *service) UpdateTitle(ctx context.Context, id uuid.UUID, requesterEmail, title string) (Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !doc.CanEdit(normalizeEmail(requesterEmail)) {
		return Document{}, apperrors.Wrap("forbidden", "editor access required", nil)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Document{}, apperrors.Wrap("invalid_input", "title cannot be empty", nil)
	}
	doc.Title = title
	doc.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return Document{}, apperrors.Wrap("internal", "failed to update document", err)
	}
	return updated, nil
}

func (s *service) Share(ctx context.Context, id uuid.UUID, requesterEmail, email string, role Role) (Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !doc.CanEdit(normalizeEmail(requesterEmail)) {
		return Document{}, apperrors.Wrap("forbidden", "editor access required", nil)
	}
	email = normalizeEmail(email)
	if email == "" {
		return Document{}, apperrors.Wrap("invalid_input", "collaborator email cannot be empty", nil)
	}
	if !role.Valid() {
		return Document{}, apperrors.Wrap("invalid_input", "role must be viewer or editor", nil)
	}
	if doc.Accesses == nil {
		doc.Accesses = map[string]Role{}
	}
	doc.Accesses[email] = role
	doc.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return Document{}, apperrors.Wrap("internal", "failed to share document", err)
	}
	return updated, nil
}

func (s *service) RemoveAccess(ctx context.Context, id uuid.UUID, requesterEmail, email string) (Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if !doc.CanEdit(normalizeEmail(requesterEmail)) {
		return Document{}, apperrors.Wrap("forbidden", "editor access required", nil)
	}
	email = normalizeEmail(email)
	if email == doc.CreatorEmail {
		return Document{}, apperrors.Wrap("invalid_input", "cannot remove the document creator", nil)
	}
	delete(doc.Accesses, email)
	doc.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, doc)
	if err != nil {
		return Document{}, apperrors.Wrap("internal", "failed to update document", err)
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID, requesterEmail string) error {
	doc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if normalizeEmail(requesterEmail) != doc.CreatorEmail {
		return apperrors.Wrap("forbidden", "only the creator can delete a document", nil)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Wrap("internal", "failed to delete document", err)
	}
	return nil
}

// Collaborators lists the other access-list members, optionally filtered by
// an email substring.
func (s *service) Collaborators(ctx context.Context, id uuid.UUID, requesterEmail, filter string) ([]string, error) {
	requesterEmail = normalizeEmail(requesterEmail)
	doc, err := s.Get(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]string, 0, len(doc.Accesses))
	for email := range doc.Accesses {
		if email == requesterEmail {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(email), filter) {
			continue
		}
		out = append(out, email)
	}
	sort.Strings(out)
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, apperrors.Wrap("internal", "failed to load document", err)
	}
	if !found {
		return Document{}, apperrors.Wrap("not_found", "document not found", nil)
	}
	return doc, nil
}

func normalizeEmail(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}
