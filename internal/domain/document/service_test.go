package document

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

func TestService_CreateDefaultsTitleAndGrantsCreatorEditor(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "Creator@Example.com", "  ")
	require.NoError(t, err)
	require.Equal(t, "Untitled", doc.Title)
	require.Equal(t, "creator@example.com", doc.CreatorEmail)
	require.Equal(t, RoleEditor, doc.Accesses["creator@example.com"])
	require.NotEqual(t, uuid.Nil, doc.ID)
}

func TestService_GetRequiresMembership(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "creator@example.com", "Notes")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), doc.ID, "stranger@example.com")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "forbidden"))

	got, err := svc.Get(context.Background(), doc.ID, "creator@example.com")
	require.NoError(t, err)
	require.Equal(t, doc.ID, got.ID)

	_, err = svc.Get(context.Background(), uuid.New(), "creator@example.com")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestService_ShareAndRoles(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "creator@example.com", "Notes")
	require.NoError(t, err)

	shared, err := svc.Share(context.Background(), doc.ID, "creator@example.com", "Viewer@Example.com", RoleViewer)
	require.NoError(t, err)
	require.Equal(t, RoleViewer, shared.Accesses["viewer@example.com"])

	// A viewer can read but not mutate.
	_, err = svc.Get(context.Background(), doc.ID, "viewer@example.com")
	require.NoError(t, err)
	_, err = svc.UpdateTitle(context.Background(), doc.ID, "viewer@example.com", "Hijacked")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "forbidden"))
	_, err = svc.Share(context.Background(), doc.ID, "viewer@example.com", "friend@example.com", RoleEditor)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "forbidden"))

	// Promoting to editor unlocks mutation.
	_, err = svc.Share(context.Background(), doc.ID, "creator@example.com", "viewer@example.com", RoleEditor)
	require.NoError(t, err)
	updated, err := svc.UpdateTitle(context.Background(), doc.ID, "viewer@example.com", "Renamed")
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
}

func TestService_ShareRejectsUnknownRole(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "creator@example.com", "Notes")
	require.NoError(t, err)

	_, err = svc.Share(context.Background(), doc.ID, "creator@example.com", "x@example.com", Role("owner"))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_RemoveAccessKeepsCreator(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "creator@example.com", "Notes")
	require.NoError(t, err)
	_, err = svc.Share(context.Background(), doc.ID, "creator@example.com", "viewer@example.com", RoleViewer)
	require.NoError(t, err)

	updated, err := svc.RemoveAccess(context.Background(), doc.ID, "creator@example.com", "viewer@example.com")
	require.NoError(t, err)
	_, ok := updated.RoleOf("viewer@example.com")
	require.False(t, ok)

	_, err = svc.RemoveAccess(context.Background(), doc.ID, "creator@example.com", "creator@example.com")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_DeleteIsCreatorOnly(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "creator@example.com", "Notes")
	require.NoError(t, err)
	_, err = svc.Share(context.Background(), doc.ID, "creator@example.com", "editor@example.com", RoleEditor)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), doc.ID, "editor@example.com")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "forbidden"))

	require.NoError(t, svc.Delete(context.Background(), doc.ID, "creator@example.com"))
	_, err = svc.Get(context.Background(), doc.ID, "creator@example.com")
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestService_CollaboratorsFilterAndOrder(t *testing.T) {
	svc := newTestService()

	doc, err := svc.Create(context.Background(), 1, "creator@example.com", "Notes")
	require.NoError(t, err)
	for _, email := range []string{"zoe@example.com", "amy@example.com", "amy@other.org"} {
		_, err = svc.Share(context.Background(), doc.ID, "creator@example.com", email, RoleViewer)
		require.NoError(t, err)
	}

	all, err := svc.Collaborators(context.Background(), doc.ID, "creator@example.com", "")
	require.NoError(t, err)
	require.Equal(t, []string{"amy@example.com", "amy@other.org", "zoe@example.com"}, all)

	filtered, err := svc.Collaborators(context.Background(), doc.ID, "creator@example.com", "amy")
	require.NoError(t, err)
	require.Equal(t, []string{"amy@example.com", "amy@other.org"}, filtered)
}

func TestIdentify_DeterministicColor(t *testing.T) {
	first := Identify(42, "Doc Writer", "user@example.com", "https://cdn.example.com/a.png")
	second := Identify(42, "Doc Writer", "user@example.com", "https://cdn.example.com/a.png")
	require.Equal(t, first.Color, second.Color)
	require.Contains(t, identityColors, first.Color)
	require.Equal(t, int64(42), first.ID)
}

func newTestService() Service {
	handler := slog.NewTextHandler(io.Discard, nil)
	return NewService(newFakeRepo(), slog.New(handler))
}

type fakeRepo struct {
	docs map[uuid.UUID]Document
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{docs: make(map[uuid.UUID]Document)}
}

func (r *fakeRepo) Create(_ context.Context, doc Document) (Document, error) {
	r.docs[doc.ID] = cloneDoc(doc)
	return doc, nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (Document, bool, error) {
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, false, nil
	}
	return cloneDoc(doc), true, nil
}

func (r *fakeRepo) ListByEmail(_ context.Context, email string) ([]Document, error) {
	out := make([]Document, 0)
	for _, doc := range r.docs {
		if _, ok := doc.RoleOf(email); ok {
			out = append(out, cloneDoc(doc))
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(_ context.Context, doc Document) (Document, error) {
	r.docs[doc.ID] = cloneDoc(doc)
	return doc, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.docs, id)
	return nil
}

func cloneDoc(doc Document) Document {
	accesses := make(map[string]Role, len(doc.Accesses))
	for email, role := range doc.Accesses {
		accesses[email] = role
	}
	doc.Accesses = accesses
	return doc
}
