package user

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

func TestService_UpdateProfile(t *testing.T) {
	repo := newFakeRepo(
		auth.User{ID: 1, Email: "user@example.com", DisplayName: "Old Name"},
	)
	svc := newTestService(repo, nil)

	name := "New Name"
	password := "new-pass"
	view, err := svc.Update(context.Background(), 1, UpdateRequest{
		DisplayName: &name,
		Password:    &password,
		Avatar:      &auth.AvatarUpload{FileName: "me.png", ContentType: "image/png", Data: []byte{1}},
	})
	require.NoError(t, err)
	require.Equal(t, "New Name", view.DisplayName)
	require.Equal(t, "https://cdn.example.com/me.png", view.Avatar)

	stored := repo.users[1]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-pass")))
}

func TestService_UpdateRejectsEmptyName(t *testing.T) {
	repo := newFakeRepo(auth.User{ID: 1, Email: "user@example.com"})
	svc := newTestService(repo, nil)

	empty := "   "
	_, err := svc.Update(context.Background(), 1, UpdateRequest{DisplayName: &empty})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_UpdateUnknownUser(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	name := "Name"
	_, err := svc.Update(context.Background(), 99, UpdateRequest{DisplayName: &name})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestService_FindByEmailsPreservesOrderAndSkipsUnknown(t *testing.T) {
	repo := newFakeRepo(
		auth.User{ID: 1, Email: "a@example.com", DisplayName: "A"},
		auth.User{ID: 2, Email: "b@example.com", DisplayName: "B"},
		auth.User{ID: 3, Email: "c@example.com", DisplayName: "C"},
	)
	svc := newTestService(repo, nil)

	views, err := svc.FindByEmails(context.Background(), []string{
		"C@Example.com",
		"missing@example.com",
		"a@example.com",
	})
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "c@example.com", views[0].Email)
	require.Equal(t, "a@example.com", views[1].Email)
}

func TestService_FindByEmailsServesCacheHits(t *testing.T) {
	repo := newFakeRepo(auth.User{ID: 1, Email: "a@example.com", DisplayName: "A"})
	cache := newFakeCache()
	svc := newTestService(repo, cache)

	_, err := svc.FindByEmails(context.Background(), []string{"a@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, repo.findByEmailsCalls)

	views, err := svc.FindByEmails(context.Background(), []string{"a@example.com"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, 1, repo.findByEmailsCalls)
}

func TestService_FindByIDsIgnoresNonPositive(t *testing.T) {
	repo := newFakeRepo(
		auth.User{ID: 1, Email: "a@example.com"},
		auth.User{ID: 2, Email: "b@example.com"},
	)
	svc := newTestService(repo, nil)

	views, err := svc.FindByIDs(context.Background(), []int64{0, -4, 2})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, int64(2), views[0].ID)

	views, err = svc.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, views)
}

func TestService_DeleteAll(t *testing.T) {
	repo := newFakeRepo(
		auth.User{ID: 1, Email: "a@example.com"},
		auth.User{ID: 2, Email: "b@example.com"},
	)
	svc := newTestService(repo, nil)

	deleted, err := svc.DeleteAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), deleted)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, views)
}

func newTestService(repo Repository, cache LookupCache) Service {
	handler := slog.NewTextHandler(io.Discard, nil)
	return NewService(
		Config{LookupCacheTTL: time.Minute},
		repo,
		stubAvatarStore{},
		cache,
		slog.New(handler),
	)
}

type stubAvatarStore struct{}

func (stubAvatarStore) Upload(_ context.Context, fileName, _ string, _ []byte) (string, error) {
	return "https://cdn.example.com/" + fileName, nil
}

type fakeRepo struct {
	users             map[int64]auth.User
	findByEmailsCalls int
}

func newFakeRepo(users ...auth.User) *fakeRepo {
	repo := &fakeRepo{users: make(map[int64]auth.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (auth.User, bool, error) {
	user, ok := r.users[id]
	return user, ok, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, fields UpdateFields) (auth.User, error) {
	user := r.users[id]
	if fields.DisplayName != nil {
		user.DisplayName = *fields.DisplayName
	}
	if fields.PasswordHash != nil {
		user.PasswordHash = *fields.PasswordHash
	}
	if fields.AvatarURL != nil {
		user.Avatar = *fields.AvatarURL
	}
	r.users[id] = user
	return user, nil
}

func (r *fakeRepo) FindByEmails(_ context.Context, emails []string) ([]auth.User, error) {
	r.findByEmailsCalls++
	out := make([]auth.User, 0, len(emails))
	for _, email := range emails {
		for _, user := range r.users {
			if strings.EqualFold(user.Email, email) {
				out = append(out, user)
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByIDs(_ context.Context, ids []int64) ([]auth.User, error) {
	out := make([]auth.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(_ context.Context) ([]auth.User, error) {
	out := make([]auth.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeRepo) DeleteAll(_ context.Context) (int64, error) {
	deleted := int64(len(r.users))
	r.users = make(map[int64]auth.User)
	return deleted, nil
}

type fakeCache struct {
	views map[string]auth.UserView
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: make(map[string]auth.UserView)}
}

func (c *fakeCache) Get(_ context.Context, email string) (auth.UserView, bool, error) {
	view, ok := c.views[email]
	return view, ok, nil
}

func (c *fakeCache) Set(_ context.Context, view auth.UserView, _ time.Duration) error {
	c.views[strings.ToLower(view.Email)] = view
	return nil
}
