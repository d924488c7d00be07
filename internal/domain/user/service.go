package user

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

// UpdateRequest carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type UpdateRequest struct {
	DisplayName *string
	Password    *string
	Avatar      *auth.AvatarUpload
}

// UpdateFields is the persisted shape of an update after hashing/uploading.
type UpdateFields struct {
	DisplayName  *string
	PasswordHash *string
	AvatarURL    *string
}

// Repository abstracts user persistence for profile operations.
type Repository interface {
	GetByID(ctx context.Context, id int64) (auth.User, bool, error)
	Update(ctx context.Context, id int64, fields UpdateFields) (auth.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]auth.User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]auth.User, error)
	List(ctx context.Context) ([]auth.User, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// AvatarStore uploads avatar images and returns their public URL.
type AvatarStore interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

// LookupCache caches collaborator lookups keyed by email.
type LookupCache interface {
	Get(ctx context.Context, email string) (auth.UserView, bool, error)
	Set(ctx context.Context, view auth.UserView, ttl time.Duration) error
}

// Config controls profile service behavior.
type Config struct {
	LookupCacheTTL time.Duration
}

// Service exposes profile workflows.
type Service interface {
	Profile(ctx context.Context, id int64) (auth.UserView, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (auth.UserView, error)
	FindByEmails(ctx context.Context, emails []string) ([]auth.UserView, error)
	FindByIDs(ctx context.Context, ids []int64) ([]auth.UserView, error)
	List(ctx context.Context) ([]auth.UserView, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type service struct {
	cfg     Config
	repo    Repository
	avatars AvatarStore
	cache   LookupCache
	logger  *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, avatars AvatarStore, cache LookupCache, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		repo:    repo,
		avatars: avatars,
		cache:   cache,
		logger:  logger.With("component", "user.service"),
	}
}

func (s *service) Profile(ctx context.Context, id int64) (auth.UserView, error) {
	user, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return auth.UserView{}, apperrors.Wrap("internal", "failed to load profile", err)
	}
	if !found {
		return auth.UserView{}, apperrors.Wrap("not_found", "user not found", nil)
	}
	return view(user), nil
}

// Update mutates displayName, password, and avatar. The caller identity
// comes from the bearer token subject, never from the request body.
func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (auth.UserView, error) {
	_, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return auth.UserView{}, apperrors.Wrap("internal", "failed to load user", err)
	}
	if !found {
		return auth.UserView{}, apperrors.Wrap("not_found", "user not found", nil)
	}

	fields := UpdateFields{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return auth.UserView{}, apperrors.Wrap("invalid_input", "displayName cannot be empty", nil)
		}
		fields.DisplayName = &name
	}
	if req.Password != nil {
		if strings.TrimSpace(*req.Password) == "" {
			return auth.UserView{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return auth.UserView{}, apperrors.Wrap("internal", "failed to hash password", err)
		}
		hash := string(hashed)
		fields.PasswordHash = &hash
	}
	if req.Avatar != nil && len(req.Avatar.Data) > 0 {
		url, err := s.avatars.Upload(ctx, req.Avatar.FileName, req.Avatar.ContentType, req.Avatar.Data)
		if err != nil {
			return auth.UserView{}, apperrors.Wrap("upstream_error", "failed to upload avatar", err)
		}
		fields.AvatarURL = &url
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return auth.UserView{}, apperrors.Wrap("internal", "failed to update user", err)
	}
	return view(updated), nil
}

// FindByEmails resolves collaborators by email, preserving request order and
// skipping unknown addresses. Hits are served from the lookup cache.
func (s *service) FindByEmails(ctx context.Context, emails []string) ([]auth.UserView, error) {
	normalized := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email != "" {
			normalized = append(normalized, email)
		}
	}
	if len(normalized) == 0 {
		return []auth.UserView{}, nil
	}

	resolved := make(map[string]auth.UserView, len(normalized))
	missing := make([]string, 0, len(normalized))
	for _, email := range normalized {
		if s.cache != nil {
			if cached, ok, err := s.cache.Get(ctx, email); err == nil && ok {
				resolved[email] = cached
				continue
			}
		}
		missing = append(missing, email)
	}

	if len(missing) > 0 {
		users, err := s.repo.FindByEmails(ctx, missing)
		if err != nil {
			return nil, apperrors.Wrap("internal", "failed to fetch users", err)
		}
		for _, u := range users {
			v := view(u)
			resolved[strings.ToLower(u.Email)] = v
			if s.cache != nil {
				if err := s.cache.Set(ctx, v, s.cfg.LookupCacheTTL); err != nil {
					s.logger.Warn("lookup cache write failed", "error", err)
				}
			}
		}
	}

	out := make([]auth.UserView, 0, len(normalized))
	for _, email := range normalized {
		if v, ok := resolved[email]; ok {
			out = append(out, v)
		} else {
			s.logger.Warn("no user found for email", "email", email)
		}
	}
	return out, nil
}

func (s *service) FindByIDs(ctx context.Context, ids []int64) ([]auth.UserView, error) {
	valid := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []auth.UserView{}, nil
	}
	users, err := s.repo.FindByIDs(ctx, valid)
	if err != nil {
		return nil, apperrors.Wrap("internal", "failed to fetch users", err)
	}
	return views(users), nil
}

func (s *service) List(ctx context.Context) ([]auth.UserView, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("internal", "failed to list users", err)
	}
	return views(users), nil
}

// DeleteAll is the administrative bulk delete. Normal flows never hard
// delete credentials.
func (s *service) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.Wrap("internal", "failed to delete users", err)
	}
	s.logger.Info("all users deleted", "count", deleted)
	return deleted, nil
}

func view(u auth.User) auth.UserView {
	return auth.UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
	}
}

func views(users []auth.User) []auth.UserView {
	out := make([]auth.UserView, 0, len(users))
	for _, u := range users {
		out = append(out, view(u))
	}
	return out
}
