package usercache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/user"
)

// ValkeyStore caches collaborator lookups in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new cache backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "users"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, email string) (auth.UserView, bool, error) {
	cmd := s.client.B().Get().Key(s.key(email)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return auth.UserView{}, false, nil
		}
		return auth.UserView{}, false, err
	}
	var view auth.UserView
	if err := json.Unmarshal([]byte(payload), &view); err != nil {
		return auth.UserView{}, false, err
	}
	return view, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, view auth.UserView, ttl time.Duration) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.key(view.Email)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) key(email string) string {
	return s.prefix + ":email:" + strings.ToLower(email)
}

var _ user.LookupCache = (*ValkeyStore)(nil)
