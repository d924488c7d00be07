package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/document"
	"github.com/nduongg04/live-docs/internal/domain/session"
	"github.com/nduongg04/live-docs/internal/domain/user"
	"github.com/nduongg04/live-docs/internal/infra/avatarstore"
	"github.com/nduongg04/live-docs/internal/infra/config"
	"github.com/nduongg04/live-docs/internal/infra/docrepo"
	"github.com/nduongg04/live-docs/internal/infra/provider"
	"github.com/nduongg04/live-docs/internal/infra/usercache"
	"github.com/nduongg04/live-docs/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		AccessSecret:         cfg.Auth.AccessSecret,
		RefreshSecret:        cfg.Auth.RefreshSecret,
		AccessTokenTTL:       cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL:      cfg.Auth.RefreshTokenTTL,
		AvatarPlaceholderURL: cfg.Auth.AvatarPlaceholderURL,
		Google: auth.GoogleConfig{
			ClientID: cfg.Providers.Google.ClientID,
		},
	}
}

func provideUserConfig(cfg *config.Config) user.Config {
	return user.Config{
		LookupCacheTTL: cfg.Session.LookupCacheTTL,
	}
}

// providePostgresPool returns nil when postgres is not configured or not
// reachable; repository providers fall back to memory in that case.
func providePostgresPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

// userStore joins the auth and user persistence views of the same table.
type userStore interface {
	auth.Repository
	user.Repository
}

func provideUserStore(pool *pgxpool.Pool) userStore {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideAuthRepository(store userStore) auth.Repository {
	return store
}

func provideUserRepository(store userStore) user.Repository {
	return store
}

func provideDocumentRepository(pool *pgxpool.Pool) document.Repository {
	if pool == nil {
		return docrepo.NewMemoryRepository()
	}
	return docrepo.NewPostgresRepository(pool)
}

// avatarUploader is the shared upload surface of the avatar store.
type avatarUploader interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
}

func provideAvatarStore(cfg *config.Config, logger *slog.Logger) avatarUploader {
	endpoint := strings.TrimSpace(cfg.Storage.Endpoint)
	if endpoint == "" {
		logger.Info("storage endpoint not set, using memory avatar store")
		return avatarstore.NewMemoryStore()
	}
	store, err := avatarstore.NewMinioStore(
		endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.Region,
		cfg.Storage.PublicBaseURL,
		logger,
	)
	if err != nil {
		logger.Error("failed to initialize avatar store, using memory store", "error", err)
		return avatarstore.NewMemoryStore()
	}
	return store
}

func provideAuthAvatarStore(store avatarUploader) auth.AvatarStore {
	return store
}

func provideUserAvatarStore(store avatarUploader) user.AvatarStore {
	return store
}

func provideLookupCache(cfg *config.Config, logger *slog.Logger) user.LookupCache {
	if !cfg.Cache.Enabled {
		return usercache.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(cfg.Cache.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
		return usercache.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
		return usercache.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory cache", "error", err)
		return usercache.NewMemoryStore()
	}
	logger.Info("valkey lookup cache enabled", "addr", cfg.Cache.Addr)
	return usercache.NewValkeyStore(client, "users")
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

// provideIdentityVerifier returns nil when Google sign-in is not configured;
// the auth service skips ID-token verification in that case.
func provideIdentityVerifier(cfg *config.Config, logger *slog.Logger) auth.IdentityVerifier {
	if cfg.Providers.Google.ClientID == "" {
		logger.Info("google client id not set, provider tokens are accepted unverified")
		return nil
	}
	return provider.NewGoogleVerifier(cfg.Providers.Google.ClientID, logger)
}

func provideSessionCodec(cfg *config.Config) (*session.Codec, error) {
	return session.NewCodec(cfg.Session.EncryptionKey)
}

func provideCoordinator(svc auth.Service, logger *slog.Logger) *session.Coordinator {
	return session.NewCoordinator(svc, logger)
}

func provideHTTPServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
}
