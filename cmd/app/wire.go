//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/nduongg04/live-docs/internal/bootstrap"
	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/document"
	"github.com/nduongg04/live-docs/internal/domain/user"
	"github.com/nduongg04/live-docs/internal/infra/config"
	httpiface "github.com/nduongg04/live-docs/internal/interface/http"
	"github.com/nduongg04/live-docs/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideUserConfig,
		providePostgresPool,
		provideUserStore,
		provideAuthRepository,
		provideUserRepository,
		provideDocumentRepository,
		provideAvatarStore,
		provideAuthAvatarStore,
		provideUserAvatarStore,
		provideLookupCache,
		provideIdentityVerifier,
		provideSessionCodec,
		provideCoordinator,
		provideHTTPServer,
		auth.NewTokenManager,
		auth.NewService,
		user.NewService,
		document.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
