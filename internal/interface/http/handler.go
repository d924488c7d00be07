package http

import (
	"log/slog"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/document"
	"github.com/nduongg04/live-docs/internal/domain/session"
	"github.com/nduongg04/live-docs/internal/domain/user"
	"github.com/nduongg04/live-docs/internal/infra/config"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	cfg         *config.Config
	authSvc     auth.Service
	userSvc     user.Service
	docSvc      document.Service
	coordinator *session.Coordinator
	codec       *session.Codec
	logger      *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(
	cfg *config.Config,
	authSvc auth.Service,
	userSvc user.Service,
	docSvc document.Service,
	coordinator *session.Coordinator,
	codec *session.Codec,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		cfg:         cfg,
		authSvc:     authSvc,
		userSvc:     userSvc,
		docSvc:      docSvc,
		coordinator: coordinator,
		codec:       codec,
		logger:      logger.With("component", "http.handler"),
	}
}
