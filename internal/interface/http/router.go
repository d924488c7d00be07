package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nduongg04/live-docs/internal/infra/config"
)

// NewRouter assembles the gin engine with the middleware chain and every
// route the service exposes.
func NewRouter(cfg *config.Config, h *Handler, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(corsMiddleware(cfg.HTTP.AllowedOrigins))
	engine.Use(errorHandlingMiddleware(logger))
	engine.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, logger))
	engine.Use(h.sessionMiddleware())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.register)
			authGroup.POST("/login", h.login)
			authGroup.POST("/refresh", h.refresh)
			authGroup.POST("/:provider/callback", h.providerCallback)
		}

		api.GET("/session", h.getSessionState)
		api.POST("/session/sign-in", h.login)
		api.POST("/session/sign-out", h.signOut)
		api.POST("/collab/auth", h.collabAuth)

		users := api.Group("/users", authMiddleware(h.authSvc))
		{
			users.GET("", h.listUsers)
			users.GET("/me", h.me)
			users.PATCH("/update", h.updateUser)
			users.POST("/find/emails", h.findByEmails)
			users.POST("/ids", h.findByIDs)
			users.POST("/delete-all", h.deleteAllUsers)
		}

		docs := api.Group("/documents", authMiddleware(h.authSvc))
		{
			docs.POST("", h.createDocument)
			docs.GET("", h.listDocuments)
			docs.GET("/:id", h.getDocument)
			docs.PATCH("/:id", h.updateDocumentTitle)
			docs.DELETE("/:id", h.deleteDocument)
			docs.POST("/:id/share", h.shareDocument)
			docs.DELETE("/:id/access", h.removeDocumentAccess)
			docs.GET("/:id/users", h.documentCollaborators)
		}
	}

	// Page routes sit behind the guard; unauthenticated visitors are
	// redirected to the sign-in page instead of receiving a 401.
	engine.GET("/", h.routeGuard(), h.pageShell)
	engine.GET("/documents/:id", h.routeGuard(), h.pageShell)
	engine.GET(cfg.Session.SignInPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"page": "sign-in"})
	})

	return engine
}

// pageShell serves the shell payload the frontend hydrates guarded pages
// from. Reaching it at all means the guard admitted the session.
func (h *Handler) pageShell(c *gin.Context) {
	sess, _ := getSession(c)
	c.JSON(http.StatusOK, sessionView(sess))
}
