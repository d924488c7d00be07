package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	apperrors "github.com/nduongg04/live-docs/pkg/errors"
)

func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header", nil))
			return
		}
		claims, err := svc.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			if apperrors.IsCode(err, "unauthorized") {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", errMessage(err), err))
			} else {
				abortWithError(c, NewHTTPError(http.StatusInternalServerError, "auth_failed", errMessage(err), err))
			}
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
