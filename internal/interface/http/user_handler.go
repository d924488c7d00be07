package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nduongg04/live-docs/internal/domain/session"
	"github.com/nduongg04/live-docs/internal/domain/user"
)

func (h *Handler) me(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return
	}
	view, err := h.userSvc.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, view)
}

// updateUser mutates the caller's own profile. The target identity always
// comes from the bearer token, never from the payload.
func (h *Handler) updateUser(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return
	}

	req := user.UpdateRequest{}
	if name, present := c.GetPostForm("displayName"); present {
		req.DisplayName = &name
	} else if name, present := c.GetPostForm("username"); present {
		req.DisplayName = &name
	}
	if password, present := c.GetPostForm("password"); present {
		req.Password = &password
	}
	avatar, err := readAvatarUpload(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "failed to read avatar upload", err))
		return
	}
	req.Avatar = avatar

	view, err := h.userSvc.Update(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}

	if sess, ok := getSession(c); ok && !sess.IsZero() {
		merged := sess.MergeProfile(session.UserInfo{
			ID:          view.ID,
			Email:       view.Email,
			DisplayName: view.DisplayName,
			Avatar:      view.Avatar,
		})
		h.writeSessionCookie(c, merged)
	}
	c.JSON(http.StatusOK, view)
}

type findByEmailsRequest struct {
	Emails []string `json:"emails"`
}

// findByEmails resolves collaborator profiles for an ordered email list.
func (h *Handler) findByEmails(c *gin.Context) {
	var req findByEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid email list payload", err))
		return
	}
	views, err := h.userSvc.FindByEmails(c.Request.Context(), req.Emails)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, views)
}

type findByIDsRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *Handler) findByIDs(c *gin.Context) {
	var req findByIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid id list payload", err))
		return
	}
	views, err := h.userSvc.FindByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) listUsers(c *gin.Context) {
	views, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) deleteAllUsers(c *gin.Context) {
	deleted, err := h.userSvc.DeleteAll(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
