package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/session"
)

const maxAvatarBytes = 5 << 20

func (h *Handler) register(c *gin.Context) {
	req := auth.RegisterRequest{
		Email:       c.PostForm("email"),
		DisplayName: c.PostForm("displayName"),
		Password:    c.PostForm("password"),
	}
	if req.DisplayName == "" {
		req.DisplayName = c.PostForm("username")
	}
	avatar, err := readAvatarUpload(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "failed to read avatar upload", err))
		return
	}
	req.Avatar = avatar

	resp, err := h.authSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	h.writeSessionCookie(c, session.FromLogin(resp))
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid login payload", err))
		return
	}
	resp, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	h.writeSessionCookie(c, session.FromLogin(resp))
	c.JSON(http.StatusOK, resp)
}

// refresh exchanges the refresh token carried in the Authorization header for
// a new access token.
func (h *Handler) refresh(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "refresh token missing", nil))
		return
	}
	resp, err := h.authSvc.Refresh(c.Request.Context(), token)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) providerCallback(c *gin.Context) {
	var req auth.ProviderCallback
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid provider payload", err))
		return
	}
	req.Provider = c.Param("provider")

	resp, err := h.authSvc.ExchangeProvider(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	h.writeSessionCookie(c, session.FromLogin(resp))
	c.JSON(http.StatusOK, resp)
}

// readAvatarUpload pulls the optional avatar file out of a multipart form.
func readAvatarUpload(c *gin.Context) (*auth.AvatarUpload, error) {
	file, err := c.FormFile("avatar")
	if err != nil {
		// Missing file or a non-multipart request both mean "no avatar".
		return nil, nil
	}
	if file.Size > maxAvatarBytes {
		return nil, &HTTPError{Status: http.StatusBadRequest, Code: "invalid_input", Message: "avatar exceeds the 5MB limit"}
	}
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAvatarBytes {
		return nil, &HTTPError{Status: http.StatusBadRequest, Code: "invalid_input", Message: "avatar exceeds the 5MB limit"}
	}
	return &auth.AvatarUpload{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
