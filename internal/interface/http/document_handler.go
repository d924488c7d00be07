package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nduongg04/live-docs/internal/domain/auth"
	"github.com/nduongg04/live-docs/internal/domain/document"
)

type createDocumentRequest struct {
	Title string `json:"title"`
}

func (h *Handler) createDocument(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid document payload", err))
		return
	}
	doc, err := h.docSvc.Create(c.Request.Context(), claims.UserID, claims.Email, req.Title)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) getDocument(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := documentID(c)
	if !ok {
		return
	}
	doc, err := h.docSvc.Get(c.Request.Context(), id, claims.Email)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) listDocuments(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	docs, err := h.docSvc.ListForUser(c.Request.Context(), claims.Email)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, docs)
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

func (h *Handler) updateDocumentTitle(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := documentID(c)
	if !ok {
		return
	}
	var req updateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid title payload", err))
		return
	}
	doc, err := h.docSvc.UpdateTitle(c.Request.Context(), id, claims.Email, req.Title)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, doc)
}

type shareDocumentRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) shareDocument(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := documentID(c)
	if !ok {
		return
	}
	var req shareDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid share payload", err))
		return
	}
	doc, err := h.docSvc.Share(c.Request.Context(), id, claims.Email, req.Email, document.Role(req.Role))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, doc)
}

type removeAccessRequest struct {
	Email string `json:"email"`
}

func (h *Handler) removeDocumentAccess(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := documentID(c)
	if !ok {
		return
	}
	var req removeAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid access payload", err))
		return
	}
	doc, err := h.docSvc.RemoveAccess(c.Request.Context(), id, claims.Email, req.Email)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := documentID(c)
	if !ok {
		return
	}
	if err := h.docSvc.Delete(c.Request.Context(), id, claims.Email); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (h *Handler) documentCollaborators(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	id, ok := documentID(c)
	if !ok {
		return
	}
	emails, err := h.docSvc.Collaborators(c.Request.Context(), id, claims.Email, c.Query("filter"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"collaborators": emails})
}

func requireClaims(c *gin.Context) (auth.Claims, bool) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "authentication required", nil))
		return auth.Claims{}, false
	}
	return claims, true
}

func documentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "invalid document id", err))
		return uuid.Nil, false
	}
	return id, true
}
