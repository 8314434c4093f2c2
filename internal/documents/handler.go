package documents

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docpin/internal/shared/server/middleware"
	"docpin/internal/shared/server/respond"
)

const maxUploadSize = 25 << 20 // 25MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.GET("/documents", h.list)
	rg.GET("/documents/:uid", h.get)
	rg.GET("/documents/:uid/url", h.url)
	rg.GET("/documents/:uid/metadata", h.metadata)
	rg.DELETE("/documents/:uid", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": maxUploadSize})
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	name := fileHeader.Filename
	if custom := strings.TrimSpace(c.PostForm("fileName")); custom != "" {
		name = custom
	}

	doc, err := h.Svc.Upload(c.Request.Context(), userID, name, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrPinFailed):
			respond.Error(c, http.StatusBadGateway, "pinning_failed", "failed to pin file", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create document", nil)
		}
		return
	}

	c.Set(middleware.DocumentUIDKey, doc.UID)
	respond.Created(c, h.toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	docs, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		}
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, h.toResponse(doc))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	doc, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, h.toResponse(doc))
}

func (h *Handler) url(c *gin.Context) {
	doc, ok := h.lookup(c)
	if !ok {
		return
	}
	respond.OK(c, gin.H{"url": h.Svc.FileURL(doc)})
}

func (h *Handler) metadata(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	list, err := h.Svc.Metadata(c.Request.Context(), userID, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "pinning_failed", "failed to fetch pin metadata", nil)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	res, err := h.Svc.Delete(c.Request.Context(), userID, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete document", nil)
		return
	}
	respond.OK(c, DeleteResponse{Deleted: true, Unpinned: res.Unpinned, Shared: res.Shared})
}

func (h *Handler) lookup(c *gin.Context) (Document, bool) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	doc, err := h.Svc.Get(c.Request.Context(), userID, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return Document{}, false
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch document", nil)
		return Document{}, false
	}
	return doc, true
}
