package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docpin/internal/documents"
	"docpin/internal/shared/server/middleware"
	"docpin/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:uid/reports", h.list)
	rg.POST("/documents/:uid/reports", h.create)
	rg.POST("/documents/:uid/reports/generate", h.generate)
	rg.GET("/documents/:uid/reports/:reportUid", h.get)
	rg.DELETE("/documents/:uid/reports/:reportUid", h.delete)
}

// ReportResponse is the outward-facing representation of a report.
type ReportResponse struct {
	UID       string          `json:"uid"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"createdAt"`
}

type createRequest struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

type generateRequest struct {
	Title string `json:"title"`
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	items, err := h.Svc.List(c.Request.Context(), userID, uid)
	if err != nil {
		writeError(c, err, "failed to list reports")
		return
	}
	resp := make([]ReportResponse, 0, len(items))
	for _, report := range items {
		resp = append(resp, toResponse(report))
	}
	respond.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	report, err := h.Svc.Create(c.Request.Context(), userID, uid, req.Title, req.Content)
	if err != nil {
		writeError(c, err, "failed to create report")
		return
	}
	respond.Created(c, toResponse(report))
}

func (h *Handler) generate(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	report, err := h.Svc.Generate(c.Request.Context(), userID, uid, req.Title)
	if err != nil {
		writeError(c, err, "failed to generate report")
		return
	}
	respond.Created(c, toResponse(report))
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	report, err := h.Svc.Get(c.Request.Context(), userID, uid, c.Param("reportUid"))
	if err != nil {
		writeError(c, err, "failed to fetch report")
		return
	}
	respond.OK(c, toResponse(report))
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	if err := h.Svc.Delete(c.Request.Context(), userID, uid, c.Param("reportUid")); err != nil {
		writeError(c, err, "failed to delete report")
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "llm_unavailable", "report generation is not configured", nil)
	case errors.Is(err, ErrExtractFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not read document text", nil)
	case errors.Is(err, ErrGenerate):
		respond.Error(c, http.StatusBadGateway, "generation_failed", "report generation failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(report Report) ReportResponse {
	return ReportResponse{
		UID:       report.UID,
		Title:     report.Title,
		Content:   report.Content,
		CreatedAt: report.CreatedAt,
	}
}
