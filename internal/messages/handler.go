package messages

import (
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

// RegisterRoutes attaches message routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:uid/messages", h.list)
	rg.POST("/documents/:uid/messages", h.post)
}

// MessageResponse is the outward-facing representation of a message.
type MessageResponse struct {
	UID          string    `json:"uid"`
	SenderIsUser bool      `json:"senderIsUser"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PostResponse is returned by POST /documents/:uid/messages.
type PostResponse struct {
	Message MessageResponse  `json:"message"`
	Reply   *MessageResponse `json:"reply,omitempty"`
}

type postRequest struct {
	Content string `json:"content"`
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	msgs, err := h.Svc.List(c.Request.Context(), userID, uid)
	if err != nil {
		writeError(c, err, "failed to list messages")
		return
	}
	resp := make([]MessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		resp = append(resp, toResponse(msg))
	}
	respond.OK(c, resp)
}

func (h *Handler) post(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	uid := c.Param("uid")
	c.Set(middleware.DocumentUIDKey, uid)

	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}

	res, err := h.Svc.Post(c.Request.Context(), userID, uid, req.Content)
	if err != nil {
		writeError(c, err, "failed to store message")
		return
	}
	out := PostResponse{Message: toResponse(res.Message)}
	if res.Reply != nil {
		reply := toResponse(*res.Reply)
		out.Reply = &reply
	}
	respond.Created(c, out)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func toResponse(msg Message) MessageResponse {
	return MessageResponse{
		UID:          msg.UID,
		SenderIsUser: msg.SenderIsUser,
		Content:      msg.Content,
		CreatedAt:    msg.CreatedAt,
	}
}
