package pinning

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docpin/internal/shared/server/respond"
)

// GatewayHandler serves pinned bytes at /ipfs/:cid for the local pinner.
type GatewayHandler struct {
	Svc *Service
}

// NewGatewayHandler constructs a GatewayHandler.
func NewGatewayHandler(svc *Service) *GatewayHandler {
	return &GatewayHandler{Svc: svc}
}

// RegisterRoutes attaches the gateway route.
func (h *GatewayHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ipfs/:cid", h.serve)
}

func (h *GatewayHandler) serve(c *gin.Context) {
	cid := c.Param("cid")
	rc, err := h.Svc.Fetch(c.Request.Context(), cid)
	if err != nil {
		if errors.Is(err, ErrPinNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "pin not found", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "gateway_failed", "failed to fetch pin", nil)
		return
	}
	defer rc.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(rc, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to read pin", nil)
		return
	}
	c.Header("Content-Type", http.DetectContentType(sniff[:n]))
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write(sniff[:n]); err != nil {
		return
	}
	_, _ = io.Copy(c.Writer, rc)
}
