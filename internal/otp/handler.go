package otp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches OTP login routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/otp/request", h.request)
	rg.POST("/auth/otp/verify", h.verify)
}

type requestBody struct {
	Email string `json:"email"`
}

type verifyBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handler) request(c *gin.Context) {
	var body requestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	if err := h.Svc.Request(c.Request.Context(), body.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			respond.Error(c, http.StatusBadRequest, "validation_error", "a valid email is required", nil)
		case errors.Is(err, ErrMailFailed):
			respond.Error(c, http.StatusBadGateway, "mail_failed", "failed to send otp", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue otp", nil)
		}
		return
	}
	respond.JSON(c, http.StatusAccepted, gin.H{"sent": true})
}

func (h *Handler) verify(c *gin.Context) {
	var body verifyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Verify(c.Request.Context(), body.Email, body.OTP)
	if err != nil {
		if errors.Is(err, ErrInvalidOTP) {
			respond.Error(c, http.StatusUnauthorized, "invalid_otp", "invalid or expired otp", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to verify otp", nil)
		return
	}
	respond.OK(c, gin.H{
		"token": res.Token,
		"user": gin.H{
			"id":         res.User.ID,
			"email":      res.User.Email,
			"fullName":   res.User.FullName,
			"pictureUrl": res.User.PictureURL,
		},
	})
}
