package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "docpin/internal/auth"
	"docpin/internal/documents"
	"docpin/internal/messages"
	"docpin/internal/otp"
	"docpin/internal/pinning"
	"docpin/internal/reports"
	"docpin/internal/services/health"
	"docpin/internal/shared/config"
	"docpin/internal/shared/metrics"
	"docpin/internal/shared/server/middleware"
	"docpin/internal/shared/server/respond"
	"docpin/internal/users"
)

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	DocumentHandler *documents.Handler
	MessageHandler  *messages.Handler
	ReportHandler   *reports.Handler
	UserHandler     *users.Handler
	OTPHandler      *otp.Handler
	GoogleAuth      *googleauth.GoogleService
	// Gateway serves local pins; only set when the local pinner is active.
	Gateway         *pinning.GatewayHandler
	RateLimiter     *middleware.RateLimiter
}

// DefaultRateLimitRules are per-principal token buckets for each route group.
var DefaultRateLimitRules = map[string]middleware.RateLimitRule{
	middleware.GroupDefault: {Rate: 10, Burst: 30},
	middleware.GroupUpload:  {Rate: 1, Burst: 5},
	middleware.GroupOTP:     {Rate: 0.2, Burst: 3},
}

var rateLimitRoutes = map[string]string{
	"POST /api/v1/documents":        middleware.GroupUpload,
	"POST /api/v1/auth/otp/request": middleware.GroupOTP,
	"POST /api/v1/auth/otp/verify":  middleware.GroupOTP,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsDevLike() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    DefaultRateLimitRules,
			GroupFor: middleware.GroupForRoutes(rateLimitRoutes),
			Limiter:  deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())
	if deps.Gateway != nil {
		deps.Gateway.RegisterRoutes(r)
	}

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}
	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.OTPHandler != nil {
		deps.OTPHandler.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.MessageHandler != nil {
		deps.MessageHandler.RegisterRoutes(api)
	}
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
