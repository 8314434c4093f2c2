package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	googleauth "docpin/internal/auth"
	"docpin/internal/documents"
	"docpin/internal/jobs"
	"docpin/internal/llm"
	openai "docpin/internal/llm/openai"
	"docpin/internal/messages"
	"docpin/internal/otp"
	"docpin/internal/pinning"
	"docpin/internal/reports"
	"docpin/internal/services/health"
	"docpin/internal/shared/config"
	"docpin/internal/shared/server"
	"docpin/internal/shared/storage/db"
	localstore "docpin/internal/shared/storage/object/local"
	s3store "docpin/internal/shared/storage/object/s3"
	"docpin/internal/shared/telemetry"
	"docpin/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Jobs   *jobs.Runner

	Pins             *pinning.Service
	UsersService     *users.Service
	DocumentsService *documents.Service
	MessagesService  *messages.Service
	ReportsService   *reports.Service
	OTPService       *otp.Service
}

// Build prepares dependencies and routes. Call Close when done.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	telemetry.SetLevel(cfg.LogLevel)

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, DB: sqlDB}

	app.Redis = buildRedis(ctx, cfg)

	pinner, local, err := buildPinner(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	var cache pinning.MetadataCache
	if app.Redis != nil {
		cache = pinning.NewRedisMetadataCache(app.Redis, cfg.PinMetadataTTL)
	}
	app.Pins = pinning.NewService(pinner, cache)
	var gateway *pinning.GatewayHandler
	if local {
		gateway = pinning.NewGatewayHandler(app.Pins)
	}

	mailer, err := buildMailer(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	llmClient, err := buildLLM(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	buildServices(app, mailer, llmClient)

	app.Jobs = jobs.NewRunner(time.Minute)
	if err := app.Jobs.Add(jobs.OTPPurgeJob{Purger: app.OTPService}); err != nil {
		app.Close()
		return nil, err
	}

	googleAuth := googleauth.NewGoogleService(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.UIRedirectURL,
		app.UsersService,
	)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          buildHealth(app),
		DocumentHandler: documents.NewHandler(app.DocumentsService),
		MessageHandler:  messages.NewHandler(app.MessagesService),
		ReportHandler:   reports.NewHandler(app.ReportsService),
		UserHandler:     users.NewHandler(app.UsersService),
		OTPHandler:      otp.NewHandler(app.OTPService),
		GoogleAuth:      googleAuth,
		Gateway:         gateway,
	})

	return app, nil
}

// Close releases external connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		telemetry.Warn("bootstrap.redis.disabled", map[string]any{"reason": err.Error()})
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		telemetry.Warn("bootstrap.redis.disabled", map[string]any{"reason": err.Error()})
		_ = client.Close()
		return nil
	}
	return client
}

// buildPinner returns Pinata when configured, otherwise the local pinner in dev.
// local reports whether /ipfs/:cid must be served by this process.
func buildPinner(ctx context.Context, cfg config.Config) (pinning.Pinner, bool, error) {
	if cfg.PinataJWT != "" {
		client, err := pinning.NewPinataClient(pinning.PinataOptions{
			JWT:        cfg.PinataJWT,
			APIURL:     cfg.PinataAPIURL,
			GatewayURL: cfg.PinataGatewayURL,
			Timeout:    cfg.PinataTimeout,
		})
		if err != nil {
			return nil, false, err
		}
		return client, false, nil
	}
	if !cfg.IsDevLike() {
		return nil, false, fmt.Errorf("PINATA_JWT is required: %w", pinning.ErrMissingCredentials)
	}
	if cfg.PinStoreBackend == "s3" {
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.PinStoreBucket, cfg.PinStorePrefix)
		if err != nil {
			return nil, false, err
		}
		telemetry.Warn("bootstrap.pinner.local", map[string]any{"bucket": cfg.PinStoreBucket, "prefix": cfg.PinStorePrefix})
		return pinning.NewLocalPinner(store, cfg.PublicBaseURL), true, nil
	}
	telemetry.Warn("bootstrap.pinner.local", map[string]any{"dir": cfg.LocalStoreDir})
	return pinning.NewLocalPinner(localstore.New(cfg.LocalStoreDir), cfg.PublicBaseURL), true, nil
}

func buildMailer(ctx context.Context, cfg config.Config) (otp.Mailer, error) {
	if cfg.MailProvider == "ses" {
		return otp.NewSESMailer(ctx, cfg.AWSRegion, cfg.MailFrom)
	}
	if !cfg.IsDevLike() {
		return nil, errors.New("MAIL_PROVIDER=ses is required outside dev")
	}
	return otp.LogMailer{}, nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	case "":
		return llm.PlaceholderClient{}, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildServices(app *App, mailer otp.Mailer, llmClient llm.Client) {
	var (
		docRepo     documents.Repo
		messageRepo messages.Repo
		reportRepo  reports.Repo
		userRepo    users.Repo
		otpRepo     otp.Repo
	)
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		messageRepo = &messages.PGRepo{DB: app.DB}
		reportRepo = &reports.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		otpRepo = &otp.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		messageRepo = messages.NewMemoryRepo()
		reportRepo = reports.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		otpRepo = otp.NewMemoryRepo(nil)
	}

	app.UsersService = users.NewService(userRepo)
	app.DocumentsService = documents.NewService(docRepo, app.Pins)
	app.MessagesService = messages.NewService(messageRepo, app.DocumentsService, app.Pins, llmClient)
	app.ReportsService = reports.NewService(reportRepo, app.DocumentsService, app.Pins, llmClient)
	app.DocumentsService.Dependents = []documents.Dependent{app.MessagesService, app.ReportsService}
	app.OTPService = otp.NewService(otpRepo, mailer, app.UsersService, app.Config.OTPTTL)
}

func buildHealth(app *App) *health.Service {
	var checks []health.Checker
	if app.DB != nil {
		checks = append(checks, health.CheckFunc{Label: "postgres", Fn: app.DB.PingContext})
	}
	if app.Redis != nil {
		checks = append(checks, health.CheckFunc{Label: "redis", Fn: func(ctx context.Context) error {
			return app.Redis.Ping(ctx).Err()
		}})
	}
	return health.NewService(checks...)
}
