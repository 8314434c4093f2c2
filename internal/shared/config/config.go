package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port               string
	CORSAllowOrigin    []string
	Env                string
	LogLevel           string
	DatabaseURL        string
	RedisURL           string
	PinMetadataTTL     time.Duration
	PinataJWT          string
	PinataAPIURL       string
	PinataGatewayURL   string
	PinataTimeout      time.Duration
	LocalStoreDir      string
	PinStoreBackend    string
	PinStoreBucket     string
	PinStorePrefix     string
	PublicBaseURL      string
	OTPTTL             time.Duration
	MailProvider       string
	MailFrom           string
	AWSRegion          string
	LLMProvider        string
	LLMModel           string
	OpenAIAPIKey       string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	pinataJWT := strings.TrimSpace(os.Getenv("PINATA_JWT"))

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	if env == "production" && pinataJWT == "" {
		log.Printf("PINATA_JWT is required in production")
	}

	port := getEnv("PORT", "8080")

	return Config{
		Port:               port,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:                env,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        dbURL,
		RedisURL:           getEnv("REDIS_URL", ""),
		PinMetadataTTL:     getDuration("PIN_METADATA_TTL", 5*time.Minute),
		PinataJWT:          pinataJWT,
		PinataAPIURL:       strings.TrimRight(getEnv("PINATA_API_URL", "https://api.pinata.cloud"), "/"),
		PinataGatewayURL:   strings.TrimRight(getEnv("PINATA_GATEWAY_URL", "https://gateway.pinata.cloud"), "/"),
		PinataTimeout:      getDuration("PINATA_TIMEOUT", 60*time.Second),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		PinStoreBackend:    normalizePinStore(getEnv("PIN_STORE_BACKEND", "disk")),
		PinStoreBucket:     getEnv("PIN_STORE_S3_BUCKET", ""),
		PinStorePrefix:     getEnv("PIN_STORE_S3_PREFIX", "pins-dev"),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+strings.TrimPrefix(port, ":")), "/"),
		OTPTTL:             getDuration("OTP_TTL", 10*time.Minute),
		MailProvider:       normalizeMailProvider(getEnv("MAIL_PROVIDER", "log")),
		MailFrom:           getEnv("MAIL_FROM", ""),
		AWSRegion:          getEnv("AWS_REGION", ""),
		LLMProvider:        getEnv("LLM_PROVIDER", ""),
		LLMModel:           getEnv("LLM_MODEL", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
	}
}

// IsDevLike reports whether env allows in-memory and local fallbacks.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeMailProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ses":
		return "ses"
	default:
		return "log"
	}
}

func normalizePinStore(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "s3") {
		return "s3"
	}
	return "disk"
}
