package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	AuthStrategyJWT    = "jwt"
	AuthStrategyOpaque = "opaque"

	defaultJWTSecret = "change-me"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Filesystem layout
	DataRoot       string // tables and image directories
	ServerDataDir  string // inquiries file and user list
	InquiriesFile  string
	UsersFile      string
	CatalogPath    string // optional YAML override for tables and image categories
	UploadMaxBytes int64

	// Security
	AuthStrategy    string // "jwt" or "opaque"
	JWTSecret       string
	JWTExpiry       time.Duration
	LoginRateLimit  int // login attempts per window per IP
	LoginRateWindow time.Duration

	// HTTP
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Audit database (optional driver switch via ENV, default: sqlite)
	AuditEnabled bool
	DBDriver     string
	DBConnection string

	// Email
	EmailFrom          string
	ResendAPIKey       string
	InquiryNotifyEmail string

	// Observability (optional)
	SentryDSN string

	// Storage mirror for uploaded images (optional, S3-compatible)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	serverDataDir := envString("SERVER_DATA_DIR", filepath.Join("server", "data"))

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "DataNexus"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "5001"),

		// Filesystem layout
		DataRoot:       envString("DATA_ROOT", "public"),
		ServerDataDir:  serverDataDir,
		InquiriesFile:  envString("INQUIRIES_FILE", filepath.Join(serverDataDir, "event_inquiries.csv")),
		UsersFile:      envString("USERS_FILE", filepath.Join(serverDataDir, "users.json")),
		CatalogPath:    envString("CATALOG_PATH", ""),
		UploadMaxBytes: envInt64("UPLOAD_MAX_BYTES", 10<<20), // 10 MiB

		// Security
		AuthStrategy:    strings.ToLower(envString("AUTH_STRATEGY", AuthStrategyJWT)),
		JWTSecret:       envString("JWT_SECRET", defaultJWTSecret),
		JWTExpiry:       envExpiry("JWT_EXPIRY", 2*time.Hour),
		LoginRateLimit:  int(envInt64("LOGIN_RATE_LIMIT", 10)),
		LoginRateWindow: envDuration("LOGIN_RATE_WINDOW", 15*time.Minute),

		// HTTP
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:    envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		// Audit database
		AuditEnabled: envBool("AUDIT_ENABLED", true),
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", filepath.Join(serverDataDir, "audit.db")+"?_pragma=journal_mode(WAL)"),

		// Email (RESEND_API_KEY optional; without it notifications are logged only)
		EmailFrom:          envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey:       envString("RESEND_API_KEY", ""),
		InquiryNotifyEmail: envString("INQUIRY_NOTIFY_EMAIL", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage mirror (disabled unless S3_BUCKET is set)
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
	}

	if cfg.AuthStrategy != AuthStrategyJWT && cfg.AuthStrategy != AuthStrategyOpaque {
		slog.Warn("config unknown auth strategy, using jwt", "value", cfg.AuthStrategy)
		cfg.AuthStrategy = AuthStrategyJWT
	}

	// Production: validate required secrets
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses to start with the development signing secret.
func validateProduction(cfg *Config) {
	if cfg.AuthStrategy == AuthStrategyJWT && cfg.JWTSecret == defaultJWTSecret {
		slog.Error("production deployment requires JWT_SECRET",
			"hint", "set APP_ENV=development for local testing with the default secret")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envExpiry reads a token lifetime. Besides Go durations ("90m", "2h") it
// accepts days and weeks ("7d", "2 weeks") and bare integers as seconds.
func envExpiry(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := parseExpiry(v)
	if err != nil || d <= 0 {
		slog.Warn("config invalid expiry, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

var expiryUnits = map[string]time.Duration{
	"d":     24 * time.Hour,
	"day":   24 * time.Hour,
	"days":  24 * time.Hour,
	"w":     7 * 24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"weeks": 7 * 24 * time.Hour,
}

func parseExpiry(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)

	seconds, err := strconv.ParseInt(v, 10, 64)
	if err == nil {
		return time.Duration(seconds) * time.Second, nil
	}

	i := strings.IndexFunc(v, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if i > 0 {
		unit, ok := expiryUnits[strings.ToLower(strings.TrimSpace(v[i:]))]
		if ok {
			n, err := strconv.ParseFloat(v[:i], 64)
			if err != nil {
				return 0, err
			}
			return time.Duration(n * float64(unit)), nil
		}
	}

	return time.ParseDuration(strings.ReplaceAll(v, " ", ""))
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// S3Enabled reports whether uploaded images are mirrored to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}
