package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the asset service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"framevault"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Metadata store
	DBDriver       string        `env:"DB_DRIVER" envDefault:"postgres"` // Options: "postgres" or "sqlite"
	DBDSN          string        `env:"DB_DSN"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Storage Backend Selection
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"s3"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath string `env:"LOCAL_STORAGE_PATH"`

	// S3 Storage Configuration (Cloudflare R2 and other S3-compatible stores)
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION" envDefault:"auto"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3AccessKeyID  string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle bool   `env:"S3_USE_PATH_STYLE" envDefault:"true"`

	// PublicBaseURL is prepended to storage keys to build asset URLs.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// Upload / download
	UploadURLTTL   time.Duration `env:"UPLOAD_URL_TTL" envDefault:"2h"`
	DownloadURLTTL time.Duration `env:"DOWNLOAD_URL_TTL" envDefault:"1h"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"2147483648"`
	// MaxUploadRequestBytes caps a whole multipart request; 0 leaves only the per-file limit.
	MaxUploadRequestBytes int64 `env:"MAX_UPLOAD_REQUEST_BYTES" envDefault:"0"`

	// Stats cache
	RedisURL      string        `env:"REDIS_URL"`
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s"`

	// Orphan reconciliation
	ReconcileEnabled     bool          `env:"RECONCILE_ENABLED" envDefault:"false"`
	ReconcileCron        string        `env:"RECONCILE_CRON" envDefault:"0 * * * *"`
	ReconcileGracePeriod time.Duration `env:"RECONCILE_GRACE_PERIOD" envDefault:"24h"`

	// Authentication
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.S3Bucket = strings.TrimSpace(cfg.S3Bucket)
	cfg.S3AccessKeyID = strings.TrimSpace(cfg.S3AccessKeyID)
	cfg.S3SecretKey = strings.TrimSpace(cfg.S3SecretKey)
	cfg.S3Endpoint = strings.TrimSpace(cfg.S3Endpoint)
	cfg.PublicBaseURL = strings.TrimSuffix(strings.TrimSpace(cfg.PublicBaseURL), "/")
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if cfg.UploadURLTTL <= 0 {
		cfg.UploadURLTTL = 2 * time.Hour
	}
	if cfg.DownloadURLTTL <= 0 {
		cfg.DownloadURLTTL = time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 2 << 30
	}
	if cfg.MaxUploadRequestBytes < 0 {
		cfg.MaxUploadRequestBytes = 0
	}
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", cfg.DBDriver)
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsLocalStorage returns true if local storage backend is configured.
func (c *Config) IsLocalStorage() bool {
	return strings.ToLower(strings.TrimSpace(c.StorageBackend)) == "local"
}

// IsS3Storage returns true if S3 storage backend is configured.
func (c *Config) IsS3Storage() bool {
	backend := strings.ToLower(strings.TrimSpace(c.StorageBackend))
	return backend == "" || backend == "s3"
}

// ConfigIssues lists required settings that are missing or still hold template placeholders.
type ConfigIssues struct {
	Missing      []string `json:"missingVars"`
	Placeholders []string `json:"hasPlaceholders"`
}

// OK reports whether no issue was found.
func (i ConfigIssues) OK() bool {
	return len(i.Missing) == 0 && len(i.Placeholders) == 0
}

// DiagnoseMissing inspects the settings the active backends depend on.
func (c *Config) DiagnoseMissing() ConfigIssues {
	required := []string{"DB_DSN", "PUBLIC_BASE_URL"}
	if c.IsS3Storage() {
		required = append(required, "S3_ENDPOINT", "S3_BUCKET", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY")
	}
	if c.IsLocalStorage() {
		required = append(required, "LOCAL_STORAGE_PATH")
	}

	values := c.envValues()
	issues := ConfigIssues{Missing: []string{}, Placeholders: []string{}}
	for _, name := range required {
		value := strings.TrimSpace(values[name])
		switch {
		case value == "":
			issues.Missing = append(issues.Missing, name)
		case strings.Contains(value, "your_") || strings.Contains(value, "_here"):
			issues.Placeholders = append(issues.Placeholders, name)
		}
	}
	return issues
}

// envValues maps env tag names to the current string field values.
func (c *Config) envValues() map[string]string {
	out := make(map[string]string)
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("env")
		name := strings.Split(tag, ",")[0]
		if name == "" || v.Field(i).Kind() != reflect.String {
			continue
		}
		out[name] = v.Field(i).String()
	}
	return out
}
