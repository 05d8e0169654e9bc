// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App        AppConfig        `koanf:"app"`
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Redis      RedisConfig      `koanf:"redis"`
	JWT        JWTConfig        `koanf:"jwt"`
	Session    SessionConfig    `koanf:"session"`
	RateLimit  RateLimitConfig  `koanf:"rate_limit"`
	CORS       CORSConfig       `koanf:"cors"`
	Log        LogConfig        `koanf:"log"`
	Otel       OtelConfig       `koanf:"otel"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Media      MediaConfig      `koanf:"media"`
	Onboarding OnboardingConfig `koanf:"onboarding"`
	Reconcile  ReconcileConfig  `koanf:"reconcile"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath string        `koanf:"private_key_path"`
	PublicKeyPath  string        `koanf:"public_key_path"`
	SessionExpire  time.Duration `koanf:"session_expire"`
	Issuer         string        `koanf:"issuer"`
	Audience       string        `koanf:"audience"`
}

// SessionConfig controls the cookie that carries the session token and the
// read-path status refresh on protected routes.
type SessionConfig struct {
	CookieName     string        `koanf:"cookie_name"`
	CookieDomain   string        `koanf:"cookie_domain"`
	SameSite       string        `koanf:"same_site"`
	RefreshTimeout time.Duration `koanf:"refresh_timeout"`
}

type RateLimitConfig struct {
	Requests      int           `koanf:"requests"`
	Window        time.Duration `koanf:"window"`
	Burst         int           `koanf:"burst"`
	AuthRequests  int           `koanf:"auth_requests"`
	AuthBurst     int           `koanf:"auth_burst"`
	MediaRequests int           `koanf:"media_requests"`
	MediaBurst    int           `koanf:"media_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type MediaConfig struct {
	Image ImageConfig `koanf:"image"`
	Video VideoConfig `koanf:"video"`
}

type ImageConfig struct {
	Provider   string           `koanf:"provider"`
	Folders    []string         `koanf:"folders"`
	MaxBytes   int64            `koanf:"max_bytes"`
	Cloudinary CloudinaryConfig `koanf:"cloudinary"`
	S3         S3Config         `koanf:"s3"`
}

type CloudinaryConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	BaseURL   string `koanf:"base_url"`
}

type S3Config struct {
	Bucket          string        `koanf:"bucket"`
	Region          string        `koanf:"region"`
	Endpoint        string        `koanf:"endpoint"`
	PublicBaseURL   string        `koanf:"public_base_url"`
	AccessKeyID     string        `koanf:"access_key_id"`
	SecretAccessKey string        `koanf:"secret_access_key"`
	PresignExpiry   time.Duration `koanf:"presign_expiry"`
}

type VideoConfig struct {
	TokenID        string        `koanf:"token_id"`
	TokenSecret    string        `koanf:"token_secret"`
	BaseURL        string        `koanf:"base_url"`
	CORSOrigin     string        `koanf:"cors_origin"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	ReelMaxBytes   int64         `koanf:"reel_max_bytes"`
	PostMaxBytes   int64         `koanf:"post_max_bytes"`
}

type OnboardingConfig struct {
	DraftTTL time.Duration `koanf:"draft_ttl"`
}

type ReconcileConfig struct {
	StaleAfter time.Duration `koanf:"stale_after"`
	BatchSize  int           `koanf:"batch_size"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		loaded, err := load(configPath)
		if err != nil {
			loadErr = err
			return
		}
		cfg = loaded
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "talentgrid",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "120s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",
		"server.max_upload_bytes": 64 << 20,

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.session_expire":   "720h",
		"jwt.issuer":           "talentgrid",
		"jwt.audience":         "talentgrid-api",
		"jwt.private_key_path": "keys/private.pem",
		"jwt.public_key_path":  "keys/public.pem",

		"session.cookie_name":     "token",
		"session.same_site":       "lax",
		"session.refresh_timeout": "2s",

		"rate_limit.requests":       100,
		"rate_limit.window":         "1m",
		"rate_limit.burst":          20,
		"rate_limit.auth_requests":  10,
		"rate_limit.auth_burst":     5,
		"rate_limit.media_requests": 60,
		"rate_limit.media_burst":    10,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "talentgrid",

		"metrics.enabled": true,
		"metrics.path":    "/metrics",

		"media.image.provider":            "cloudinary",
		"media.image.folders":             []string{"talent_profiles", "talent_posts"},
		"media.image.max_bytes":           10 << 20,
		"media.image.cloudinary.base_url": "https://api.cloudinary.com",
		"media.image.s3.region":           "us-east-1",
		"media.image.s3.presign_expiry":   "15m",

		"media.video.base_url":        "https://api.mux.com",
		"media.video.cors_origin":     "*",
		"media.video.request_timeout": "30s",
		"media.video.reel_max_bytes":  10 << 20,
		"media.video.post_max_bytes":  50 << 20,

		"onboarding.draft_ttl": "168h",

		"reconcile.stale_after": "1h",
		"reconcile.batch_size":  50,
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"JWT_PRIVATE_KEY_PATH":        "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":         "jwt.public_key_path",
	"JWT_SESSION_EXPIRE":          "jwt.session_expire",
	"JWT_ISSUER":                  "jwt.issuer",
	"JWT_AUDIENCE":                "jwt.audience",
	"SESSION_COOKIE_NAME":         "session.cookie_name",
	"SESSION_COOKIE_DOMAIN":       "session.cookie_domain",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"RATE_LIMIT_MEDIA_REQUESTS":   "rate_limit.media_requests",
	"RATE_LIMIT_MEDIA_BURST":      "rate_limit.media_burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"METRICS_ENABLED":             "metrics.enabled",
	"IMAGE_PROVIDER":              "media.image.provider",
	"CLOUDINARY_CLOUD_NAME":       "media.image.cloudinary.cloud_name",
	"CLOUDINARY_API_KEY":          "media.image.cloudinary.api_key",
	"CLOUDINARY_API_SECRET":       "media.image.cloudinary.api_secret",
	"S3_BUCKET":                   "media.image.s3.bucket",
	"S3_REGION":                   "media.image.s3.region",
	"S3_ENDPOINT":                 "media.image.s3.endpoint",
	"S3_PUBLIC_BASE_URL":          "media.image.s3.public_base_url",
	"S3_ACCESS_KEY_ID":            "media.image.s3.access_key_id",
	"S3_SECRET_ACCESS_KEY":        "media.image.s3.secret_access_key",
	"MUX_TOKEN_ID":                "media.video.token_id",
	"MUX_TOKEN_SECRET":            "media.video.token_secret",
	"MUX_BASE_URL":                "media.video.base_url",
	"ONBOARDING_DRAFT_TTL":        "onboarding.draft_ttl",
	"RECONCILE_STALE_AFTER":       "reconcile.stale_after",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required")
	}

	if c.JWT.SessionExpire <= 0 {
		return fmt.Errorf("jwt.session_expire must be positive")
	}

	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name is required")
	}

	switch c.Session.SameSite {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("session.same_site must be lax, strict or none")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return validateMedia(c.Media)
}

func validateMedia(m MediaConfig) error {
	if len(m.Image.Folders) == 0 {
		return fmt.Errorf("media.image.folders must not be empty")
	}

	switch m.Image.Provider {
	case "cloudinary":
		if m.Image.Cloudinary.CloudName == "" ||
			m.Image.Cloudinary.APIKey == "" ||
			m.Image.Cloudinary.APISecret == "" {
			return fmt.Errorf(
				"CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required",
			)
		}
	case "s3":
		if m.Image.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
		if m.Image.S3.PresignExpiry <= 0 {
			return fmt.Errorf("media.image.s3.presign_expiry must be positive")
		}
	default:
		return fmt.Errorf(
			"media.image.provider %q is not supported",
			m.Image.Provider,
		)
	}

	if m.Video.TokenID == "" || m.Video.TokenSecret == "" {
		return fmt.Errorf("MUX_TOKEN_ID and MUX_TOKEN_SECRET are required")
	}

	if m.Video.ReelMaxBytes <= 0 || m.Video.PostMaxBytes <= 0 {
		return fmt.Errorf("media.video size limits must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (i ImageConfig) AllowsFolder(folder string) bool {
	return slices.Contains(i.Folders, folder)
}
