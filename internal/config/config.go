package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	DefaultTenant  string        `mapstructure:"DEFAULT_TENANT"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	AuthIssuer     string        `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string        `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL    string        `mapstructure:"AUTH_JWKS_URL"`
	AuthSigningKey string        `mapstructure:"AUTH_SIGNING_KEY"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	AutoMigrate    bool          `mapstructure:"AUTO_MIGRATE"`
	MetricsEnabled bool          `mapstructure:"METRICS_ENABLED"`

	ArchiveDriver      string `mapstructure:"SNAPSHOT_ARCHIVE_DRIVER"`
	ArchiveS3Bucket    string `mapstructure:"SNAPSHOT_ARCHIVE_S3_BUCKET"`
	ArchiveS3Region    string `mapstructure:"SNAPSHOT_ARCHIVE_S3_REGION"`
	ArchiveS3Endpoint  string `mapstructure:"SNAPSHOT_ARCHIVE_S3_ENDPOINT"`
	ArchiveS3PathStyle bool   `mapstructure:"SNAPSHOT_ARCHIVE_S3_PATH_STYLE"`
}

var envKeys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"DEFAULT_TENANT", "CORS_ORIGINS",
	"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_JWKS_URL", "AUTH_SIGNING_KEY",
	"LOG_LEVEL", "LOG_FORMAT", "BODY_LIMIT", "REQUEST_TIMEOUT",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "AUTO_MIGRATE", "METRICS_ENABLED",
	"SNAPSHOT_ARCHIVE_DRIVER", "SNAPSHOT_ARCHIVE_S3_BUCKET", "SNAPSHOT_ARCHIVE_S3_REGION",
	"SNAPSHOT_ARCHIVE_S3_ENDPOINT", "SNAPSHOT_ARCHIVE_S3_PATH_STYLE",
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3088")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 0)
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("BODY_LIMIT", "10M")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SNAPSHOT_ARCHIVE_DRIVER", "none")
	v.SetDefault("SNAPSHOT_ARCHIVE_S3_REGION", "us-east-1")

	for _, k := range envKeys {
		v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ArchiveEnabled reports whether snapshots are copied to a blob store.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveDriver != "" && c.ArchiveDriver != "none"
}

// Validate checks that the configuration is safe to run. Outside development a
// signing key, a JWKS endpoint or an OIDC issuer must be configured so bearer
// tokens are verified.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthSigningKey == "" && c.AuthJWKSURL == "" && c.AuthIssuer == "" {
		return fmt.Errorf(
			"AUTH_SIGNING_KEY, AUTH_JWKS_URL or AUTH_ISSUER must be set outside development (current ENV=%q)", c.Env)
	}

	switch c.LogFormat {
	case "console", "json", "ecs":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"console\", \"json\", or \"ecs\", got %q", c.LogFormat)
	}

	switch c.ArchiveDriver {
	case "", "none", "memory":
	case "s3":
		if c.ArchiveS3Bucket == "" {
			return fmt.Errorf("SNAPSHOT_ARCHIVE_S3_BUCKET is required when SNAPSHOT_ARCHIVE_DRIVER is \"s3\"")
		}
	default:
		return fmt.Errorf("SNAPSHOT_ARCHIVE_DRIVER must be \"none\", \"memory\", or \"s3\", got %q", c.ArchiveDriver)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative")
	}

	return nil
}
