package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost  string
	ServerPort  string
	FrontendURL string

	// Database configuration. DatabaseURL wins over the discrete fields;
	// a "sqlite://" prefix selects the sqlite driver.
	DatabaseURL       string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration
	MigrationsDir     string

	// Redis backs the rate limiter when reachable
	RedisURL string

	// JWT configuration
	JWTSecret string
	TokenTTL  time.Duration

	// Rate limiting
	RateLimitWindow  time.Duration
	RateLimitMax     int
	AuthRateLimitMax int

	// Logging
	LogLevel  string
	LogFormat string

	// Object storage for recipe and avatar images
	S3Bucket        string
	AWSRegion       string
	S3PublicBaseURL string
}

// LoadConfig builds a Config from defaults, an optional CONFIG_FILE, the
// environment and, outside CI, Docker secrets under SECRETS_DIR.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	env := GetEnvironment()
	cfg := fromViper(v, env)

	switch env {
	case CI:
		// CI passes everything through the environment
	case Development, Test:
		applySecrets(cfg, false)
	case Production:
		applySecrets(cfg, true)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("port", "5000")
	v.SetDefault("frontend_url", "http://localhost:3000")

	v.SetDefault("database_url", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "evil_cook")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_max_open_conns", 20)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_idle_time", 30*time.Second)
	v.SetDefault("migrations_dir", "migrations")

	v.SetDefault("redis_url", "")

	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("token_ttl", 30*24*time.Hour)

	v.SetDefault("rate_limit_window", 15*time.Minute)
	v.SetDefault("rate_limit_max", 100)
	v.SetDefault("auth_rate_limit_max", 5)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("s3_bucket", "")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("s3_public_base_url", "")
}

func fromViper(v *viper.Viper, env Environment) *Config {
	return &Config{
		Environment:       env,
		ServerHost:        v.GetString("server_host"),
		ServerPort:        v.GetString("port"),
		FrontendURL:       v.GetString("frontend_url"),
		DatabaseURL:       v.GetString("database_url"),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBSSLMode:         v.GetString("db_ssl_mode"),
		DBMaxOpenConns:    v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:    v.GetInt("db_max_idle_conns"),
		DBConnMaxIdleTime: v.GetDuration("db_conn_max_idle_time"),
		MigrationsDir:     v.GetString("migrations_dir"),
		RedisURL:          v.GetString("redis_url"),
		JWTSecret:         v.GetString("jwt_secret"),
		TokenTTL:          v.GetDuration("token_ttl"),
		RateLimitWindow:   v.GetDuration("rate_limit_window"),
		RateLimitMax:      v.GetInt("rate_limit_max"),
		AuthRateLimitMax:  v.GetInt("auth_rate_limit_max"),
		LogLevel:          v.GetString("log_level"),
		LogFormat:         v.GetString("log_format"),
		S3Bucket:          v.GetString("s3_bucket"),
		AWSRegion:         v.GetString("aws_region"),
		S3PublicBaseURL:   v.GetString("s3_public_base_url"),
	}
}

// applySecrets reads Docker secrets. In production a secret always wins;
// elsewhere it only fills a value the environment left unset.
func applySecrets(cfg *Config, override bool) {
	set := func(dst *string, name, envKey string) {
		secret := readSecret(name)
		if secret == "" {
			return
		}
		if override || os.Getenv(envKey) == "" {
			*dst = secret
		}
	}

	set(&cfg.DBPassword, "db_password", "DB_PASSWORD")
	set(&cfg.DBUser, "db_user", "DB_USER")
	set(&cfg.JWTSecret, "jwt_secret", "JWT_SECRET")
	set(&cfg.DatabaseURL, "database_url", "DATABASE_URL")
	set(&cfg.RedisURL, "redis_url", "REDIS_URL")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// IsProduction reports whether the config was loaded for production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// UsesSQLite reports whether DatabaseURL selects the sqlite driver
func (c *Config) UsesSQLite() bool {
	return strings.HasPrefix(c.DatabaseURL, "sqlite://")
}

// DatabaseDSN returns the DSN handed to the database driver
func (c *Config) DatabaseDSN() string {
	if c.UsesSQLite() {
		return strings.TrimPrefix(c.DatabaseURL, "sqlite://")
	}
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}
