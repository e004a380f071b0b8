package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olagu/console/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Remote    RemoteConfig    `yaml:"remote"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	CORS      CORSConfig      `yaml:"cors"`
	Session   SessionConfig   `yaml:"session"`
	Posts     PostsConfig     `yaml:"posts"`
	Donations DonationsConfig `yaml:"donations"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
	Env  string `yaml:"env"`
}

// RemoteConfig points at the upstream console API
type RemoteConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	LoginTimeout time.Duration `yaml:"login_timeout"`
}

// StoreConfig selects the record store backend for posts and donations
type StoreConfig struct {
	Driver    string `yaml:"driver"` // mysql, sqlite, redis, memory
	SQLiteDSN string `yaml:"sqlite_dsn"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DatabaseConfig MySQL connection settings
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// RedisConfig Redis connection settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// StorageConfig S3-compatible storage for uploaded proof images
type StorageConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Bucket          string `yaml:"bucket"`
	CDNURL          string `yaml:"cdn_url"`
	BasePath        string `yaml:"base_path"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
}

// CORSConfig allowed origins, comma separated
type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins"`
}

// SessionConfig admin session cookie settings
type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	Secure     bool          `yaml:"secure"`
	TTL        time.Duration `yaml:"ttl"`
	LoginURL   string        `yaml:"login_url"`
	// JWTSecret verifies Authorization: Bearer tokens; empty disables them
	JWTSecret  string        `yaml:"jwt_secret"`
}

// PostsConfig submission workflow settings
type PostsConfig struct {
	Timezone            string `yaml:"timezone"`
	BlockAfterRejection bool   `yaml:"block_after_rejection"`
	MaxImageBytes       int64  `yaml:"max_image_bytes"`
}

// DonationsConfig donation workflow settings
type DonationsConfig struct {
	Maintenance bool `yaml:"maintenance"`
}

// RateLimitConfig public endpoint throttling
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
}

// Load reads a YAML config file, expands ${VAR} references and applies env overrides.
// A missing file is not an error; defaults and env vars are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		logger.Warn("config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.Remote.BaseURL == "" {
		return nil, fmt.Errorf("remote.base_url is required")
	}
	if _, err := time.LoadLocation(cfg.Posts.Timezone); err != nil {
		return nil, fmt.Errorf("posts.timezone %q: %w", cfg.Posts.Timezone, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 3002, Mode: "debug", Env: "local"},
		Remote: RemoteConfig{
			BaseURL:      "http://localhost:3003",
			Timeout:      15 * time.Second,
			LoginTimeout: 5 * time.Second,
		},
		Store:    StoreConfig{Driver: "sqlite", SQLiteDSN: "olagu.db", KeyPrefix: "olagu:"},
		Database: DatabaseConfig{Host: "localhost", Port: 3306, MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: time.Hour},
		Redis:    RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10},
		Storage:  StorageConfig{Region: "auto", BasePath: "proofs/"},
		CORS:     CORSConfig{AllowOrigins: "http://localhost:5173"},
		Session: SessionConfig{
			CookieName: "olagu_session",
			TTL:        24 * time.Hour,
			LoginURL:   "/admin/login",
		},
		Posts:     PostsConfig{Timezone: "Local", MaxImageBytes: 10 << 20},
		RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 30},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Server.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REMOTE_BASE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("S3_ACCESS_KEY_ID"); v != "" {
		cfg.Storage.AccessKeyID = v
	}
	if v := os.Getenv("S3_SECRET_ACCESS_KEY"); v != "" {
		cfg.Storage.SecretAccessKey = v
	}
	if v := os.Getenv("SESSION_JWT_SECRET"); v != "" {
		cfg.Session.JWTSecret = v
	}
	if v := os.Getenv("DONATIONS_MAINTENANCE"); v != "" {
		cfg.Donations.Maintenance = v == "true" || v == "1"
	}
}

// IsDevelopment reports whether the service runs in a local/dev environment
func (c *Config) IsDevelopment() bool {
	switch c.Server.Env {
	case "", "local", "dev", "development":
		return true
	}
	return false
}

// Location returns the time zone used for the daily submission window
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Posts.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LogResolved logs the effective non-secret settings
func LogResolved(cfg *Config) {
	logger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("remote", cfg.Remote.BaseURL).
		Dur("login_timeout", cfg.Remote.LoginTimeout).
		Str("store", cfg.Store.Driver).
		Str("redis", fmt.Sprintf("%s:%d/%d", cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.DB)).
		Bool("storage", cfg.Storage.Enabled).
		Str("timezone", cfg.Posts.Timezone).
		Bool("block_after_rejection", cfg.Posts.BlockAfterRejection).
		Bool("donations_maintenance", cfg.Donations.Maintenance).
		Msg("config resolved")
}
