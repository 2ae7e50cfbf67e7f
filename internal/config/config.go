package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Bluesky  BlueskyConfig  `yaml:"bluesky"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Email    EmailConfig    `yaml:"email"`
	Site     SiteConfig     `yaml:"site"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	// URL overrides the individual fields when set (DATABASE_URL).
	URL             string        `yaml:"url"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxConnections  int           `yaml:"max_connections"`
	MinConnections  int           `yaml:"min_connections"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
}

// ConnectionString returns the PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, sslMode,
	)
}

// RedisConfig holds the Redis connection used by the image proxy cache
type RedisConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// BlueskyConfig holds credentials for the Bluesky XRPC API
type BlueskyConfig struct {
	Service    string        `yaml:"service"`
	Identifier string        `yaml:"identifier"`
	Password   string        `yaml:"password"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	FeedLimit  int           `yaml:"feed_limit"`
}

// StripeConfig holds the payment provider configuration
type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
	APIBase   string `yaml:"api_base"`
	Currency  string `yaml:"currency"`
}

// EmailConfig holds the transactional email provider configuration
type EmailConfig struct {
	APIKey  string `yaml:"api_key"`
	APIBase string `yaml:"api_base"`
	From    string `yaml:"from"`
}

// SiteConfig is the single source of branding and URL configuration.
// Copy rendered into emails and checkout sessions derives from here.
type SiteConfig struct {
	Name          string `yaml:"name"`
	PublicBaseURL string `yaml:"public_base_url"`
	DeployURL     string `yaml:"deploy_url"`
}

// BaseURL resolves the externally visible base URL: explicit public URL
// first, then the platform-provided deployment host, then localhost.
func (s *SiteConfig) BaseURL() string {
	if s.PublicBaseURL != "" {
		return s.PublicBaseURL
	}
	if s.DeployURL != "" {
		return "https://" + s.DeployURL
	}
	return "http://localhost:3000"
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnv overlays the recognized environment variables on top of
// whatever the file provided. Secrets are expected to arrive this way.
func (c *Config) applyEnv() {
	setIfEnv(&c.Site.PublicBaseURL, "PUBLIC_BASE_URL")
	setIfEnv(&c.Site.DeployURL, "DEPLOY_URL")
	setIfEnv(&c.Bluesky.Identifier, "BLUESKY_IDENTIFIER")
	setIfEnv(&c.Bluesky.Password, "BLUESKY_PASSWORD")
	setIfEnv(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	setIfEnv(&c.Email.APIKey, "RESEND_API_KEY")
	setIfEnv(&c.Postgres.URL, "DATABASE_URL")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}

	// PostgreSQL defaults
	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == 0 {
		c.Postgres.Port = 5432
	}
	if c.Postgres.MaxConnections == 0 {
		c.Postgres.MaxConnections = 20
	}
	if c.Postgres.MinConnections == 0 {
		c.Postgres.MinConnections = 2
	}
	if c.Postgres.MaxConnLifetime == 0 {
		c.Postgres.MaxConnLifetime = 1 * time.Hour
	}
	if c.Postgres.MaxConnIdleTime == 0 {
		c.Postgres.MaxConnIdleTime = 30 * time.Minute
	}

	// Redis defaults
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 1 * time.Hour
	}

	// Bluesky defaults
	if c.Bluesky.Service == "" {
		c.Bluesky.Service = "https://bsky.social"
	}
	if c.Bluesky.SessionTTL == 0 {
		c.Bluesky.SessionTTL = 1 * time.Hour
	}
	if c.Bluesky.FeedLimit == 0 {
		c.Bluesky.FeedLimit = 100
	}

	// Stripe defaults
	if c.Stripe.APIBase == "" {
		c.Stripe.APIBase = "https://api.stripe.com"
	}
	if c.Stripe.Currency == "" {
		c.Stripe.Currency = "usd"
	}

	// Email defaults
	if c.Email.APIBase == "" {
		c.Email.APIBase = "https://api.resend.com"
	}
	if c.Email.From == "" {
		c.Email.From = "hello@bluebrandly.com"
	}

	// Site defaults
	if c.Site.Name == "" {
		c.Site.Name = "BlueBrandly"
	}
}

// DefaultConfig returns a configuration with all defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}
