package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport string          `yaml:"transport" env:"SN_MCP_TRANSPORT"`
	Log       LogConfig       `yaml:"log"`
	Store     StoreConfig     `yaml:"store"`
	SignNow   SignNowConfig   `yaml:"signnow"`
	OAuth     OAuthConfig     `yaml:"oauth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Host string `yaml:"host" env:"SN_MCP_SERVER_HOST"`
	Port int    `yaml:"port" env:"SN_MCP_SERVER_PORT"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"SN_MCP_LOG_LEVEL"`
	Path  string `yaml:"path" env:"SN_MCP_LOG_PATH"`
}

// StoreConfig selects the registry backing dynamically registered OAuth clients.
type StoreConfig struct {
	Driver    string `yaml:"driver" env:"SN_MCP_STORE_DRIVER"`
	DBPath    string `yaml:"db_path" env:"SN_MCP_DB_PATH"`
	RedisAddr string `yaml:"redis_addr" env:"SN_MCP_REDIS_ADDR"`
}

// SignNowConfig holds the upstream endpoints and optional service credentials.
type SignNowConfig struct {
	APIBase      string `yaml:"api_base" env:"SIGNNOW_API_BASE"`
	AppBase      string `yaml:"app_base" env:"SIGNNOW_APP_BASE"`
	ClientID     string `yaml:"client_id" env:"SIGNNOW_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"SIGNNOW_CLIENT_SECRET"`
	BasicToken   string `yaml:"basic_token" env:"SIGNNOW_API_BASIC_TOKEN"`
	UserEmail    string `yaml:"user_email" env:"SIGNNOW_USER_EMAIL"`
	Password     string `yaml:"password" env:"SIGNNOW_PASSWORD"`
}

// HasCredentials reports whether the server signs in on its own behalf.
func (c SignNowConfig) HasCredentials() bool {
	return c.UserEmail != "" && c.Password != "" && c.BasicToken != ""
}

// OAuthConfig configures the authorization server facade.
type OAuthConfig struct {
	Issuer           string   `yaml:"issuer" env:"OAUTH_ISSUER"`
	AccessTTL        int      `yaml:"access_ttl" env:"ACCESS_TTL"`
	RefreshTTL       int      `yaml:"refresh_ttl" env:"REFRESH_TTL"`
	AllowedRedirects []string `yaml:"allowed_redirects" env:"ALLOWED_REDIRECTS" envSeparator:","`
	RSAPrivatePEM    string   `yaml:"rsa_private_pem" env:"OAUTH_RSA_PRIVATE_PEM"`
	KeyID            string   `yaml:"jwk_kid" env:"OAUTH_JWK_KID"`
}

// AccessTokenTTL returns the access token lifetime.
func (c OAuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTTL) * time.Second
}

// RefreshTokenTTL returns the refresh token lifetime.
func (c OAuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTTL) * time.Second
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint" env:"SN_MCP_OTEL_ENDPOINT"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

func defaults() Config {
	return Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8000},
		Transport: TransportHTTP,
		Log:       LogConfig{Level: "info"},
		Store:     StoreConfig{Driver: StoreSQLite, DBPath: "sn-mcp.db"},
		SignNow: SignNowConfig{
			APIBase: "https://api.signnow.com",
			AppBase: "https://app.signnow.com",
		},
		OAuth: OAuthConfig{
			AccessTTL:  3600,
			RefreshTTL: 2592000,
			KeyID:      "mcp-dev-key",
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("SN_MCP_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid SN_MCP_TRANSPORT %q: want stdio or http", c.Transport)
	}
	switch c.Store.Driver {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("invalid SN_MCP_STORE_DRIVER %q: want sqlite or redis", c.Store.Driver)
	}
	if c.Store.Driver == StoreRedis && c.Store.RedisAddr == "" {
		return fmt.Errorf("SN_MCP_REDIS_ADDR is required for the redis store")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SN_MCP_SERVER_PORT %d", c.Server.Port)
	}
	if c.OAuth.Issuer == "" {
		c.OAuth.Issuer = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	c.OAuth.Issuer = strings.TrimRight(c.OAuth.Issuer, "/")
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
