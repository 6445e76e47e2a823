package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Transports
const (
	TransportStdio  = "stdio"
	TransportHTTP   = "http"
	TransportLambda = "lambda"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "data.gv.at-mcp/1.0.0"
	DefaultHTTPAddr  = ":8080"
	DefaultAWSRegion = "eu-central-1"
)

// Profile identifies one of the two servers and where its base URL comes from.
type Profile struct {
	Name           string
	Title          string
	BaseURLEnv     string
	DefaultBaseURL string
}

var (
	HubRepo = Profile{
		Name:           "hub-repo",
		Title:          "data.gv.at hub-repo",
		BaseURLEnv:     "DATA_GV_AT_API_BASE_URL",
		DefaultBaseURL: "https://qs.data.gv.at/api/hub/repo/",
	}
	CKAN = Profile{
		Name:           "ckan",
		Title:          "data.gv.at CKAN catalogue",
		BaseURLEnv:     "DATA_GV_AT_CKAN_API_BASE_URL",
		DefaultBaseURL: "https://www.data.gv.at/katalog/api/3/action",
	}
)

// Config represents the application configuration
type Config struct {
	Server      string
	Environment string
	LogLevel    string

	// Remote API
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// Inbound transport
	Transport string
	HTTPAddr  string
	JWTSecret string
	// JWTScope, when set, must be one of the token's space separated scopes
	JWTScope string

	// AWS-specific configuration; every component is optional
	AWSRegion           string
	AuditTableName      string
	APIKeySecretID      string
	APIKeyKMSCiphertext string

	// ConfigFile is the YAML file the values were layered on, if any.
	ConfigFile string

	// Lambda detection flag (cached)
	isLambda bool
}

// Defaults returns the built-in configuration of a profile.
func Defaults(p Profile) *Config {
	return &Config{
		Server:      p.Name,
		Environment: "prod",
		LogLevel:    "info",
		BaseURL:     p.DefaultBaseURL,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		Transport:   TransportStdio,
		HTTPAddr:    DefaultHTTPAddr,
		AWSRegion:   DefaultAWSRegion,
	}
}

// LoadFromEnv loads the configuration from environment variables, layered
// over the file named by MCP_CONFIG_FILE when set.
func LoadFromEnv(p Profile) (*Config, error) {
	return Load(p, os.Getenv("MCP_CONFIG_FILE"))
}

// Load applies, in order: profile defaults, the YAML file at path (optional)
// and environment variables. The result is validated.
func Load(p Profile, path string) (*Config, error) {
	cfg := Defaults(p)

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
		cfg.ConfigFile = path
	}

	if err := cfg.applyEnv(p); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(p Profile) error {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Environment, "ENVIRONMENT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.BaseURL, p.BaseURLEnv)
	setString(&c.UserAgent, "DATA_GV_AT_USER_AGENT")
	setString(&c.Transport, "MCP_TRANSPORT")
	setString(&c.HTTPAddr, "MCP_HTTP_ADDR")
	setString(&c.JWTSecret, "MCP_HTTP_JWT_SECRET")
	setString(&c.JWTScope, "MCP_HTTP_JWT_SCOPE")
	setString(&c.AWSRegion, "AWS_REGION")
	setString(&c.AuditTableName, "AUDIT_TABLE_NAME")
	setString(&c.APIKeySecretID, "DATA_GV_AT_API_KEY_SECRET_ID")
	setString(&c.APIKeyKMSCiphertext, "DATA_GV_AT_API_KEY_KMS_CIPHERTEXT")

	if v := os.Getenv("DATA_GV_AT_API_TIMEOUT"); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("DATA_GV_AT_API_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}

	// Check if running in Lambda
	c.isLambda = os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
	if c.isLambda && os.Getenv("MCP_TRANSPORT") == "" {
		c.Transport = TransportLambda
	}
	return nil
}

// parseTimeout accepts a Go duration ("15s") or a plain number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// Validate checks the final configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute URL", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP, TransportLambda:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// IsLambda returns true if the application is running in AWS Lambda
func (c *Config) IsLambda() bool {
	return c.isLambda
}

// NeedsAWS reports whether any AWS backed component is configured.
func (c *Config) NeedsAWS() bool {
	return c.AuditTableName != "" || c.APIKeySecretID != "" || c.APIKeyKMSCiphertext != ""
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
