package jira

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AuthType selects the authentication mode. The mode is resolved once at
// client construction; requests never branch on field presence.
type AuthType string

// Authentication modes supported by the client.
const (
	AuthAPIToken AuthType = "api_token" // Cloud: email + API token, Basic encoding
	AuthPAT      AuthType = "pat"       // Server/DC: personal access token, Bearer
	AuthOAuth    AuthType = "oauth"     // OAuth 2.0 bearer access token
	AuthConnect  AuthType = "connect"   // Atlassian Connect app, per-request JWT
)

// APIVersion is the Jira REST API version used in request paths.
type APIVersion string

// API versions supported by the Jira REST API.
const (
	APIVersionV2 APIVersion = "2"
	APIVersionV3 APIVersion = "3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL    = "JIRA_BASE_URL"
	EnvEmail      = "JIRA_EMAIL"
	EnvAPIToken   = "JIRA_API_TOKEN"
	EnvAPIVersion = "JIRA_API_VERSION"
	EnvTimeoutMS  = "JIRA_TIMEOUT_MS"
)

// Config holds the client configuration. It is read once at construction and
// never mutated afterwards.
type Config struct {
	// BaseURL is the root of the Jira instance,
	// e.g. https://your-domain.atlassian.net.
	BaseURL string

	// APIVersion selects the REST API version. Empty means v3.
	APIVersion APIVersion

	// Auth holds the authentication credentials.
	Auth AuthConfig

	// HTTP holds transport configuration.
	HTTP HTTPConfig
}

// AuthConfig holds credentials for one authentication mode.
type AuthConfig struct {
	// Type is the authentication mode to use.
	Type AuthType

	// Email is required for api_token auth.
	Email string

	// Token is the API token (api_token), personal access token (pat), or
	// OAuth access token (oauth).
	Token string

	// ConnectIssuer is the Connect app key, required for connect auth.
	ConnectIssuer string

	// ConnectSecret is the Connect app shared secret, required for connect auth.
	ConnectSecret string
}

// HTTPConfig holds transport configuration.
type HTTPConfig struct {
	// Timeout is the per-request timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxIdleConns caps idle connections kept for reuse.
	MaxIdleConns int

	// IdleConnTimeout is how long an idle connection is kept open.
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults. Credentials must
// still be filled in before the config validates.
func DefaultConfig() *Config {
	return &Config{
		APIVersion: APIVersionV3,
		HTTP: HTTPConfig{
			Timeout:         DefaultTimeout,
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
	}
}

// Validate checks the configuration for completeness.
func (c *Config) Validate() error {
	return c.validate(false)
}

// validate is Validate with knowledge of whether the caller supplied an
// external token source, which stands in for a static OAuth token.
func (c *Config) validate(haveTokenSource bool) error {
	if c.BaseURL == "" {
		return ErrConfigBaseURLRequired
	}

	if c.Auth.Type == "" {
		return ErrConfigAuthTypeRequired
	}

	switch c.Auth.Type {
	case AuthAPIToken:
		if c.Auth.Email == "" || c.Auth.Token == "" {
			return ErrConfigAPITokenAuth
		}
	case AuthPAT:
		if c.Auth.Token == "" {
			return ErrConfigPATAuth
		}
	case AuthOAuth:
		if c.Auth.Token == "" && !haveTokenSource {
			return ErrConfigOAuthAuth
		}
	case AuthConnect:
		if c.Auth.ConnectIssuer == "" || c.Auth.ConnectSecret == "" {
			return ErrConfigConnectAuth
		}
	default:
		return ErrConfigAuthTypeInvalid
	}

	if c.APIVersion != "" && c.APIVersion != APIVersionV2 && c.APIVersion != APIVersionV3 {
		return ErrConfigAPIVersionInvalid
	}

	return nil
}

// GetAPIVersion returns the effective API version.
func (c *Config) GetAPIVersion() APIVersion {
	if c.APIVersion == "" {
		return APIVersionV3
	}
	return c.APIVersion
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// ConfigFromEnv builds a Config from environment variables. A .env file in
// the working directory is loaded first if present; real environment
// variables always win over .env entries.
//
// JIRA_BASE_URL and JIRA_API_TOKEN are required; a missing variable is a
// configuration error, never a silent default. The presence of JIRA_EMAIL
// selects api_token auth, its absence selects pat (bearer) auth.
func ConfigFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	cfg.BaseURL = os.Getenv(EnvBaseURL)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfigBaseURLRequired, EnvBaseURL)
	}

	token := os.Getenv(EnvAPIToken)
	if token == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfigTokenRequired, EnvAPIToken)
	}

	if email := os.Getenv(EnvEmail); email != "" {
		cfg.Auth = AuthConfig{Type: AuthAPIToken, Email: email, Token: token}
	} else {
		cfg.Auth = AuthConfig{Type: AuthPAT, Token: token}
	}

	if v := os.Getenv(EnvAPIVersion); v != "" {
		cfg.APIVersion = APIVersion(v)
	}

	if ms := os.Getenv(EnvTimeoutMS); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrConfigTimeoutInvalid, EnvTimeoutMS, ms)
		}
		cfg.HTTP.Timeout = time.Duration(n) * time.Millisecond
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// fileConfig is the yaml schema for LoadConfigFile.
type fileConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
	TimeoutMS  int    `yaml:"timeout_ms"`
	Auth       struct {
		Type          string `yaml:"type"`
		Email         string `yaml:"email"`
		Token         string `yaml:"token"`
		ConnectIssuer string `yaml:"connect_issuer"`
		ConnectSecret string `yaml:"connect_secret"`
	} `yaml:"auth"`
}

// LoadConfigFile reads a yaml config file and returns a validated Config.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.BaseURL = fc.BaseURL
	if fc.APIVersion != "" {
		cfg.APIVersion = APIVersion(fc.APIVersion)
	}
	if fc.TimeoutMS != 0 {
		if fc.TimeoutMS < 0 {
			return nil, fmt.Errorf("%w: timeout_ms=%d", ErrConfigTimeoutInvalid, fc.TimeoutMS)
		}
		cfg.HTTP.Timeout = time.Duration(fc.TimeoutMS) * time.Millisecond
	}
	cfg.Auth = AuthConfig{
		Type:          AuthType(fc.Auth.Type),
		Email:         fc.Auth.Email,
		Token:         fc.Auth.Token,
		ConnectIssuer: fc.Auth.ConnectIssuer,
		ConnectSecret: fc.Auth.ConnectSecret,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
