package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported AI providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration for rivalscope-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// CORSAllowedOrigin is sent back as Access-Control-Allow-Origin so a
	// separately served frontend can consume the streaming endpoints.
	CORSAllowedOrigin string `yaml:"cors_allowed_origin" env:"CORS_ALLOWED_ORIGIN" env-default:"*"`

	// MigrationsPath points at the SQL migration files applied on startup.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// AI model provider configuration
	AI AIConfig `yaml:"ai"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"rivalscope"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"rivalscope"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string. A localhost host
// is rewritten to host.docker.internal when running inside a container.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		ResolveHostForDocker(c.Host), c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AIConfig selects and tunes the model provider used for competitor
// discovery and research.
type AIConfig struct {
	// Provider selects the completion backend: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// BaseURL overrides the provider's default endpoint. Useful for proxies
	// and OpenAI-compatible gateways. Empty means the provider default.
	BaseURL string `yaml:"base_url" env:"AI_BASE_URL" env-default:""`

	// Model is requested on every completion call.
	Model string `yaml:"model" env:"AI_MODEL" env-default:"gpt-4"`

	// Temperature is passed through on every completion call.
	Temperature float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.7"`

	OpenAIKey    string `yaml:"-" env:"OPENAI_API_KEY"`    // Secret - not in YAML
	AnthropicKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
}

// Key returns the API key for the configured provider.
func (c *AIConfig) Key() string {
	if c.Provider == ProviderAnthropic {
		return c.AnthropicKey
	}
	return c.OpenAIKey
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist everything comes from the
// environment. The version parameter is injected at build time and set on
// the returned Config. Secrets (PGPASSWORD, OPENAI_API_KEY,
// ANTHROPIC_API_KEY) must come from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate rejects configurations the server cannot run with. API keys are
// not required at startup; a missing key surfaces as a provider error on the
// run that needs it.
func (c *Config) validate() error {
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported ai provider %q (want %q or %q)",
			c.AI.Provider, ProviderOpenAI, ProviderAnthropic)
	}

	if c.AI.Model == "" {
		return fmt.Errorf("ai model must not be empty")
	}

	return nil
}
