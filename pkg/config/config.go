package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for bizget-engine.
// Configuration can come from YAML file (config.yaml), a .env file, or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API keys, passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Version  string `yaml:"-"`

	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	AI         AIConfig         `yaml:"ai"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
	KeyVault   KeyVaultConfig   `yaml:"key_vault"`
}

// Database types.
const (
	DatabaseTypeSQLite   = "sqlite"
	DatabaseTypePostgres = "postgres"
)

// DatabaseConfig selects and configures the profile store.
type DatabaseConfig struct {
	Type       string `yaml:"type" env:"DB_TYPE" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH" env-default:"data.db"`

	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"bizget"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"bizget"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MaxIdleConns   int32  `yaml:"max_idle_conns" env:"PGMAX_IDLE_CONNS" env-default:"2"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig is optional. An empty host disables Redis.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// AI providers.
const (
	AIProviderAzureOpenAI = "azure-openai"
	AIProviderOpenAI      = "openai"
	AIProviderAnthropic   = "anthropic"
	AIProviderNone        = "none"
)

// AIConfig configures the text-generation backend used for newsletters.
type AIConfig struct {
	AzureEndpoint   string `yaml:"azure_endpoint" env:"AZURE_OPENAI_ENDPOINT" env-default:""`
	AzureAPIKey     string `yaml:"-" env:"AZURE_OPENAI_API_KEY"`
	AzureDeployment string `yaml:"azure_deployment" env:"AZURE_OPENAI_DEPLOYMENT" env-default:""`
	AzureAPIVersion string `yaml:"azure_api_version" env:"AZURE_OPENAI_API_VERSION" env-default:"2024-10-21"`

	OpenAIAPIKey  string `yaml:"-" env:"OPENAI_API_KEY"`
	OpenAIModel   string `yaml:"openai_model" env:"OPENAI_MODEL" env-default:"gpt-4.1-mini"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL" env-default:""`

	AnthropicAPIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `yaml:"anthropic_model" env:"ANTHROPIC_MODEL" env-default:"claude-3-5-haiku-20241022"`

	Temperature    float32       `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.5"`
	MaxTokens      int           `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"2048"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AI_REQUEST_TIMEOUT" env-default:"60s"`
}

// Provider reports which backend is configured. Any Azure setting selects Azure,
// then an OpenAI key, then an Anthropic key.
func (c *AIConfig) Provider() string {
	switch {
	case c.hasAzureSetting():
		return AIProviderAzureOpenAI
	case hasValue(c.OpenAIAPIKey):
		return AIProviderOpenAI
	case hasValue(c.AnthropicAPIKey):
		return AIProviderAnthropic
	default:
		return AIProviderNone
	}
}

func (c *AIConfig) hasAzureSetting() bool {
	return hasValue(c.AzureEndpoint) || hasValue(c.AzureAPIKey) || hasValue(c.AzureDeployment)
}

// Validate returns an error if no provider is configured or Azure is only partly configured.
func (c *AIConfig) Validate() error {
	switch c.Provider() {
	case AIProviderAzureOpenAI:
		if missing := c.missingAzureVars(); len(missing) > 0 {
			return fmt.Errorf("azure openai config is incomplete, missing %s", strings.Join(missing, ", "))
		}
		return nil
	case AIProviderNone:
		return errors.New("no AI provider configured: set AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY and AZURE_OPENAI_DEPLOYMENT, or OPENAI_API_KEY, or ANTHROPIC_API_KEY")
	default:
		return nil
	}
}

func (c *AIConfig) missingAzureVars() []string {
	var missing []string
	if !hasValue(c.AzureEndpoint) {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if !hasValue(c.AzureAPIKey) {
		missing = append(missing, "AZURE_OPENAI_API_KEY")
	}
	if !hasValue(c.AzureDeployment) {
		missing = append(missing, "AZURE_OPENAI_DEPLOYMENT")
	}
	return missing
}

// SMTPConfig configures outbound newsletter delivery.
type SMTPConfig struct {
	Host string `yaml:"host" env:"SMTP_HOST" env-default:""`
	Port int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User string `yaml:"-" env:"SMTP_USER"`
	Pass string `yaml:"-" env:"SMTP_PASS"`
	From string `yaml:"from" env:"MAIL_FROM" env-default:""`
}

// MissingVars lists the unset SMTP environment variables.
func (c *SMTPConfig) MissingVars() []string {
	var missing []string
	if !hasValue(c.Host) {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Port <= 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if !hasValue(c.User) {
		missing = append(missing, "SMTP_USER")
	}
	if !hasValue(c.Pass) {
		missing = append(missing, "SMTP_PASS")
	}
	if !hasValue(c.From) {
		missing = append(missing, "MAIL_FROM")
	}
	return missing
}

// NewsletterConfig controls the weekly newsletter job.
type NewsletterConfig struct {
	Enabled bool          `yaml:"enabled" env:"NEWSLETTER_ENABLED" env-default:"true"`
	Cron    string        `yaml:"cron" env:"NEWSLETTER_CRON" env-default:"0 9 * * 1"`
	LockTTL time.Duration `yaml:"lock_ttl" env:"NEWSLETTER_LOCK_TTL" env-default:"30m"`
	// Concurrency bounds parallel generate-and-send work during a run.
	Concurrency int `yaml:"concurrency" env:"NEWSLETTER_CONCURRENCY" env-default:"4"`
}

// KeyVaultConfig enables secret hydration from Azure Key Vault when URI is set.
type KeyVaultConfig struct {
	URI string `yaml:"uri" env:"KEY_VAULT_URI" env-default:""`
}

// Enabled reports whether a vault URI is configured.
func (c *KeyVaultConfig) Enabled() bool {
	return hasValue(c.URI)
}

// Load reads .env (if present), then config.yaml (if present) with environment
// variable overrides. Without config.yaml, configuration comes from the environment alone.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c.AI.AzureEndpoint = strings.TrimSuffix(strings.TrimSpace(c.AI.AzureEndpoint), "/")
	c.Database.Host = ResolveHostForDocker(c.Database.Host)
	c.Redis.Host = ResolveHostForDocker(c.Redis.Host)

	if c.BaseURL == "" {
		c.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + c.Port,
		}).String()
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Database.Type {
	case DatabaseTypeSQLite, DatabaseTypePostgres:
	default:
		return fmt.Errorf("database type must be %q or %q, got %q", DatabaseTypeSQLite, DatabaseTypePostgres, c.Database.Type)
	}

	if c.Newsletter.Enabled && !gronx.New().IsValid(c.Newsletter.Cron) {
		return fmt.Errorf("newsletter cron expression %q is invalid", c.Newsletter.Cron)
	}

	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai temperature must be between 0 and 2, got %v", c.AI.Temperature)
	}
	return nil
}

// Health summarizes whether the configuration is complete enough to send newsletters.
type Health struct {
	Ready           bool     `json:"ready"`
	AIProvider      string   `json:"aiProvider"`
	KeyVaultEnabled bool     `json:"keyVaultEnabled"`
	MissingVars     []string `json:"missingVars"`
}

// Health reports the active AI provider and every missing AI or SMTP variable.
func (c *Config) Health() Health {
	missing := make([]string, 0)

	provider := c.AI.Provider()
	switch provider {
	case AIProviderAzureOpenAI:
		missing = append(missing, c.AI.missingAzureVars()...)
	case AIProviderNone:
		missing = append(missing, "AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_DEPLOYMENT", "OPENAI_API_KEY")
	}

	missing = append(missing, c.SMTP.MissingVars()...)

	return Health{
		Ready:           len(missing) == 0,
		AIProvider:      provider,
		KeyVaultEnabled: c.KeyVault.Enabled(),
		MissingVars:     missing,
	}
}

func hasValue(s string) bool {
	return strings.TrimSpace(s) != ""
}
