package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// ConnMaxLifetime returns the maximum lifetime of pooled connections.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"gte=1,lte=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gte=1,lte=44640,gtfield=TokenLifetimeMinutes"`
}

// LLMConfig contains the optional answer suggestion settings. Suggestions
// are disabled when no API key is configured.
type LLMConfig struct {
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	ModelName      string `mapstructure:"model_name" validate:"required_with=GeminiAPIKey"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gte=1"`

	// MaxRetries is the number of retries after a transient API failure.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	// RetryDelaySeconds is the base delay of the exponential backoff.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=1"`
}

// Timeout returns the budget of a single suggestion request, retries included.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Enabled reports whether answer suggestions are configured.
func (c LLMConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}

// JobsConfig controls the periodic maintenance jobs.
type JobsConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	IntervalMinutes     int  `mapstructure:"interval_minutes" validate:"gte=1"`
	StaleSessionMinutes int  `mapstructure:"stale_session_minutes" validate:"gte=1"`
}

// StudyConfig bounds study batches and history pages.
type StudyConfig struct {
	DefaultBatchSize   int `mapstructure:"default_batch_size" validate:"gte=1,ltefield=MaxBatchSize"`
	MaxBatchSize       int `mapstructure:"max_batch_size" validate:"gte=1,lte=500"`
	DefaultHistorySize int `mapstructure:"default_history_size" validate:"gte=1"`
}
