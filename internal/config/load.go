package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable the application reads,
// e.g. MEDCARDS_SERVER_PORT or MEDCARDS_DATABASE_URL.
const EnvPrefix = "MEDCARDS"

// Option customizes how Load reads configuration.
type Option func(v *viper.Viper) error

// WithConfigFile reads the given YAML/JSON/TOML file. The file must exist.
func WithConfigFile(path string) Option {
	return func(v *viper.Viper) error {
		if path == "" {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		return nil
	}
}

// WithDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored and variables already set in the
// environment win.
func WithDotEnv(paths ...string) Option {
	return func(_ *viper.Viper) error {
		for _, path := range paths {
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err := godotenv.Load(path); err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
		}
		return nil
	}
}

// WithFlags binds command line flags to configuration keys. bindings maps a
// flag name to a key such as "server.port". Only flags the user actually set
// override other sources.
func WithFlags(flags *pflag.FlagSet, bindings map[string]string) Option {
	return func(v *viper.Viper) error {
		for name, key := range bindings {
			flag := flags.Lookup(name)
			if flag == nil {
				return fmt.Errorf("unknown flag %q", name)
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
		return nil
	}
}

// Load configuration from defaults, an optional config file, environment
// variables and command line flags, in increasing order of precedence.
// Returns a validated Config or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// setDefaults registers every key so that environment variables are picked
// up during Unmarshal even when no config file mentions them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.timeout_seconds", 20)
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay_seconds", 1)

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.interval_minutes", 15)
	v.SetDefault("jobs.stale_session_minutes", 120)

	v.SetDefault("study.default_batch_size", 20)
	v.SetDefault("study.max_batch_size", 100)
	v.SetDefault("study.default_history_size", 10)
}
