// Package config loads service configuration from an optional config.yaml,
// a .env file and FLEETFILTER_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Lookup  LookupConfig  `mapstructure:"lookup"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Views   ViewsConfig   `mapstructure:"views"`
	Filters FiltersConfig `mapstructure:"filters"`
	Session SessionConfig `mapstructure:"session"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type LookupConfig struct {
	Source   string `mapstructure:"source"` // static, http or sql
	BaseURL  string `mapstructure:"base_url"`
	Token    string `mapstructure:"token"`
	RetryMax int    `mapstructure:"retry_max"`
	Driver   string `mapstructure:"driver"` // sqlite or postgres
	DSN      string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type ViewsConfig struct {
	Backend string `mapstructure:"backend"` // memory or redis
}

type FiltersConfig struct {
	StrictFields   bool          `mapstructure:"strict_fields"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

type SessionConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	MaxAge      time.Duration `mapstructure:"max_age"`
}

// EnvPrefix prefixes every environment override, e.g. FLEETFILTER_SERVER_PORT.
const EnvPrefix = "FLEETFILTER"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("lookup.source", "static")
	v.SetDefault("lookup.base_url", "")
	v.SetDefault("lookup.token", "")
	v.SetDefault("lookup.retry_max", 3)
	v.SetDefault("lookup.driver", "sqlite")
	v.SetDefault("lookup.dsn", "")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("views.backend", "memory")
	v.SetDefault("filters.strict_fields", false)
	v.SetDefault("filters.search_debounce", "300ms")
	v.SetDefault("session.idle_timeout", "30m")
	v.SetDefault("session.max_age", "24h")
}

// Load reads configuration. A missing config.yaml or .env is not an error;
// defaults and the environment fill in.
func Load(configPath string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Lookup.Source {
	case "static":
	case "http":
		if c.Lookup.BaseURL == "" {
			return errors.New("config: lookup.base_url is required for the http lookup source")
		}
	case "sql":
		if c.Lookup.DSN == "" {
			return errors.New("config: lookup.dsn is required for the sql lookup source")
		}
		if c.Lookup.Driver != "sqlite" && c.Lookup.Driver != "postgres" {
			return fmt.Errorf("config: unsupported lookup.driver %q", c.Lookup.Driver)
		}
	default:
		return fmt.Errorf("config: unsupported lookup.source %q", c.Lookup.Source)
	}
	switch c.Views.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unsupported views.backend %q", c.Views.Backend)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: unsupported log.format %q", c.Log.Format)
	}
	return nil
}
