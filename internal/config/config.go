// Package config loads the engine's layered configuration: a config
// file, overridden by SEOAUDIT_-prefixed environment variables,
// overridden in turn by command-line flags bound in internal/cli. The
// layering and the viper/mapstructure machinery follow the pattern
// amosWeiskopf's crawlsmith config package uses; the fields themselves
// are this engine's own (server, run defaults, store, logging) rather
// than a markdown-extraction tuning surface.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the full layered configuration surface.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Run     RunConfig     `mapstructure:"run"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig configures the `serve` subcommand's HTTP API.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// RunConfig holds the defaults orchestrator.RunOptions is seeded from
// when a caller (CLI flag or API request) doesn't override a field.
type RunConfig struct {
	MaxPages          int           `mapstructure:"max_pages"`
	MaxTime           time.Duration `mapstructure:"max_time"`
	IncludeSubdomains bool          `mapstructure:"include_subdomains"`
	HeadlessPoolSize  int           `mapstructure:"headless_pool_size"`
	UserAgentSuffix   string        `mapstructure:"user_agent_suffix"`
	RespectRobots     bool          `mapstructure:"respect_robots"`
}

// StoreConfig selects and configures the internal/store backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // "memory" or "file"
	Path    string `mapstructure:"path"`    // JSONFileStore root, when Backend == "file"
}

// LoggingConfig configures the observe.Recorder sink.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

const envPrefix = "SEOAUDIT"

// LoadViper builds a viper instance scoped to this call — not a
// package singleton — so a test or a second invocation within one
// process never observes another call's bindings. configPath, when
// non-empty, is read as an explicit config file; otherwise Load looks
// in the working directory and $HOME/.seoaudit for seoaudit.yaml and
// proceeds on defaults alone if neither exists. Returning the *viper.Viper
// rather than just a Config lets internal/cli layer flags on top
// before the final Unmarshal, giving file, then env, then flags, in
// that precedence.
func LoadViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("seoaudit")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.seoaudit")
	}

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	return v, nil
}

// Load is LoadViper followed by an immediate Unmarshal, for callers
// that have no flags to layer in (tests, internal/store wiring).
func Load(configPath string) (*Config, error) {
	v, err := LoadViper(configPath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// Unmarshal decodes v's current layered state — file, env, and any
// flags bound via v.BindPFlags — into a Config.
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")

	v.SetDefault("run.max_pages", 50)
	v.SetDefault("run.max_time", "15m")
	v.SetDefault("run.include_subdomains", false)
	v.SetDefault("run.headless_pool_size", 4)
	v.SetDefault("run.user_agent_suffix", "")
	v.SetDefault("run.respect_robots", true)

	v.SetDefault("store.backend", "memory")
	v.SetDefault("store.path", "./data/audits")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func bindEnvVars(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	_ = v.BindEnv("server.host", envPrefix+"_SERVER_HOST")
	_ = v.BindEnv("server.port", envPrefix+"_SERVER_PORT")
	_ = v.BindEnv("run.max_pages", envPrefix+"_RUN_MAX_PAGES")
	_ = v.BindEnv("run.max_time", envPrefix+"_RUN_MAX_TIME")
	_ = v.BindEnv("run.respect_robots", envPrefix+"_RUN_RESPECT_ROBOTS")
	_ = v.BindEnv("store.backend", envPrefix+"_STORE_BACKEND")
	_ = v.BindEnv("store.path", envPrefix+"_STORE_PATH")
	_ = v.BindEnv("logging.level", envPrefix+"_LOGGING_LEVEL")
	_ = v.BindEnv("logging.format", envPrefix+"_LOGGING_FORMAT")
}

// Validate rejects a Config whose values would make a run or server
// unable to start, rather than letting a zero or negative value
// surface later as a confusing runtime failure.
func (c *Config) Validate() error {
	if c.Run.MaxPages <= 0 {
		return fmt.Errorf("%w: run.max_pages must be positive", ErrInvalidConfig)
	}
	if c.Run.HeadlessPoolSize <= 0 {
		return fmt.Errorf("%w: run.headless_pool_size must be positive", ErrInvalidConfig)
	}
	if c.Store.Backend != "memory" && c.Store.Backend != "file" {
		return fmt.Errorf("%w: store.backend must be %q or %q, got %q", ErrInvalidConfig, "memory", "file", c.Store.Backend)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}

// ToRunOptions seeds an orchestrator.RunOptions-shaped value from the
// run defaults layer. Returned as plain fields rather than the
// orchestrator type itself, so this package never imports
// internal/orchestrator. Nothing in this module calls it.
func (c *Config) ToRunOptions() RunConfig {
	return c.Run
}
