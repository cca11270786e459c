// Package config loads nudge settings from a config file, NUDGE_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/nudge/internal/gateway"
	"github.com/abhisek/nudge/internal/llm"
	"github.com/abhisek/nudge/internal/session"
)

const (
	EnvPrefix  = "NUDGE"
	configName = "nudge"
)

// Config holds all settings.
type Config struct {
	Session SessionConfig `mapstructure:"session"`
	API     APIConfig     `mapstructure:"api"`
	Sync    SyncConfig    `mapstructure:"sync"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	LLM     llm.Config    `mapstructure:"llm"`
	Server  ServerConfig  `mapstructure:"server"`
}

type SessionConfig struct {
	UserID  string `mapstructure:"user_id"`
	AppID   string `mapstructure:"app_id"`
	History bool   `mapstructure:"history"`
}

type APIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CardCacheSize   int           `mapstructure:"card_cache_size"`
	CardCacheTTL    time.Duration `mapstructure:"card_cache_ttl"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

type SyncConfig struct {
	Rate           float64       `mapstructure:"rate"`
	Burst          int           `mapstructure:"burst"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	DrainTimeout   time.Duration `mapstructure:"drain_timeout"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Mode     string `mapstructure:"mode"`
	Encoding string `mapstructure:"encoding"`
	File     string `mapstructure:"file"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
	DB   string `mapstructure:"db"`
	Seed string `mapstructure:"seed"`
}

// Load reads configuration. An explicit path must exist; otherwise nudge.yaml
// is looked up in the working directory and $XDG_CONFIG_HOME/nudge and may
// be absent.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("session.user_id", "")
	v.SetDefault("session.app_id", "nudge-cli")
	v.SetDefault("session.history", false)

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.card_cache_size", 64)
	v.SetDefault("api.card_cache_ttl", 10*time.Minute)
	v.SetDefault("api.breaker_failures", 5)
	v.SetDefault("api.breaker_timeout", 30*time.Second)

	gw := gateway.DefaultConfig()
	v.SetDefault("sync.rate", gw.Rate)
	v.SetDefault("sync.burst", gw.Burst)
	v.SetDefault("sync.request_timeout", gw.RequestTimeout)
	v.SetDefault("sync.drain_timeout", gw.DrainTimeout)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "production")
	v.SetDefault("logger.encoding", "json")
	v.SetDefault("logger.file", "")

	lc := llm.DefaultConfig()
	v.SetDefault("llm.provider", lc.Provider)
	v.SetDefault("llm.timeout", lc.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", lc.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", lc.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", lc.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", lc.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", lc.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", lc.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", lc.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", lc.Retry.Multiplier)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.db", "")
	v.SetDefault("server.seed", "")
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "nudge")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "nudge")
}

// Validate checks what every client command needs: an identity and a
// reachable API address.
func (c *Config) Validate() error {
	if err := c.SessionContext().Validate(); err != nil {
		return fmt.Errorf("%w (set session.user_id / NUDGE_SESSION_USER_ID)", err)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if c.Sync.Rate < 0 {
		return fmt.Errorf("sync.rate must not be negative")
	}
	return nil
}

// SessionContext returns the identity widgets act for.
func (c *Config) SessionContext() session.Session {
	return session.Session{
		UserID:      c.Session.UserID,
		AppID:       c.Session.AppID,
		HistoryMode: c.Session.History,
	}
}

// Gateway returns the sync gateway settings.
func (c *Config) Gateway() gateway.Config {
	return gateway.Config{
		Rate:           c.Sync.Rate,
		Burst:          c.Sync.Burst,
		RequestTimeout: c.Sync.RequestTimeout,
		DrainTimeout:   c.Sync.DrainTimeout,
	}
}
