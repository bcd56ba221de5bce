package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            string `yaml:"port" validate:"omitempty,numeric"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level    string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
		Encoding string `yaml:"encoding" validate:"omitempty,oneof=console json"`
	} `yaml:"log"`
	Storage struct {
		Driver   string `yaml:"driver" validate:"required,oneof=memory redis postgres sqlite"`
		CacheTTL string `yaml:"cache_ttl"`
	} `yaml:"storage"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db" validate:"min=0"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" validate:"omitempty,url"`
	} `yaml:"postgres"`
	SQLite struct {
		Path string `yaml:"path"`
	} `yaml:"sqlite"`
	Editor struct {
		HistoryLimit int    `yaml:"history_limit" validate:"min=0,max=1000"`
		SaveDebounce string `yaml:"save_debounce"`
		SaveMaxDelay string `yaml:"save_max_delay"`
	} `yaml:"editor"`
	OpenAI struct {
		APIKey      string `yaml:"api_key"`
		Model       string `yaml:"model"`
		BaseURL     string `yaml:"base_url" validate:"omitempty,url"`
		Concurrency int    `yaml:"concurrency" validate:"min=0,max=64"`
		Tone        string `yaml:"tone"`
	} `yaml:"openai"`
	Media struct {
		Dir     string `yaml:"dir"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"media"`
}

// Default returns the configuration used when no file sets a value.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = "5s"
	cfg.Log.Level = "info"
	cfg.Log.Encoding = "console"
	cfg.Storage.Driver = "memory"
	cfg.Storage.CacheTTL = "5m"
	cfg.Redis.TTL = "10m"
	cfg.SQLite.Path = "quiz-builder.db"
	cfg.Editor.HistoryLimit = 50
	cfg.Editor.SaveDebounce = "1s"
	cfg.Editor.SaveMaxDelay = "10s"
	cfg.OpenAI.Concurrency = 4
	cfg.Media.Dir = "media"
	cfg.Media.BaseURL = "/assets"
	return cfg
}

// Load reads YAML config from path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"PORT":           &c.Server.Port,
		"LOG_LEVEL":      &c.Log.Level,
		"STORAGE_DRIVER": &c.Storage.Driver,
		"REDIS_ADDR":     &c.Redis.Addr,
		"REDIS_PASSWORD": &c.Redis.Password,
		"DATABASE_URL":   &c.Postgres.URL,
		"SQLITE_PATH":    &c.SQLite.Path,
		"OPENAI_API_KEY": &c.OpenAI.APIKey,
		"OPENAI_MODEL":   &c.OpenAI.Model,
		"MEDIA_DIR":      &c.Media.Dir,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup("HISTORY_LIMIT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HISTORY_LIMIT: %w", err)
		}
		c.Editor.HistoryLimit = n
	}
	return nil
}

// Validate checks field rules and the settings each storage driver needs.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Storage.Driver {
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("invalid config: storage driver redis needs redis.addr")
		}
	case "postgres":
		if c.Postgres.URL == "" {
			return fmt.Errorf("invalid config: storage driver postgres needs postgres.url")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("invalid config: storage driver sqlite needs sqlite.path")
		}
	}
	for name, raw := range map[string]string{
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"storage.cache_ttl":       c.Storage.CacheTTL,
		"redis.ttl":               c.Redis.TTL,
		"editor.save_debounce":    c.Editor.SaveDebounce,
		"editor.save_max_delay":   c.Editor.SaveMaxDelay,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			return fmt.Errorf("invalid config: %s: %w", name, err)
		}
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
