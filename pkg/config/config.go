// Package config loads server configuration from a YAML file with
// environment overrides. Precedence: defaults, then file, then environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Data    DataConfig    `yaml:"data"`
	Auth    AuthConfig    `yaml:"auth"`
	Insight InsightConfig `yaml:"insight"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DataConfig selects where the dataset comes from.
type DataConfig struct {
	Source      string   `yaml:"source" validate:"oneof=csv postgres s3"`
	Dir         string   `yaml:"dir"`
	PostgresURL string   `yaml:"postgres_url"`
	S3          S3Config `yaml:"s3"`
}

// S3Config locates a dataset in an S3 bucket.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// AuthConfig configures optional bearer-token auth on the query endpoints.
type AuthConfig struct {
	Enabled   bool   `yaml:"enabled"`
	JWTSecret string `yaml:"jwt_secret"`
}

// InsightConfig configures the insight-generation backend. An empty APIKey
// disables generation; queries then return the raw retrieved context.
type InsightConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Data: DataConfig{
			Source: "csv",
			Dir:    "data",
		},
		Insight: InsightConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.1-8b-instant",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. An empty path skips the file and uses defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays well-known environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("JOURNEYD_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("JOURNEYD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("JOURNEYD_DATA_DIR"); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Data.PostgresURL = v
	}
	if v := os.Getenv("JOURNEYD_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
		c.Auth.Enabled = true
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.Insight.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks structural constraints and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("config: %s failed %s validation", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("config: %w", err)
	}

	switch c.Data.Source {
	case "csv":
		if c.Data.Dir == "" {
			return errors.New("config: data.dir required for csv source")
		}
	case "postgres":
		if c.Data.PostgresURL == "" {
			return errors.New("config: data.postgres_url required for postgres source")
		}
	case "s3":
		if c.Data.S3.Bucket == "" {
			return errors.New("config: data.s3.bucket required for s3 source")
		}
	}

	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return errors.New("config: auth.jwt_secret required when auth is enabled")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
