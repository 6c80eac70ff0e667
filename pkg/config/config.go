// Package config loads the figma-context configuration file.
//
// A configuration file is optional; every value can also come from flags.
// The access token falls back to the FIGMA_API_KEY environment variable.
//
//	access_token: figd_xxx
//	base_url: https://api.figma.com/v1
//	debug: false
//	debug_log_dir: logs
//	format: yaml
//	log:
//	  level: info
//	  file: figma-context.log
//	  max_size: 10
//	  max_backups: 3
//	  max_age: 28
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable consulted when no access token is configured.
const TokenEnv = "FIGMA_API_KEY"

// Config is the complete configuration.
type Config struct {
	AccessToken string `yaml:"access_token" validate:"required"`
	BaseURL     string `yaml:"base_url" validate:"omitempty,url"`
	Debug       bool   `yaml:"debug"`
	DebugLogDir string `yaml:"debug_log_dir"`
	Format      string `yaml:"format" validate:"omitempty,oneof=yaml yml json markdown md"`
	Log         Log    `yaml:"log"`
}

// Log configures structured logging.
type Log struct {
	Level      string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size" validate:"gte=0"`    // megabytes
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"` // files
	MaxAge     int    `yaml:"max_age" validate:"gte=0"`     // days
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DebugLogDir: "logs",
		Format:      "yaml",
		Log: Log{
			Level:      "info",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields the defaults.
// The result is not validated; call Verify once flags have been applied.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ewrap.Wrapf(err, "failed to read config %q", path)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML data into cfg, keeping the fields data does not set.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return ewrap.Wrap(err, "failed to parse config")
	}

	return nil
}

// ApplyEnv fills an empty access token from the environment.
func (c *Config) ApplyEnv() {
	if c.AccessToken == "" {
		c.AccessToken = os.Getenv(TokenEnv)
	}
}

// Verify validates the configuration.
func (c *Config) Verify() error {
	if err := validator.New().Struct(c); err != nil {
		return ewrap.Wrap(err, "invalid configuration")
	}

	return nil
}
