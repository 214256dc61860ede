// Package config loads runtime settings from an optional config file, a .env
// file and KHOBOR_ prefixed environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "KHOBOR"

// Config holds the settings shared by every command.
type Config struct {
	LogLevel       string        `mapstructure:"log_level"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	RetryCount     int           `mapstructure:"retry_count"`
	BoltPath       string        `mapstructure:"bolt_path"`
	SourcesFile    string        `mapstructure:"sources_file"`
	PublishersFile string        `mapstructure:"publishers_file"`
	StoryWorkers   int           `mapstructure:"story_workers"`
	// FetchStories enables story enrichment for every source regardless of
	// the per-source flag.
	FetchStories bool `mapstructure:"fetch_stories"`
}

// Load reads configuration. cfgFile is optional; when empty only defaults and
// the environment apply. A missing .env file is not an error.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile = strings.TrimSpace(cfgFile); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.sanitize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_timeout", 15*time.Second)
	v.SetDefault("user_agent", "khobor-reader/1.0")
	v.SetDefault("retry_count", 0)
	v.SetDefault("bolt_path", "khobor.db")
	v.SetDefault("sources_file", "sources.yaml")
	v.SetDefault("publishers_file", "publishers.yaml")
	v.SetDefault("story_workers", 10)
	v.SetDefault("fetch_stories", false)
}

func (c *Config) sanitize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.UserAgent = strings.TrimSpace(c.UserAgent)
	c.BoltPath = strings.TrimSpace(c.BoltPath)
	c.SourcesFile = strings.TrimSpace(c.SourcesFile)
	c.PublishersFile = strings.TrimSpace(c.PublishersFile)
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q not supported", c.LogLevel)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout must be positive")
	}
	if c.RetryCount < 0 {
		return errors.New("retry_count must not be negative")
	}
	if c.StoryWorkers < 1 || c.StoryWorkers > 10 {
		return fmt.Errorf("story_workers must be between 1 and 10, got %d", c.StoryWorkers)
	}
	return nil
}
