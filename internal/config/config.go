// Package config loads and validates the site configuration file
// (docsmith.yaml). Environment variables referenced in the file are
// expanded before decoding, and a .env file next to the process is
// honored when present.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the site configuration.
type Config struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Theme       string `yaml:"theme,omitempty"`

	ContentDir string `yaml:"content_dir,omitempty"`
	OutputDir  string `yaml:"output_dir,omitempty"`

	Nav []MenuItem `yaml:"nav,omitempty"`

	// DisableSearch turns off search index generation and the theme's
	// search box.
	DisableSearch bool `yaml:"disable_search,omitempty"`

	Preview PreviewConfig `yaml:"preview,omitempty"`
}

// MenuItem is a top navigation menu entry.
type MenuItem struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Weight int    `yaml:"weight,omitempty"`
}

// PreviewConfig controls the local preview server.
type PreviewConfig struct {
	Port int `yaml:"port,omitempty"`

	// RebuildEvery schedules periodic full rebuilds in addition to
	// change-triggered ones, refreshing data derived outside the content
	// tree (git last-updated metadata). Zero disables the schedule.
	RebuildEvery Duration `yaml:"rebuild_every,omitempty"`
}

// Duration decodes YAML strings like "90s" or "10m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads, expands, decodes, and validates the configuration file.
func Load(path string) (*Config, error) {
	// A .env file is optional; ignore its absence.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Title == "" {
		c.Title = "Documentation"
	}
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if c.Theme == "" {
		c.Theme = "docs"
	}
	if c.ContentDir == "" {
		c.ContentDir = "./docs"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./public"
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = 8080
	}
}

// Validate reports configuration errors that would break a build.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "/") && !strings.Contains(c.BaseURL, "://") {
		return fmt.Errorf("base_url must be absolute or start with /: %q", c.BaseURL)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("preview port out of range: %d", c.Preview.Port)
	}
	for i, item := range c.Nav {
		if item.Name == "" || item.URL == "" {
			return fmt.Errorf("nav entry %d: name and url are required", i)
		}
	}
	if c.Preview.RebuildEvery != 0 && c.Preview.RebuildEvery.Std() < time.Second {
		return fmt.Errorf("preview rebuild_every below 1s: %s", c.Preview.RebuildEvery.Std())
	}
	return nil
}

// BasePath returns the path portion of BaseURL with a trailing slash,
// suitable for prefixing asset and page URLs.
func (c *Config) BasePath() string {
	base := c.BaseURL
	if i := strings.Index(base, "://"); i >= 0 {
		rest := base[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			base = rest[j:]
		} else {
			base = "/"
		}
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}
