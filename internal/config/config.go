package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EnvCity    = "CITY"
	EnvWebhook = "TEAMS_WEBHOOK_URL"

	cityPlaceholder = "{city}"
)

type Config struct {
	City          string            `yaml:"city"`
	WebhookURL    string            `yaml:"webhook_url,omitempty"`
	Feeds         []string          `yaml:"feeds"`
	Freshness     string            `yaml:"freshness"`
	MaxArticles   int               `yaml:"max_articles"`
	Facts         []string          `yaml:"facts"`
	Maps          map[string]string `yaml:"maps"`
	DefaultMap    string            `yaml:"default_map"`
	Timezone      string            `yaml:"timezone,omitempty"`
	RecordHistory bool              `yaml:"record_history"`
}

// FreshnessDuration returns the freshness window, defaulting to 24h.
func (c *Config) FreshnessDuration() time.Duration {
	if c.Freshness == "" {
		return 24 * time.Hour
	}
	d, err := ParseDuration(c.Freshness)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// GetMaxArticles returns the display cap, defaulting to 5.
func (c *Config) GetMaxArticles() int {
	if c.MaxArticles <= 0 {
		return 5
	}
	return c.MaxArticles
}

// FeedURLs expands the feed templates for the configured city.
func (c *Config) FeedURLs() []string {
	city := url.QueryEscape(c.City)
	out := make([]string, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		out = append(out, strings.ReplaceAll(f, cityPlaceholder, city))
	}
	return out
}

// LiveMap returns the map URL for the city, matched case-insensitively.
func (c *Config) LiveMap() string {
	if u, ok := c.Maps[strings.ToLower(strings.TrimSpace(c.City))]; ok {
		return u
	}
	return c.DefaultMap
}

// Location resolves the display time zone. Load rejects unknown names; an
// unvalidated Config falls back to local time.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ParseDuration accepts Go durations plus an "Nd" day suffix.
func ParseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "trafficbot", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "trafficbot", "history.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location) on top of the
// embedded defaults, then applies CITY and TEAMS_WEBHOOK_URL from the
// environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	normalizeMaps(cfg)
	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeMaps lower-cases map keys so LiveMap can match any casing. A
// user key like "Mumbai" replaces the default "mumbai".
func normalizeMaps(cfg *Config) {
	maps := make(map[string]string, len(cfg.Maps))
	for k, v := range cfg.Maps {
		lk := strings.ToLower(strings.TrimSpace(k))
		if _, seen := maps[lk]; seen && k == lk {
			continue
		}
		maps[lk] = v
	}
	cfg.Maps = maps
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvCity); v != "" {
		cfg.City = v
	}
	if v := os.Getenv(EnvWebhook); v != "" {
		cfg.WebhookURL = v
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.City) == "" {
		return fmt.Errorf("city is required")
	}
	if len(cfg.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}
	for i, f := range cfg.Feeds {
		u, err := url.Parse(strings.ReplaceAll(f, cityPlaceholder, "x"))
		if err != nil {
			return fmt.Errorf("feed %d: invalid url: %w", i, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %d: url scheme must be http or https, got %q", i, u.Scheme)
		}
	}
	if cfg.MaxArticles < 0 {
		return fmt.Errorf("max_articles must not be negative, got %d", cfg.MaxArticles)
	}
	if cfg.Freshness != "" {
		d, err := ParseDuration(cfg.Freshness)
		if err != nil {
			return fmt.Errorf("invalid freshness %q: %w", cfg.Freshness, err)
		}
		if d <= 0 {
			return fmt.Errorf("freshness must be positive, got %q", cfg.Freshness)
		}
	}
	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}
	if len(cfg.Facts) == 0 {
		return fmt.Errorf("at least one fact is required")
	}
	return nil
}
