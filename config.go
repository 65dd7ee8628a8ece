package sage

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/eringen/sage/head"
	"github.com/eringen/sage/logger"
)

// DefaultAPIBase is used when API_BASE_URL is unset or empty.
const DefaultAPIBase = "http://localhost:8001"

// SiteConfig holds all configuration for a sage site.
type SiteConfig struct {
	APIBase string `env:"API_BASE_URL"` // Chat API base exposed to the browser (default DefaultAPIBase)

	Addr      string `env:"SAGE_ADDR"`       // Listen address (default ":3000")
	URL       string `env:"SAGE_SITE_URL"`   // Canonical URL for robots.txt and sitemap
	StaticDir string `env:"SAGE_STATIC_DIR"` // Directory with favicons and assets/ (default "public")

	HeadProfile string `env:"SAGE_HEAD_PROFILE"` // "full" (default) or "minimal"
	HeadFile    string `env:"SAGE_HEAD_FILE"`    // Optional YAML descriptor, wins over HeadProfile
	Devtools    string `env:"SAGE_DEVTOOLS"`     // Optional override of the descriptor's devtools flag

	LogLevel string `env:"SAGE_LOG_LEVEL"` // zerolog level name (default "info")

	CrawlerLog           bool   `env:"SAGE_CRAWLER_LOG" envDefault:"true"` // Record link-preview crawler hits
	CrawlerDatabasePath  string `env:"SAGE_CRAWLER_DB"`                    // SQLite path (default "data/crawlers.db")
	CrawlerRetentionDays int    `env:"SAGE_CRAWLER_RETENTION_DAYS"`        // default 90

	FaviconSource string `env:"SAGE_FAVICON_SOURCE"` // Image used to generate favicon.png when missing

	APIRate  float64 `env:"SAGE_API_RATE"`  // Requests per second per IP on /api/ (default 5)
	APIBurst int     `env:"SAGE_API_BURST"` // Burst per IP (default 10)

	UpstreamTimeout time.Duration `env:"SAGE_UPSTREAM_TIMEOUT"` // default 3s
	ShutdownTimeout time.Duration `env:"SAGE_SHUTDOWN_TIMEOUT"` // default 10s
}

// LoadConfig parses cfg from an explicit environment mapping.
func LoadConfig(environ map[string]string) (SiteConfig, error) {
	var cfg SiteConfig
	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return SiteConfig{}, fmt.Errorf("sage: parse env: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// LoadConfigFromEnv parses cfg from the process environment.
func LoadConfigFromEnv() (SiteConfig, error) {
	return LoadConfig(env.ToMap(os.Environ()))
}

func (c *SiteConfig) setDefaults() {
	c.APIBase = orDefault(c.APIBase, DefaultAPIBase)
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.URL == "" {
		c.URL = head.SiteURL
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.HeadProfile == "" {
		c.HeadProfile = head.ProfileFull
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.CrawlerDatabasePath == "" {
		c.CrawlerDatabasePath = "data/crawlers.db"
	}
	if c.CrawlerRetentionDays <= 0 {
		c.CrawlerRetentionDays = 90
	}
	if c.APIRate <= 0 {
		c.APIRate = 5
	}
	if c.APIBurst <= 0 {
		c.APIBurst = 10
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = 3 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// RuntimeConfig returns the client-visible part of the configuration.
func (c SiteConfig) RuntimeConfig() head.RuntimeConfig {
	return head.RuntimeConfig{Public: head.PublicConfig{APIBase: c.APIBase}}
}

// BuildDescriptor resolves the head descriptor: the YAML file when set,
// otherwise the named profile, then the devtools override. The result is
// validated.
func BuildDescriptor(cfg SiteConfig) (head.Descriptor, error) {
	var (
		d   head.Descriptor
		err error
	)
	if cfg.HeadFile != "" {
		d, err = head.LoadFile(cfg.HeadFile)
	} else {
		d, err = head.Profile(cfg.HeadProfile)
	}
	if err != nil {
		return head.Descriptor{}, fmt.Errorf("sage: build head: %w", err)
	}
	if cfg.Devtools != "" {
		on, err := strconv.ParseBool(cfg.Devtools)
		if err != nil {
			return head.Descriptor{}, fmt.Errorf("sage: SAGE_DEVTOOLS: %w", err)
		}
		d.Devtools = on
	}
	if err := d.Validate(); err != nil {
		return head.Descriptor{}, fmt.Errorf("sage: build head: %w", err)
	}
	return d, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the default stdout logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithUpstreamURL points the health and examples proxy somewhere other than
// the browser-facing API base, e.g. an internal service address.
func WithUpstreamURL(u string) Option {
	return func(a *App) {
		a.upstreamURL = u
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	return orDefault(os.Getenv(key), fallback)
}

// ResolveAPIBase returns API_BASE_URL from environ when present and
// non-empty, otherwise DefaultAPIBase.
func ResolveAPIBase(environ map[string]string) string {
	return orDefault(environ["API_BASE_URL"], DefaultAPIBase)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
