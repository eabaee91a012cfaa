package pubadmin

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Config holds all configuration for the console.
type Config struct {
	Addr          string `env:"PUBADMIN_ADDR" envDefault:":3000"`
	APIBaseURL    string `env:"PUBADMIN_API_BASE_URL"`    // Required: content API root
	SessionSecret string `env:"PUBADMIN_SESSION_SECRET"` // Required: cookie signing secret
	CookieSecure  bool   `env:"PUBADMIN_COOKIE_SECURE"`   // Set true for HTTPS
	LogLevel      string `env:"PUBADMIN_LOG_LEVEL" envDefault:"info"`
	PublicURL     string `env:"PUBADMIN_PUBLIC_URL"` // public site root for "View" links

	RequestTimeout time.Duration `env:"PUBADMIN_REQUEST_TIMEOUT" envDefault:"0"` // 0 = no timeout
	StatsTTL       time.Duration `env:"PUBADMIN_STATS_TTL" envDefault:"1m"`
	AssetHost      string        `env:"PUBADMIN_ASSET_HOST" envDefault:"res.cloudinary.com"`

	MaxUploadSize   int64 `env:"PUBADMIN_MAX_UPLOAD_SIZE" envDefault:"10485760"`
	MaxDocumentSize int64 `env:"PUBADMIN_MAX_DOCUMENT_SIZE" envDefault:"20971520"`

	DraftTTL      time.Duration `env:"PUBADMIN_DRAFT_TTL" envDefault:"2h"`
	LoginAttempts int           `env:"PUBADMIN_LOGIN_ATTEMPTS" envDefault:"5"`
	LoginWindow   time.Duration `env:"PUBADMIN_LOGIN_WINDOW" envDefault:"1m"`
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StatsTTL == 0 {
		c.StatsTTL = time.Minute
	}
	if c.AssetHost == "" {
		c.AssetHost = "res.cloudinary.com"
	}
	if c.MaxUploadSize == 0 {
		c.MaxUploadSize = 10 << 20
	}
	if c.MaxDocumentSize == 0 {
		c.MaxDocumentSize = 20 << 20
	}
	if c.DraftTTL == 0 {
		c.DraftTTL = 2 * time.Hour
	}
	if c.LoginAttempts == 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
}

// Validate reports the first setting the console cannot start with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("PUBADMIN_API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("PUBADMIN_API_BASE_URL must be an absolute http(s) URL")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("PUBADMIN_SESSION_SECRET is required")
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return fmt.Errorf("PUBADMIN_LOG_LEVEL must be one of debug, info, warn, error, off")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("PUBADMIN_REQUEST_TIMEOUT cannot be negative")
	}
	if c.LoginAttempts < 1 {
		return fmt.Errorf("PUBADMIN_LOGIN_ATTEMPTS must be at least 1")
	}
	if c.MaxUploadSize < 1 || c.MaxDocumentSize < 1 {
		return fmt.Errorf("upload size limits must be positive")
	}
	return nil
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	return cfg, cfg.Validate()
}

func parseLevel(s string) (log.Lvl, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, true
	case "", "info":
		return log.INFO, true
	case "warn", "warning":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	}
	return log.INFO, false
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock replaces the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithViews replaces the page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
