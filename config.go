package bitebybits

import "time"

// SiteConfig holds all configuration for the site. It is built explicitly at
// startup and passed into the App; nothing reads ambient globals afterwards.
type SiteConfig struct {
	Name        string // Site name (default "Bite by Bits")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name shown as post author

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/blog.db")
	StaticDir    string // Directory for static assets (default "public")
	PageSize     int    // Posts per listing page (default 5)

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// Contact intake. ContactTo is the fixed operator address all contact
	// messages are delivered to. An empty RecaptchaSecret disables the
	// human-verification step.
	ContactTo        string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string // envelope/header From for contact mail
	RecaptchaSiteKey string
	RecaptchaSecret  string

	PostCacheTTL time.Duration // Published-post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Bite by Bits"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PageSize <= 0 {
		c.PageSize = 5
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithMailer replaces the SMTP mailer, mainly for tests.
func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

// WithVerifier replaces the reCAPTCHA verifier, mainly for tests.
func WithVerifier(v Verifier) Option {
	return func(a *App) {
		a.verifier = v
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
