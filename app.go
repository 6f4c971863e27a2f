// Package bitebybits is a personal blogging site built with Go, Echo, and
// templ. It serves a paginated post listing, date-and-slug post pages, tag
// listings, an RSS feed, an XML sitemap, and a contact form with optional
// reCAPTCHA verification, with posts managed through a session-protected
// admin dashboard.
package bitebybits

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the central application. It wires together the store, cache,
// mailer, verifier, handlers, and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache

	mailer         Mailer
	verifier       Verifier
	loginLimiter   *RateLimiter
	contactLimiter *RateLimiter
	customRoutes   []func(*App)
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// setup initializes everything except the listener so tests can exercise the
// full application without binding a port.
func (a *App) setup() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("bitebybits: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("bitebybits: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("bitebybits: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.contactLimiter = NewRateLimiter(5, time.Minute)

	if a.mailer == nil {
		a.mailer = &SMTPMailer{
			Host:     a.Config.SMTPHost,
			Port:     a.Config.SMTPPort,
			Username: a.Config.SMTPUsername,
			Password: a.Config.SMTPPassword,
		}
	}
	if a.verifier == nil && a.Config.RecaptchaSecret != "" {
		a.verifier = NewRecaptchaVerifier(a.Config.RecaptchaSecret)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the application and runs the HTTP server.
func (a *App) Start() error {
	if err := a.setup(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/tag/:slug/", a.handleTag)
	e.GET("/about/", a.handleAbout)
	e.GET("/contact/", a.handleContactForm)
	e.POST("/contact/", a.handleContactSubmit)
	e.GET("/contact/success/", a.handleContactSuccess)
	e.GET("/:year/:month/:day/:slug/", a.handlePostDetail)

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/new/", a.handleAdminNewPost)
	e.GET("/admin/post/:id/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:id/", a.handleAdminDelete)
	e.POST("/admin/post/:id/images/", a.handleImageUpload)
	e.DELETE("/admin/images/:id/", a.handleImageDelete)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("bitebybits: required environment variable %s is not set", key)
	}
	return v
}
