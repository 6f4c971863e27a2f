// Command bitebybits runs the blog server. All site branding and credentials
// come from environment variables, optionally loaded from a .env file.
package main

import (
	"log"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bitebybits/bitebybits"
)

func main() {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg := bitebybits.SiteConfig{
		Name:        bitebybits.EnvOr("SITE_NAME", "Bite by Bits"),
		URL:         bitebybits.EnvOr("SITE_URL", "http://localhost:3000"),
		Description: bitebybits.EnvOr("SITE_DESCRIPTION", ""),
		Author:      bitebybits.EnvOr("SITE_AUTHOR", ""),

		Addr:         bitebybits.EnvOr("ADDR", ":3000"),
		DatabasePath: bitebybits.EnvOr("DATABASE_PATH", "data/blog.db"),
		StaticDir:    bitebybits.EnvOr("STATIC_DIR", "public"),
		PageSize:     envInt("PAGE_SIZE", 5),

		AdminPassword: bitebybits.MustEnv("ADMIN_PASSWORD"),
		SessionSecret: bitebybits.MustEnv("ADMIN_SESSION_SECRET"),
		CookieSecure:  bitebybits.EnvOr("COOKIE_SECURE", "") == "true",

		ContactTo:        bitebybits.EnvOr("CONTACT_TO", ""),
		SMTPHost:         bitebybits.EnvOr("SMTP_HOST", ""),
		SMTPPort:         envInt("SMTP_PORT", 587),
		SMTPUsername:     bitebybits.EnvOr("SMTP_USERNAME", ""),
		SMTPPassword:     bitebybits.EnvOr("SMTP_PASSWORD", ""),
		SMTPFrom:         bitebybits.EnvOr("SMTP_FROM", ""),
		RecaptchaSiteKey: bitebybits.EnvOr("RECAPTCHA_SITE_KEY", ""),
		RecaptchaSecret:  bitebybits.EnvOr("RECAPTCHA_SECRET", ""),
	}

	app := bitebybits.New(cfg)
	defer app.Close()

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

func envInt(key string, fallback int) int {
	v := bitebybits.EnvOr(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Fatalf("invalid %s: %q", key, v)
	}
	return n
}
