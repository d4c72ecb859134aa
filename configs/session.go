package configs

import (
	"encoding/gob"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/session"
)

func init() {
	// Flash mesajları []string, form verisi map[string]string olarak saklanır
	gob.Register([]string{})
	gob.Register(map[string]string{})
}

// SetupSession cookie tabanlı session store'u oluşturur.
func SetupSession(cfg *AppConfig) *session.Store {
	return session.New(session.Config{
		Expiration:     cfg.SessionExpiration,
		KeyLookup:      "cookie:organizeit_session",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.SessionSecure,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SetupCSRF form gönderimleri için CSRF korumasını döndürür.
// Token view'lara c.Locals("csrf") üzerinden gider.
func SetupCSRF(cfg *AppConfig, store *session.Store) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:_csrf",
		CookieName:     "organizeit_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.SessionSecure,
		Expiration:     time.Hour,
		ContextKey:     "csrf",
		Session:        store,
	})
}
