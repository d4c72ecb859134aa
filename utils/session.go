package utils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"organize.it/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	SessionStoreKey = "session_store"
	CurrentUserKey  = "user"
	UserIDKey       = "userID"

	sessionUserIDKey   = "user_id"
	sessionUserNameKey = "user_name"
)

var ErrNoSessionStore = errors.New("session store bulunamadı")

// SessionStart Locals'taki store üzerinden mevcut session'ı açar.
func SessionStart(c *fiber.Ctx) (*session.Session, error) {
	store, ok := c.Locals(SessionStoreKey).(*session.Store)
	if !ok || store == nil {
		return nil, ErrNoSessionStore
	}
	return store.Get(c)
}

// GetUserIDFromSession session'daki kullanıcı ID'sini okur.
func GetUserIDFromSession(sess *session.Session) (uint, error) {
	switch v := sess.Get(sessionUserIDKey).(type) {
	case uint:
		if v == 0 {
			return 0, errors.New("session'da geçersiz kullanıcı ID")
		}
		return v, nil
	case nil:
		return 0, errors.New("session'da kullanıcı yok")
	default:
		return 0, fmt.Errorf("session'da beklenmeyen kullanıcı ID tipi: %T", v)
	}
}

// LoginUser session'ı yeniler ve kullanıcıyı bağlar.
func LoginUser(c *fiber.Ctx, user *models.User) error {
	sess, err := SessionStart(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserIDKey, user.ID)
	sess.Set(sessionUserNameKey, user.Username)
	return sess.Save()
}

// LogoutUser session'ı tamamen siler.
func LogoutUser(c *fiber.Ctx) error {
	sess, err := SessionStart(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// CurrentUser middleware'in Locals'a koyduğu kullanıcıyı döndürür.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(CurrentUserKey).(*models.User)
	return user, ok && user != nil
}

// SafeRedirectPath sadece uygulama içi yolları kabul eder, aksi halde fallback döner.
func SafeRedirectPath(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
