package routes

import (
	"errors"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/pkg/metrics"
	"organize.it/pkg/renderer"
	"organize.it/services"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

// SetupRoutes tüm uygulama rotalarını ve genel middleware'leri ayarlar.
func SetupRoutes(app *fiber.App, cfg *configs.AppConfig, svc *services.Services) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(metrics.Middleware())

	store := configs.SetupSession(cfg)
	app.Use(initializeSessionAndLocals(store, svc.User))
	if cfg.CSRFEnabled {
		app.Use(configs.SetupCSRF(cfg, store))
	}

	app.Get("/metrics", metrics.Handler())

	registerHomeRoutes(app, svc)
	registerAuthRoutes(app, svc)
	registerEventRoutes(app, cfg, svc)
	registerUserRoutes(app, svc)

	app.Use(notFoundHandler)
}

// initializeSessionAndLocals session store'u Locals'a koyar ve oturumdaki kullanıcıyı yükler.
// Silinmiş bir kullanıcıya ait session temizlenir.
func initializeSessionAndLocals(store *session.Store, users services.IUserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(utils.SessionStoreKey, store)
		sess, err := utils.SessionStart(c)
		if err != nil {
			configslog.Log.Warn("Session açılamadı", zap.Error(err))
			return c.Next()
		}
		userID, err := utils.GetUserIDFromSession(sess)
		if err != nil {
			return c.Next()
		}

		user, err := users.GetUser(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				configslog.Log.Info("Session'daki kullanıcı bulunamadı, session siliniyor", zap.Uint("userID", userID))
				_ = sess.Destroy()
			} else {
				configslog.Log.Error("Session kullanıcısı yüklenemedi", zap.Uint("userID", userID), zap.Error(err))
			}
			return c.Next()
		}
		c.Locals(utils.CurrentUserKey, user)
		c.Locals(utils.UserIDKey, user.ID)
		return c.Next()
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	switch c.Accepts("application/json", "text/html") {
	case "application/json":
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kaynak bulunamadı"})
	default:
		return renderer.NotFound(c)
	}
}
