package renderer

import (
	"errors"

	"organize.it/configs/configslog"
	"organize.it/pkg/flashmessages"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const DefaultLayout = "layouts/base"

// Render view'ı layout ile birlikte işler. Bekleyen flash mesajları, CSRF token'ı
// ve oturumdaki kullanıcı her view'a otomatik eklenir.
func Render(c *fiber.Ctx, view, layout string, data fiber.Map, statusCode ...int) error {
	if data == nil {
		data = fiber.Map{}
	}
	if layout == "" {
		layout = DefaultLayout
	}

	messages, err := flashmessages.GetFlashMessages(c)
	if err != nil && !errors.Is(err, utils.ErrNoSessionStore) {
		configslog.Log.Warn("Flash mesajları okunamadı", zap.String("view", view), zap.Error(err))
	}
	if existing, ok := data["Flash"].([]flashmessages.FlashMessage); ok {
		messages = append(existing, messages...)
	}
	data["Flash"] = messages

	if _, ok := data["CsrfToken"]; !ok {
		data["CsrfToken"] = c.Locals("csrf")
	}
	if user, ok := utils.CurrentUser(c); ok {
		data["CurrentUser"] = user
	}
	if _, ok := data["Title"]; !ok {
		data["Title"] = "organize.it"
	}

	status := fiber.StatusOK
	if len(statusCode) > 0 {
		status = statusCode[0]
	}
	return c.Status(status).Render(view, data, layout)
}

// NotFound 404 sayfasını gösterir.
func NotFound(c *fiber.Ctx) error {
	return Render(c, "errors/404", DefaultLayout, fiber.Map{"Title": "Page not found"}, fiber.StatusNotFound)
}
