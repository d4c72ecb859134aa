package handlers

import (
	"errors"

	"organize.it/configs/configslog"
	"organize.it/pkg/flashmessages"
	"organize.it/pkg/renderer"
	"organize.it/services"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HomeHandler struct {
	events        services.IEventService
	notifications services.INotificationService
}

func NewHomeHandler(svc *services.Services) *HomeHandler {
	return &HomeHandler{events: svc.Event, notifications: svc.Notification}
}

// Index giriş yapmış kullanıcıyı /home'a yönlendirir.
func (h *HomeHandler) Index(c *fiber.Ctx) error {
	if _, ok := utils.CurrentUser(c); ok {
		return c.Redirect("/home", fiber.StatusFound)
	}
	return renderer.Render(c, "index", "", fiber.Map{"Title": "organize.it"})
}

func (h *HomeHandler) Home(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	overview, err := h.events.ListHome(c.UserContext(), userID)
	if err != nil {
		configslog.Log.Error("Ana sayfa verisi alınamadı", zap.Uint("userID", userID), zap.Error(err))
		return renderer.Render(c, "home", "", fiber.Map{
			"Title":    "Home",
			"Overview": &services.HomeOverview{},
			"Flash": []flashmessages.FlashMessage{{
				Category: "danger",
				Message:  "There was an error loading your events!",
			}},
		})
	}
	return renderer.Render(c, "home", "", fiber.Map{
		"Title":    "Home",
		"Overview": overview,
	})
}

func (h *HomeHandler) SilenceNotification(c *fiber.Ctx) error {
	id, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	userID := utils.CurrentUserID(c)
	if err := h.notifications.Silence(c.UserContext(), id, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			return renderer.NotFound(c)
		}
		configslog.Log.Error("Bildirim gizlenemedi", zap.Uint("notificationID", id), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "The notification could not be dismissed.")
	}
	return c.Redirect("/home", fiber.StatusFound)
}
