package middlewares

import (
	"net/url"

	"organize.it/pkg/flashmessages"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware oturum açmamış kullanıcıyı geri dönüş adresiyle login sayfasına yönlendirir.
func AuthMiddleware(c *fiber.Ctx) error {
	if _, ok := utils.CurrentUser(c); ok {
		return c.Next()
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, "Please log in to access this page.")
	return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
}

// GuestMiddleware giriş yapmış kullanıcının login/register sayfalarına girmesini engeller.
func GuestMiddleware(c *fiber.Ctx) error {
	if _, ok := utils.CurrentUser(c); !ok {
		return c.Next()
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, "You are already logged in.")
	return c.Redirect(utils.SafeRedirectPath(c.Query("next"), "/home"), fiber.StatusFound)
}
