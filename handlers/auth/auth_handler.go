package handlers

import (
	"errors"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/pkg/flashmessages"
	"organize.it/pkg/renderer"
	"organize.it/services"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler kayıt, giriş ve çıkış işlemleri.
type AuthHandler struct {
	service services.IAuthService
}

func NewAuthHandler(svc *services.Services) *AuthHandler {
	return &AuthHandler{service: svc.Auth}
}

func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return renderer.Render(c, "auth/register", "", fiber.Map{
		"Title":    "Register",
		"Next":     c.Query("next"),
		"FormData": flashmessages.GetFlashFormData(c),
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	next := c.Query("next", c.FormValue("next"))
	input := services.RegisterInput{
		Username:        c.FormValue("username"),
		Email:           c.FormValue("email"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirm_password"),
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
	}

	if fh, err := c.FormFile("profile_picture"); err == nil && fh.Filename != "" {
		file, err := fh.Open()
		if err != nil {
			configslog.Log.Error("Yüklenen dosya açılamadı", zap.Error(err))
			return h.registerFailed(c, input, next, services.ErrProfilePictureSave)
		}
		defer file.Close()
		input.PictureName, input.Picture, input.PictureSize = fh.Filename, file, fh.Size
	}

	user, err := h.service.Register(c.UserContext(), input)
	if err != nil {
		return h.registerFailed(c, input, next, err)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Your account has been created!")
	if err := utils.LoginUser(c, user); err != nil {
		configslog.Log.Error("Kayıt sonrası oturum açılamadı", zap.Uint("userID", user.ID), zap.Error(err))
		return c.Redirect("/login", fiber.StatusFound)
	}
	return c.Redirect(utils.SafeRedirectPath(next, "/home"), fiber.StatusFound)
}

func (h *AuthHandler) registerFailed(c *fiber.Ctx, input services.RegisterInput, next string, err error) error {
	message, ok := services.UserMessage(err)
	if !ok {
		configslog.Log.Error("Kayıt başarısız", zap.String("username", input.Username), zap.Error(err))
		message = services.ErrRegistrationFailed.Error()
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, message)
	_ = flashmessages.SetFlashFormData(c, map[string]string{
		"username":   input.Username,
		"email":      input.Email,
		"first_name": input.FirstName,
		"last_name":  input.LastName,
	})
	target := "/register"
	if next != "" {
		target += "?next=" + next
	}
	return c.Redirect(target, fiber.StatusFound)
}

func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return renderer.Render(c, "auth/login", "", fiber.Map{
		"Title":    "Login",
		"Next":     c.Query("next"),
		"FormData": flashmessages.GetFlashFormData(c),
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	next := c.Query("next", c.FormValue("next"))
	username := c.FormValue("username")
	user, err := h.service.Authenticate(c.UserContext(), username, c.FormValue("password"))
	if err != nil {
		message := services.ErrInvalidCredentials.Error()
		if errors.Is(err, services.ErrLoginFieldsRequired) {
			message = err.Error()
		} else if !errors.Is(err, services.ErrInvalidCredentials) {
			configslog.Log.Error("Giriş sırasında hata", zap.String("username", username), zap.Error(err))
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, message)
		_ = flashmessages.SetFlashFormData(c, map[string]string{"username": username})
		target := "/login"
		if next != "" {
			target += "?next=" + next
		}
		return c.Redirect(target, fiber.StatusFound)
	}

	if err := utils.LoginUser(c, user); err != nil {
		configslog.Log.Error("Oturum açılamadı", zap.Uint("userID", user.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Login failed. Please try again.")
		return c.Redirect("/login", fiber.StatusFound)
	}
	configslog.Log.Info("Kullanıcı giriş yaptı", zap.Uint("userID", user.ID))
	return c.Redirect(utils.SafeRedirectPath(next, "/home"), fiber.StatusFound)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if user, ok := utils.CurrentUser(c); ok {
		configslog.Log.Info("Kullanıcı çıkış yaptı", zap.Uint("userID", user.ID))
	}
	if err := utils.LogoutUser(c); err != nil {
		configslog.Log.Warn("Session silinemedi", zap.Error(err))
	}
	c.Locals(utils.CurrentUserKey, (*models.User)(nil))
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "You have been logged out")
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	return c.Redirect("/", fiber.StatusFound)
}
