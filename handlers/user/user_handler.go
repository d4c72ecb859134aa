package handlers

import (
	"errors"
	"fmt"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/pkg/flashmessages"
	"organize.it/pkg/renderer"
	"organize.it/services"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler profil, hesap ve arkadaşlık sayfaları.
type UserHandler struct {
	users   services.IUserService
	friends services.IFriendService
	storage services.IStorageService
}

func NewUserHandler(svc *services.Services) *UserHandler {
	return &UserHandler{users: svc.User, friends: svc.Friend, storage: svc.Storage}
}

func profilePath(id uint) string {
	return fmt.Sprintf("/user/%d", id)
}

func flashServiceError(c *fiber.Ctx, err error, fallback error, fields ...zap.Field) {
	message, ok := services.UserMessage(err)
	if !ok {
		configslog.Log.Error("Beklenmeyen hata", append(fields, zap.String("path", c.Path()), zap.Error(err))...)
		message = fallback.Error()
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, message)
}

// profileData profil sayfası için ortak veriyi hazırlar.
func (h *UserHandler) profileData(c *fiber.Ctx, profile *models.User, viewer *models.User) fiber.Map {
	ctx := c.UserContext()
	data := fiber.Map{
		"Title":      profile.Username,
		"User":       profile,
		"FullAccess": profile.ID == viewer.ID,
		"SearchTerm": "",
	}

	friends, err := h.friends.ListFriends(ctx, profile.ID)
	if err != nil {
		configslog.Log.Error("Arkadaş listesi alınamadı", zap.Uint("userID", profile.ID), zap.Error(err))
	}
	data["Friends"] = friends

	if profile.ID == viewer.ID {
		pending, err := h.friends.ListPendingRequests(ctx, viewer.ID)
		if err != nil {
			configslog.Log.Error("Bekleyen istekler alınamadı", zap.Uint("userID", viewer.ID), zap.Error(err))
		}
		data["PendingRequests"] = pending
		return data
	}

	isFriend, err := h.friends.AreFriends(ctx, viewer.ID, profile.ID)
	if err != nil {
		configslog.Log.Error("Arkadaşlık kontrol edilemedi", zap.Uint("userID", viewer.ID), zap.Error(err))
	}
	requested, err := h.friends.HasPendingRequest(ctx, viewer.ID, profile.ID)
	if err != nil {
		configslog.Log.Error("Arkadaşlık isteği kontrol edilemedi", zap.Uint("userID", viewer.ID), zap.Error(err))
	}
	data["IsFriend"] = isFriend
	data["RequestSent"] = requested
	return data
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	userID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	viewer, _ := utils.CurrentUser(c)
	profile, err := h.users.GetUser(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return renderer.NotFound(c)
		}
		configslog.Log.Error("Profil yüklenemedi", zap.Uint("userID", userID), zap.Error(err))
		return c.Redirect("/home", fiber.StatusFound)
	}
	return renderer.Render(c, "users/profile", "", h.profileData(c, profile, viewer))
}

func (h *UserHandler) ShowEdit(c *fiber.Ctx) error {
	userID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	viewer, _ := utils.CurrentUser(c)
	if viewer.ID != userID {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.ErrProfileForbidden.Error())
		return c.Redirect(profilePath(viewer.ID), fiber.StatusFound)
	}
	return renderer.Render(c, "users/edit", "", fiber.Map{
		"Title": "Edit profile",
		"User":  viewer,
	})
}

func (h *UserHandler) Edit(c *fiber.Ctx) error {
	userID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	viewer, _ := utils.CurrentUser(c)
	input := services.UpdateProfileInput{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
	}
	if fh, err := c.FormFile("profile_picture"); err == nil && fh.Filename != "" {
		file, err := fh.Open()
		if err != nil {
			configslog.Log.Error("Yüklenen dosya açılamadı", zap.Error(err))
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.ErrProfilePictureSave.Error())
			return c.Redirect(fmt.Sprintf("/edit_profile/%d", userID), fiber.StatusFound)
		}
		defer file.Close()
		input.PictureName, input.Picture, input.PictureSize = fh.Filename, file, fh.Size
	}

	if _, err := h.users.UpdateProfile(c.UserContext(), userID, viewer.ID, input); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrProfileForbidden):
			flashServiceError(c, err, services.ErrProfileUpdateFailed)
			return c.Redirect(profilePath(viewer.ID), fiber.StatusFound)
		case errors.Is(err, services.ErrEmailInUse):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey, err.Error())
			return c.Redirect(fmt.Sprintf("/edit_profile/%d", userID), fiber.StatusFound)
		}
		flashServiceError(c, err, services.ErrProfileUpdateFailed, zap.Uint("userID", userID))
		return c.Redirect(profilePath(userID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Your profile was successfully updated!")
	return c.Redirect(profilePath(userID), fiber.StatusFound)
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	if err := h.users.DeleteAccount(c.UserContext(), userID); err != nil {
		flashServiceError(c, err, services.ErrAccountDeleteFailed, zap.Uint("userID", userID))
		return c.Redirect("/", fiber.StatusFound)
	}
	if err := utils.LogoutUser(c); err != nil {
		configslog.Log.Warn("Hesap silindikten sonra session silinemedi", zap.Error(err))
	}
	c.Locals(utils.CurrentUserKey, (*models.User)(nil))
	return c.Redirect("/", fiber.StatusFound)
}

func (h *UserHandler) SendFriendRequest(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	friendID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	if err := h.friends.SendRequest(c.UserContext(), userID, friendID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrAlreadyFriends), errors.Is(err, services.ErrFriendRequestExists):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, err.Error())
		default:
			flashServiceError(c, err, services.ErrFriendRequestFailed, zap.Uint("friendID", friendID))
		}
		return c.Redirect(profilePath(userID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Friend request sent!")
	return c.Redirect(profilePath(userID), fiber.StatusFound)
}

func (h *UserHandler) RespondFriendRequest(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	requestID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	resp, err := h.friends.RespondRequest(c.UserContext(), requestID, userID, c.Params("action"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFriendRequestNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrFriendRequestForbidden):
			flashServiceError(c, err, services.ErrFriendRespondFailed)
			return c.Redirect("/", fiber.StatusFound)
		}
		flashServiceError(c, err, services.ErrFriendRespondFailed, zap.Uint("requestID", requestID))
		return c.Redirect(profilePath(userID), fiber.StatusFound)
	}

	switch {
	case resp.Accepted && resp.AlreadyFriends:
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, services.ErrAlreadyFriends.Error())
	case resp.Accepted:
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Friend request accepted!")
	default:
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, "Friend request declined.")
	}
	return c.Redirect(profilePath(userID), fiber.StatusFound)
}

func (h *UserHandler) RemoveFriend(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	friendID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	if err := h.friends.RemoveFriend(c.UserContext(), userID, friendID); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrNotFriends):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, err.Error())
		default:
			flashServiceError(c, err, services.ErrFriendRemoveFailed, zap.Uint("friendID", friendID))
		}
		return c.Redirect(profilePath(userID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Friend removed successfully!")
	return c.Redirect(profilePath(userID), fiber.StatusFound)
}

func (h *UserHandler) SearchFriend(c *fiber.Ctx) error {
	viewer, _ := utils.CurrentUser(c)
	term := c.Query("search_term")
	results, err := h.users.Search(c.UserContext(), term, viewer.ID)
	if err != nil {
		if errors.Is(err, services.ErrSearchTermRequired) {
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey, err.Error())
		} else {
			flashServiceError(c, err, services.ErrSearchFailed, zap.String("term", term))
		}
		return c.Redirect(profilePath(viewer.ID), fiber.StatusFound)
	}
	if len(results) == 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, "No users found.")
		return c.Redirect(profilePath(viewer.ID), fiber.StatusFound)
	}

	data := h.profileData(c, viewer, viewer)
	data["SearchResults"] = results
	data["SearchTerm"] = term
	return renderer.Render(c, "users/profile", "", data)
}

// ProfilePicture profil resmini depolama katmanından okur, yerel disk veya MinIO fark etmez.
func (h *UserHandler) ProfilePicture(c *fiber.Ctx) error {
	name := c.Params("name")
	rc, err := h.storage.Open(c.UserContext(), name)
	if err != nil {
		if errors.Is(err, services.ErrFileNotFound) || errors.Is(err, services.ErrInvalidFileName) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		configslog.Log.Error("Profil resmi okunamadı", zap.String("name", name), zap.Error(err))
		return c.SendStatus(fiber.StatusInternalServerError)
	}
	c.Set(fiber.HeaderContentType, services.ContentTypeFor(name))
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.SendStream(rc)
}
