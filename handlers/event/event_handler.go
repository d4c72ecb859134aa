package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/pkg/flashmessages"
	"organize.it/pkg/renderer"
	"organize.it/services"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler etkinlik oluşturma, düzenleme, silme ve detay sayfası.
type EventHandler struct {
	cfg         *configs.AppConfig
	service     services.IEventService
	friends     services.IFriendService
	invitations services.IInvitationService
}

func NewEventHandler(svc *services.Services, cfg *configs.AppConfig) *EventHandler {
	return &EventHandler{
		cfg:         cfg,
		service:     svc.Event,
		friends:     svc.Friend,
		invitations: svc.Invitation,
	}
}

type inviteForm struct {
	InviteMethod string `form:"invite_method"`
	GuestEmail   string `form:"guest_email"`
	Friends      []uint `form:"friends"`
}

type createEventForm struct {
	Title        string `form:"title"`
	Description  string `form:"description"`
	Date         string `form:"date"`
	InviteMethod string `form:"invite_method"`
	GuestEmail   string `form:"guest_email"`
	Friends      []uint `form:"friends"`
}

func eventPath(id uint) string {
	return fmt.Sprintf("/event/%d", id)
}

// flashServiceError servis hatasını flash mesaja çevirir. Beklenmeyen hatalar loglanır.
func flashServiceError(c *fiber.Ctx, err error, fallback error, fields ...zap.Field) {
	message, ok := services.UserMessage(err)
	if !ok {
		configslog.Log.Error("Beklenmeyen hata", append(fields, zap.String("path", c.Path()), zap.Error(err))...)
		message = fallback.Error()
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, message)
}

// flashSendResult gönderilen ve atlanan davet sayılarını bildirir.
func flashSendResult(c *fiber.Ctx, result *services.SendResult) {
	if result == nil {
		return
	}
	if result.Sent > 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, fmt.Sprintf("%d invitations are sent.", result.Sent))
	}
	if result.Skipped > 0 {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey,
			fmt.Sprintf("%d invitations were not sent because they have already been sent.", result.Skipped))
	}
}

func (h *EventHandler) ShowCreate(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	friends, err := h.friends.ListFriends(c.UserContext(), userID)
	if err != nil {
		configslog.Log.Error("Arkadaş listesi alınamadı", zap.Uint("userID", userID), zap.Error(err))
	}
	return renderer.Render(c, "events/create", "", fiber.Map{
		"Title":    "Create event",
		"Friends":  friends,
		"FormData": flashmessages.GetFlashFormData(c),
	})
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	var form createEventForm
	if err := c.BodyParser(&form); err != nil {
		configslog.Log.Warn("Etkinlik formu okunamadı", zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.ErrEventFieldsRequired.Error())
		return c.Redirect("/create-event", fiber.StatusFound)
	}

	event, result, err := h.service.CreateEvent(c.UserContext(), userID, services.CreateEventInput{
		Title:        form.Title,
		Description:  form.Description,
		Date:         form.Date,
		InviteMethod: form.InviteMethod,
		Emails:       []string{form.GuestEmail},
		FriendIDs:    form.Friends,
	})
	if event == nil {
		flashServiceError(c, err, services.ErrEventCreationFailed, zap.Uint("userID", userID))
		_ = flashmessages.SetFlashFormData(c, map[string]string{
			"title":       form.Title,
			"description": form.Description,
			"date":        form.Date,
			"guest_email": form.GuestEmail,
		})
		return c.Redirect("/create-event", fiber.StatusFound)
	}

	flashSendResult(c, result)
	if err != nil {
		flashServiceError(c, err, services.ErrInvitationFailed, zap.Uint("eventID", event.ID))
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Event was created successfully!")
	return c.Redirect(eventPath(event.ID), fiber.StatusFound)
}

func (h *EventHandler) ShowEdit(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	event, err := h.service.GetEditableEvent(c.UserContext(), eventID, utils.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return renderer.NotFound(c)
		}
		flashServiceError(c, err, services.ErrEventLoadFailed, zap.Uint("eventID", eventID))
		return c.Redirect(eventPath(eventID), fiber.StatusFound)
	}

	local := event.Date.In(h.cfg.Location)
	return renderer.Render(c, "events/edit", "", fiber.Map{
		"Title":     "Edit event",
		"Event":     event,
		"DateValue": local.Format(services.DateLayout),
		"TimeValue": local.Format(services.TimeLayout),
	})
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	event, err := h.service.UpdateEvent(c.UserContext(), eventID, utils.CurrentUserID(c), services.UpdateEventInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Date:        c.FormValue("date"),
		Time:        c.FormValue("time"),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrEventEditForbidden):
			flashServiceError(c, err, services.ErrEventUpdateFailed)
			return c.Redirect(eventPath(eventID), fiber.StatusFound)
		}
		flashServiceError(c, err, services.ErrEventUpdateFailed, zap.Uint("eventID", eventID))
		return c.Redirect(fmt.Sprintf("/edit-event/%d", eventID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Event was successfully updated!")
	return c.Redirect(eventPath(event.ID), fiber.StatusFound)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	profile := fmt.Sprintf("/user/%d", userID)
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	if err := h.service.DeleteEvent(c.UserContext(), eventID, userID); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return renderer.NotFound(c)
		}
		flashServiceError(c, err, services.ErrEventDeletionFailed, zap.Uint("eventID", eventID))
		return c.Redirect(profile, fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Event was successfully deleted.")
	return c.Redirect(profile, fiber.StatusFound)
}

func (h *EventHandler) Detail(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	detail, err := h.service.GetEventDetail(c.UserContext(), eventID, utils.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return renderer.NotFound(c)
		}
		flashServiceError(c, err, services.ErrEventLoadFailed, zap.Uint("eventID", eventID))
		return c.Redirect("/home", fiber.StatusFound)
	}
	return renderer.Render(c, "events/detail", "", fiber.Map{
		"Title":  detail.Event.Title,
		"Detail": detail,
	})
}

func (h *EventHandler) Invite(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	var form inviteForm
	if err := c.BodyParser(&form); err != nil {
		configslog.Log.Warn("Davet formu okunamadı", zap.Uint("eventID", eventID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.ErrInvitationFailed.Error())
		return c.Redirect(eventPath(eventID), fiber.StatusFound)
	}

	result, err := h.invitations.SendInvitations(c.UserContext(), utils.CurrentUserID(c), eventID,
		form.InviteMethod, []string{form.GuestEmail}, form.Friends)
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			return renderer.NotFound(c)
		}
		flashSendResult(c, &result)
		flashServiceError(c, err, services.ErrInvitationFailed, zap.Uint("eventID", eventID))
		return c.Redirect(eventPath(eventID), fiber.StatusFound)
	}
	flashSendResult(c, &result)
	return c.Redirect(eventPath(eventID), fiber.StatusFound)
}

// ShowInvitation anonim kullanıcıyı kayıt sayfasına, davetin sahibi olmayanları ana sayfaya yönlendirir.
func (h *EventHandler) ShowInvitation(c *fiber.Ctx) error {
	invitationID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	viewer, ok := utils.CurrentUser(c)
	if !ok {
		return h.redirectToRegister(c, invitationID)
	}

	invitation, err := h.invitations.GetForViewer(c.UserContext(), invitationID, viewer)
	if err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			return renderer.NotFound(c)
		}
		flashServiceError(c, err, services.ErrInvitationLoadFailed, zap.Uint("invitationID", invitationID))
		return c.Redirect("/home", fiber.StatusFound)
	}
	return renderer.Render(c, "invitations/page", "", fiber.Map{
		"Title":      "Invitation",
		"Invitation": invitation,
		"Event":      &invitation.Event,
	})
}

func (h *EventHandler) RespondInvitation(c *fiber.Ctx) error {
	invitationID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	viewer, ok := utils.CurrentUser(c)
	if !ok {
		return h.redirectToRegister(c, invitationID)
	}

	action := c.FormValue("action")
	invitation, err := h.invitations.Respond(c.UserContext(), invitationID, viewer, action)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrInvalidInvitationAction), errors.Is(err, services.ErrInvitationAlreadyAnswered):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey, err.Error())
			return c.Redirect(fmt.Sprintf("/invitation/%d", invitationID), fiber.StatusFound)
		}
		flashServiceError(c, err, services.ErrInvitationLoadFailed, zap.Uint("invitationID", invitationID))
		return c.Redirect("/home", fiber.StatusFound)
	}

	if action == services.InvitationActionAccept {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
			fmt.Sprintf("You have accepted the invitation to \"%s\".", invitation.Event.Title))
		return c.Redirect(eventPath(invitation.EventID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey,
		fmt.Sprintf("You have declined the invitation to \"%s\".", invitation.Event.Title))
	return c.Redirect("/home", fiber.StatusFound)
}

func (h *EventHandler) redirectToRegister(c *fiber.Ctx, invitationID uint) error {
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashInfoKey, "Please register to respond to the invitation.")
	next := fmt.Sprintf("/invitation/%d", invitationID)
	return c.Redirect("/register?next="+url.QueryEscape(next), fiber.StatusFound)
}
