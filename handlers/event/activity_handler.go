package handlers

import (
	"errors"

	"organize.it/pkg/flashmessages"
	"organize.it/pkg/renderer"
	"organize.it/services"
	"organize.it/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ActivityHandler etkinlik sayfasındaki yorum ve görev işlemleri.
type ActivityHandler struct {
	comments services.ICommentService
	tasks    services.ITaskService
}

func NewActivityHandler(svc *services.Services) *ActivityHandler {
	return &ActivityHandler{comments: svc.Comment, tasks: svc.Task}
}

func (h *ActivityHandler) AddComment(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	parentID, err := utils.OptionalID(c.FormValue("parent_comment_id"))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.ErrCommentParentInvalid.Error())
		return c.Redirect(eventPath(eventID), fiber.StatusFound)
	}

	if _, err := h.comments.AddComment(c.UserContext(), eventID, utils.CurrentUserID(c), c.FormValue("content"), parentID); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrCommentEmpty):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey, err.Error())
		default:
			flashServiceError(c, err, services.ErrCommentFailed, zap.Uint("eventID", eventID))
		}
	}
	return c.Redirect(eventPath(eventID), fiber.StatusFound)
}

func (h *ActivityHandler) AddTask(c *fiber.Ctx) error {
	eventID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	if _, err := h.tasks.AddTask(c.UserContext(), eventID, utils.CurrentUserID(c), c.FormValue("task_title")); err != nil {
		switch {
		case errors.Is(err, services.ErrEventNotFound):
			return renderer.NotFound(c)
		case errors.Is(err, services.ErrTaskTitleEmpty):
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashWarningKey, err.Error())
		default:
			flashServiceError(c, err, services.ErrTaskAddFailed, zap.Uint("eventID", eventID))
		}
		return c.Redirect(eventPath(eventID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Task added successfully!")
	return c.Redirect(eventPath(eventID), fiber.StatusFound)
}

func (h *ActivityHandler) ToggleTask(c *fiber.Ctx) error {
	taskID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	task, err := h.tasks.ToggleTask(c.UserContext(), taskID, utils.CurrentUserID(c))
	if task == nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return renderer.NotFound(c)
		}
		flashServiceError(c, err, services.ErrTaskModifyForbidden, zap.Uint("taskID", taskID))
		return c.Redirect("/home", fiber.StatusFound)
	}
	if err != nil {
		flashServiceError(c, err, services.ErrTaskModifyForbidden, zap.Uint("taskID", taskID))
		return c.Redirect(eventPath(task.EventID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Task status updated.")
	return c.Redirect(eventPath(task.EventID), fiber.StatusFound)
}

func (h *ActivityHandler) DeleteTask(c *fiber.Ctx) error {
	taskID, err := utils.ParamID(c, "id")
	if err != nil {
		return renderer.NotFound(c)
	}
	task, err := h.tasks.DeleteTask(c.UserContext(), taskID, utils.CurrentUserID(c))
	if task == nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return renderer.NotFound(c)
		}
		flashServiceError(c, err, services.ErrTaskDeleteFailed, zap.Uint("taskID", taskID))
		return c.Redirect("/home", fiber.StatusFound)
	}
	if err != nil {
		flashServiceError(c, err, services.ErrTaskDeleteFailed, zap.Uint("taskID", taskID))
		return c.Redirect(eventPath(task.EventID), fiber.StatusFound)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Task deleted successfully.")
	return c.Redirect(eventPath(task.EventID), fiber.StatusFound)
}
