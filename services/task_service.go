package services

import (
	"context"
	"errors"
	"strings"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskServiceError string

func (e TaskServiceError) Error() string { return string(e) }

const (
	ErrTaskNotFound        TaskServiceError = "Task not found."
	ErrTaskAddForbidden    TaskServiceError = "You are not the organizer of this event to add tasks."
	ErrTaskModifyForbidden TaskServiceError = "You are not authorized to modify this task."
	ErrTaskDeleteForbidden TaskServiceError = "You are not authorized to delete this task."
	ErrTaskTitleEmpty      TaskServiceError = "Task title cannot be empty."
	ErrTaskAddFailed       TaskServiceError = "There was an error adding your task!"
	ErrTaskDeleteFailed    TaskServiceError = "There was an error deleting your task!"
)

// ITaskService etkinlik görevleri için arayüz.
type ITaskService interface {
	AddTask(ctx context.Context, eventID, userID uint, title string) (*models.Task, error)
	ToggleTask(ctx context.Context, taskID, userID uint) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID, userID uint) (*models.Task, error)
}

// TaskService ITaskService arayüzünü uygular.
type TaskService struct {
	db        *gorm.DB
	repo      repositories.ITaskRepository
	eventRepo repositories.IEventRepository
}

// NewTaskService yeni bir TaskService örneği oluşturur.
func NewTaskService(db *gorm.DB) ITaskService {
	return &TaskService{
		db:        db,
		repo:      repositories.NewTaskRepository(db),
		eventRepo: repositories.NewEventRepository(db),
	}
}

func (s *TaskService) AddTask(ctx context.Context, eventID, userID uint, title string) (*models.Task, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.IsOrganizer(userID) {
		return nil, ErrTaskAddForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTaskTitleEmpty
	}

	task := &models.Task{EventID: event.ID, UserID: userID, Title: title}
	if err := s.repo.Create(ctx, task); err != nil {
		configslog.Log.Error("Görev oluşturulamadı", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, ErrTaskAddFailed
	}
	return task, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint) (*models.Task, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// ToggleTask tamamlanma durumunu tersine çevirir. Sadece organizatör.
// Hata durumunda da görev döner, çağıran yönlendirme için EventID'yi kullanır.
func (s *TaskService) ToggleTask(ctx context.Context, taskID, userID uint) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Event.IsOrganizer(userID) {
		return task, ErrTaskModifyForbidden
	}
	if err := s.repo.SetCompleted(ctx, task.ID, !task.Completed); err != nil {
		return task, err
	}
	task.Completed = !task.Completed
	return task, nil
}

// DeleteTask görevi organizatör veya görevi oluşturan silebilir.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, userID uint) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Event.IsOrganizer(userID) && task.UserID != userID {
		return task, ErrTaskDeleteForbidden
	}
	if err := s.repo.Delete(ctx, task.ID); err != nil {
		configslog.Log.Error("Görev silinemedi", zap.Uint("taskID", taskID), zap.Error(err))
		return task, ErrTaskDeleteFailed
	}
	return task, nil
}

var _ ITaskService = (*TaskService)(nil)
