package repositories

import (
	"context"
	"errors"

	"organize.it/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ITaskRepository görev veritabanı işlemleri için arayüz.
type ITaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id uint) (*models.Task, error)
	ListByEvent(ctx context.Context, eventID uint) ([]models.Task, error)
	SetCompleted(ctx context.Context, id uint, completed bool) error
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) error
}

// TaskRepository ITaskRepository arayüzünü uygular.
type TaskRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Task]
}

// NewTaskRepository yeni bir TaskRepository örneği oluşturur.
func NewTaskRepository(db *gorm.DB) ITaskRepository {
	return &TaskRepository{db: db, base: NewBaseRepository[models.Task](db)}
}

// NewTaskRepositoryTx transaction içinde çalışan repository döndürür.
func NewTaskRepositoryTx(tx *gorm.DB) ITaskRepository {
	return NewTaskRepository(tx)
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task == nil || task.EventID == 0 || task.Title == "" {
		return errors.New("görev için etkinlik ve başlık zorunludur")
	}
	return getDB(ctx, r.db).Omit(clause.Associations).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*models.Task, error) {
	return r.base.FindByID(ctx, id, "Event")
}

func (r *TaskRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := getDB(ctx, r.db).Where("event_id = ?", eventID).Order("id asc").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) SetCompleted(ctx context.Context, id uint, completed bool) error {
	result := getDB(ctx, r.db).Model(&models.Task{}).Where("id = ?", id).Update("completed", completed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.base.DeleteByID(ctx, id)
}

func (r *TaskRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&models.Task{}).Error
}

var _ ITaskRepository = (*TaskRepository)(nil)
