package repositories

import (
	"context"
	"errors"
	"time"

	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ICommentRepository yorum veritabanı işlemleri için arayüz.
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	ListTopLevel(ctx context.Context, eventID uint) ([]models.Comment, error)
	ListReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// CommentRepository ICommentRepository arayüzünü uygular.
type CommentRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Comment]
}

// NewCommentRepository yeni bir CommentRepository örneği oluşturur.
func NewCommentRepository(db *gorm.DB) ICommentRepository {
	return &CommentRepository{db: db, base: NewBaseRepository[models.Comment](db)}
}

// NewCommentRepositoryTx transaction içinde çalışan repository döndürür.
func NewCommentRepositoryTx(tx *gorm.DB) ICommentRepository {
	return NewCommentRepository(tx)
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment == nil || comment.EventID == 0 || comment.UserID == 0 {
		return errors.New("yorum için etkinlik ve kullanıcı zorunludur")
	}
	if comment.Timestamp.IsZero() {
		comment.Timestamp = time.Now().UTC()
	}
	return getDB(ctx, r.db).Omit(clause.Associations).Create(comment).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	return r.base.FindByID(ctx, id)
}

// ListTopLevel etkinliğin üst seviye yorumları, eskiden yeniye.
func (r *CommentRepository) ListTopLevel(ctx context.Context, eventID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := getDB(ctx, r.db).Preload("User").
		Where("event_id = ? AND parent_comment_id IS NULL", eventID).
		Order("timestamp asc, id asc").
		Find(&comments).Error
	if err != nil {
		configslog.Log.Error("CommentRepository.ListTopLevel: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return comments, nil
}

// ListReplies verilen üst yorumların doğrudan yanıtları.
func (r *CommentRepository) ListReplies(ctx context.Context, parentIDs []uint) ([]models.Comment, error) {
	var replies []models.Comment
	if len(parentIDs) == 0 {
		return replies, nil
	}
	err := getDB(ctx, r.db).Preload("User").
		Where("parent_comment_id IN ?", parentIDs).
		Order("timestamp asc, id asc").
		Find(&replies).Error
	return replies, err
}

// DeleteByUser kullanıcının yorumlarını ve bu yorumlara yazılmış yanıtları siler.
func (r *CommentRepository) DeleteByUser(ctx context.Context, userID uint) error {
	db := getDB(ctx, r.db)
	var ids []uint
	if err := db.Model(&models.Comment{}).Where("user_id = ?", userID).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := db.Where("parent_comment_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return db.Where("id IN ?", ids).Delete(&models.Comment{}).Error
}

var _ ICommentRepository = (*CommentRepository)(nil)
