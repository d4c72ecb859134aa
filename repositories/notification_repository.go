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

// INotificationRepository bildirim veritabanı işlemleri için arayüz.
type INotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	Exists(ctx context.Context, userID, eventID uint, message string) (bool, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Notification, error)
	CountForUser(ctx context.Context, userID uint) (int64, error)
	Silence(ctx context.Context, id, userID uint) error
	DistinctUserIDs(ctx context.Context) ([]uint, error)
	PruneForUser(ctx context.Context, userID uint, keep int) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// NotificationRepository INotificationRepository arayüzünü uygular.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository yeni bir NotificationRepository örneği oluşturur.
func NewNotificationRepository(db *gorm.DB) INotificationRepository {
	return &NotificationRepository{db: db}
}

// NewNotificationRepositoryTx transaction içinde çalışan repository döndürür.
func NewNotificationRepositoryTx(tx *gorm.DB) INotificationRepository {
	return &NotificationRepository{db: tx}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification == nil || notification.UserID == 0 || notification.Message == "" {
		return errors.New("bildirim için kullanıcı ve mesaj zorunludur")
	}
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now().UTC()
	}
	return getDB(ctx, r.db).Omit(clause.Associations).Create(notification).Error
}

// Exists aynı (kullanıcı, etkinlik, mesaj) üçlüsüyle bildirim var mı?
func (r *NotificationRepository) Exists(ctx context.Context, userID, eventID uint, message string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Notification{}).
		Where("user_id = ? AND event_id = ? AND message = ?", userID, eventID, message).
		Count(&count).Error
	return count > 0, err
}

// ListForUser susturulmamış bildirimler, yeniden eskiye.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := getDB(ctx, r.db).
		Where("user_id = ? AND is_silenced = ?", userID, false).
		Order("timestamp desc, id desc").
		Find(&notifications).Error
	if err != nil {
		configslog.Log.Error("NotificationRepository.ListForUser: DB error", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) CountForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Notification{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Silence bildirimi yalnızca sahibi susturabilir.
func (r *NotificationRepository) Silence(ctx context.Context, id, userID uint) error {
	result := getDB(ctx, r.db).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_silenced", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) DistinctUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := getDB(ctx, r.db).Model(&models.Notification{}).Distinct("user_id").Order("user_id asc").Pluck("user_id", &ids).Error
	return ids, err
}

// PruneForUser en yeni keep bildirimi (timestamp desc, id desc) bırakıp gerisini siler.
func (r *NotificationRepository) PruneForUser(ctx context.Context, userID uint, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	db := getDB(ctx, r.db)
	var keepIDs []uint
	err := db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Order("timestamp desc, id desc").
		Limit(keep).
		Pluck("id", &keepIDs).Error
	if err != nil {
		return 0, err
	}
	query := db.Where("user_id = ?", userID)
	if len(keepIDs) > 0 {
		query = query.Where("id NOT IN ?", keepIDs)
	}
	result := query.Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}

var _ INotificationRepository = (*NotificationRepository)(nil)
