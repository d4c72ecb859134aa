package repositories

import (
	"context"
	"errors"

	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IInvitationRepository davet veritabanı işlemleri için arayüz.
type IInvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	FindByID(ctx context.Context, id uint) (*models.Invitation, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.InvitationStatus) error
	ExistsByEmail(ctx context.Context, eventID uint, email string) (bool, error)
	ExistsByRecipient(ctx context.Context, eventID, recipientID uint) (bool, error)
	FindEmailOnlyByEmail(ctx context.Context, email string) ([]models.Invitation, error)
	ClaimRecipient(ctx context.Context, id, recipientID uint) (bool, error)
	ListByEvent(ctx context.Context, eventID uint) ([]models.Invitation, error)
	HasAccepted(ctx context.Context, eventID uint) (bool, error)
	DeleteByRecipient(ctx context.Context, recipientID uint, email string) error
}

// InvitationRepository IInvitationRepository arayüzünü uygular.
type InvitationRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Invitation]
}

// NewInvitationRepository yeni bir InvitationRepository örneği oluşturur.
func NewInvitationRepository(db *gorm.DB) IInvitationRepository {
	return &InvitationRepository{db: db, base: NewBaseRepository[models.Invitation](db)}
}

// NewInvitationRepositoryTx transaction içinde çalışan repository döndürür.
func NewInvitationRepositoryTx(tx *gorm.DB) IInvitationRepository {
	return NewInvitationRepository(tx)
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation == nil || invitation.EventID == 0 {
		return errors.New("etkinliksiz davet oluşturulamaz")
	}
	if invitation.RecipientID == nil && invitation.Email() == "" {
		return errors.New("davetin alıcısı yok")
	}
	if invitation.Status == "" {
		invitation.Status = models.InvitationStatusPending
	}
	return getDB(ctx, r.db).Omit(clause.Associations).Create(invitation).Error
}

func (r *InvitationRepository) FindByID(ctx context.Context, id uint) (*models.Invitation, error) {
	return r.base.FindByID(ctx, id, "Event", "Event.Organizer", "Recipient")
}

// UpdateStatus durumu yalnızca mevcut durum from ise değiştirir.
// Eşzamanlı iki yanıttan yalnızca biri kazanır.
func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uint, from, to models.InvitationStatus) error {
	result := getDB(ctx, r.db).Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		configslog.Log.Error("InvitationRepository.UpdateStatus: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InvitationRepository) ExistsByEmail(ctx context.Context, eventID uint, email string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Invitation{}).
		Where("event_id = ? AND recipient_email = ?", eventID, models.NormalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *InvitationRepository) ExistsByRecipient(ctx context.Context, eventID, recipientID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Invitation{}).
		Where("event_id = ? AND recipient_id = ?", eventID, recipientID).
		Count(&count).Error
	return count > 0, err
}

// FindEmailOnlyByEmail henüz bir kullanıcıya bağlanmamış davetler.
func (r *InvitationRepository) FindEmailOnlyByEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := getDB(ctx, r.db).Preload("Event").
		Where("recipient_id IS NULL AND recipient_email = ?", models.NormalizeEmail(email)).
		Order("id asc").
		Find(&invitations).Error
	return invitations, err
}

// ClaimRecipient recipient_id boşsa doldurur. Satır zaten bağlıysa false döner.
func (r *InvitationRepository) ClaimRecipient(ctx context.Context, id, recipientID uint) (bool, error) {
	result := getDB(ctx, r.db).Model(&models.Invitation{}).
		Where("id = ? AND recipient_id IS NULL", id).
		Update("recipient_id", recipientID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *InvitationRepository) ListByEvent(ctx context.Context, eventID uint) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := getDB(ctx, r.db).Preload("Recipient").Where("event_id = ?", eventID).Order("id asc").Find(&invitations).Error
	return invitations, err
}

// HasAccepted etkinlik için kabul edilmiş en az bir davet var mı?
func (r *InvitationRepository) HasAccepted(ctx context.Context, eventID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Invitation{}).
		Where("event_id = ? AND status = ?", eventID, models.InvitationStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// DeleteByRecipient kullanıcıya bağlı veya e-postasına gönderilmiş davetleri siler.
func (r *InvitationRepository) DeleteByRecipient(ctx context.Context, recipientID uint, email string) error {
	query := getDB(ctx, r.db).Where("recipient_id = ?", recipientID)
	if email != "" {
		query = query.Or("recipient_email = ?", models.NormalizeEmail(email))
	}
	return query.Delete(&models.Invitation{}).Error
}

var _ IInvitationRepository = (*InvitationRepository)(nil)
