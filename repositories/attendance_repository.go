package repositories

import (
	"context"
	"errors"

	"organize.it/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IAttendanceRepository katılım (LCV) kayıtları için arayüz.
type IAttendanceRepository interface {
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Attendance, error)
	IsAccepted(ctx context.Context, userID, eventID uint) (bool, error)
	Upsert(ctx context.Context, userID, eventID uint, status models.AttendanceStatus) (*models.Attendance, error)
	AcceptedUsers(ctx context.Context, eventID uint) ([]models.User, error)
	AcceptedUserIDs(ctx context.Context, eventID uint) ([]uint, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

// AttendanceRepository IAttendanceRepository arayüzünü uygular.
type AttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository yeni bir AttendanceRepository örneği oluşturur.
func NewAttendanceRepository(db *gorm.DB) IAttendanceRepository {
	return &AttendanceRepository{db: db}
}

// NewAttendanceRepositoryTx transaction içinde çalışan repository döndürür.
func NewAttendanceRepositoryTx(tx *gorm.DB) IAttendanceRepository {
	return &AttendanceRepository{db: tx}
}

func (r *AttendanceRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.Attendance, error) {
	var attendance models.Attendance
	err := getDB(ctx, r.db).Where("user_id = ? AND event_id = ?", userID, eventID).Order("id asc").First(&attendance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &attendance, nil
}

func (r *AttendanceRepository) IsAccepted(ctx context.Context, userID, eventID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Attendance{}).
		Where("user_id = ? AND event_id = ? AND status = ?", userID, eventID, models.AttendanceStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// Upsert (user, event) için mevcut kaydı günceller, yoksa yenisini oluşturur.
func (r *AttendanceRepository) Upsert(ctx context.Context, userID, eventID uint, status models.AttendanceStatus) (*models.Attendance, error) {
	db := getDB(ctx, r.db)
	existing, err := r.FindByUserAndEvent(ctx, userID, eventID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == status {
			return existing, nil
		}
		if err := db.Model(existing).Update("status", status).Error; err != nil {
			return nil, err
		}
		existing.Status = status
		return existing, nil
	}
	attendance := &models.Attendance{UserID: userID, EventID: eventID, Status: status}
	if err := db.Omit(clause.Associations).Create(attendance).Error; err != nil {
		return nil, err
	}
	return attendance, nil
}

// AcceptedUsers Attendance tablosu üzerinden kabul etmiş kullanıcılar.
func (r *AttendanceRepository) AcceptedUsers(ctx context.Context, eventID uint) ([]models.User, error) {
	var users []models.User
	err := getDB(ctx, r.db).
		Joins("JOIN attendances ON attendances.user_id = users.id").
		Where("attendances.event_id = ? AND attendances.status = ?", eventID, models.AttendanceStatusAccepted).
		Distinct("users.*").
		Order("users.id asc").
		Find(&users).Error
	return users, err
}

func (r *AttendanceRepository) AcceptedUserIDs(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint
	err := getDB(ctx, r.db).Model(&models.Attendance{}).
		Where("event_id = ? AND status = ?", eventID, models.AttendanceStatusAccepted).
		Distinct("user_id").
		Order("user_id asc").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *AttendanceRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return getDB(ctx, r.db).Where("user_id = ?", userID).Delete(&models.Attendance{}).Error
}

var _ IAttendanceRepository = (*AttendanceRepository)(nil)
