package repositories

import (
	"context"
	"errors"
	"time"

	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEventRepository etkinlik veritabanı işlemleri için arayüz.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Event, error)
	ListAttending(ctx context.Context, userID uint) ([]models.Event, error)
	FindStartingBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
	ParticipantsByInvitation(ctx context.Context, eventID uint) ([]models.User, error)
	DeleteCascade(ctx context.Context, eventID uint) error
}

// EventRepository IEventRepository arayüzünü uygular.
type EventRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Event]
}

// NewEventRepository yeni bir EventRepository örneği oluşturur.
func NewEventRepository(db *gorm.DB) IEventRepository {
	return &EventRepository{db: db, base: NewBaseRepository[models.Event](db)}
}

// NewEventRepositoryTx transaction içinde çalışan repository döndürür.
func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	return NewEventRepository(tx)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.Title == "" {
		return errors.New("başlıksız etkinlik oluşturulamaz")
	}
	return r.base.Create(ctx, event)
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	return r.base.FindByID(ctx, id, "Organizer")
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return errors.New("güncellenecek etkinlik geçerli değil")
	}
	return getDB(ctx, r.db).Model(event).Select("title", "description", "date").Updates(event).Error
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Event, error) {
	var events []models.Event
	err := getDB(ctx, r.db).Where("organizer_id = ?", organizerID).Order("date asc").Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.ListByOrganizer: DB error", zap.Uint("organizerID", organizerID), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// ListAttending kullanıcının kabul edilmiş Attendance kaydı olan etkinlikler.
func (r *EventRepository) ListAttending(ctx context.Context, userID uint) ([]models.Event, error) {
	var events []models.Event
	err := getDB(ctx, r.db).
		Joins("JOIN attendances ON attendances.event_id = events.id").
		Where("attendances.user_id = ? AND attendances.status = ?", userID, models.AttendanceStatusAccepted).
		Distinct("events.*").
		Order("events.date asc").
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.ListAttending: DB error", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// FindStartingBetween tarihi [from, to) aralığına düşen etkinlikler.
func (r *EventRepository) FindStartingBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	var events []models.Event
	err := getDB(ctx, r.db).Where("date >= ? AND date < ?", from.UTC(), to.UTC()).Order("date asc").Find(&events).Error
	return events, err
}

// ParticipantsByInvitation kabul edilmiş davetlerin alıcıları.
// Attendance tabanlı katılımcı listesinden bilinçli olarak ayrı tutulur.
func (r *EventRepository) ParticipantsByInvitation(ctx context.Context, eventID uint) ([]models.User, error) {
	var users []models.User
	err := getDB(ctx, r.db).
		Joins("JOIN invitations ON invitations.recipient_id = users.id").
		Where("invitations.event_id = ? AND invitations.status = ?", eventID, models.InvitationStatusAccepted).
		Distinct("users.*").
		Order("users.id asc").
		Find(&users).Error
	if err != nil {
		configslog.Log.Error("EventRepository.ParticipantsByInvitation: DB error", zap.Uint("eventID", eventID), zap.Error(err))
		return nil, err
	}
	return users, nil
}

// DeleteCascade etkinliği bağlı tüm kayıtlarıyla tek transaction içinde siler:
// davetler, katılımlar, bildirimler, yorumlar, görevler ve en son etkinliğin kendisi.
func (r *EventRepository) DeleteCascade(ctx context.Context, eventID uint) error {
	if eventID == 0 {
		return ErrNotFound
	}
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		dependents := []interface{}{
			&models.Invitation{},
			&models.Attendance{},
			&models.Notification{},
			&models.Comment{},
			&models.Task{},
		}
		for _, model := range dependents {
			if err := tx.Where("event_id = ?", eventID).Delete(model).Error; err != nil {
				configslog.Log.Error("EventRepository.DeleteCascade: bağlı kayıtlar silinemedi", zap.Uint("eventID", eventID), zap.Error(err))
				return err
			}
		}
		result := tx.Delete(&models.Event{}, eventID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

var _ IEventRepository = (*EventRepository)(nil)
