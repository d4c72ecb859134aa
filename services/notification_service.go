package services

import (
	"context"
	"errors"
	"fmt"
	"html"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/pkg/metrics"
	"organize.it/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationServiceError string

func (e NotificationServiceError) Error() string { return string(e) }

const (
	ErrNotificationNotFound NotificationServiceError = "Notification not found."
)

// Bildirim türleri metrik etiketi olarak kullanılır.
const (
	NotificationKindInvitation    = "invitation"
	NotificationKindInviteStatus  = "invitation_status"
	NotificationKindComment       = "comment"
	NotificationKindEventUpdated  = "event_updated"
	NotificationKindEventDeleted  = "event_deleted"
	NotificationKindReminder      = "reminder"
	NotificationKindFriendRequest = "friend_request"
)

// INotificationService uygulama içi bildirim işlemleri için arayüz.
type INotificationService interface {
	Notify(ctx context.Context, userID uint, eventID *uint, message, kind string) error
	FanOut(ctx context.Context, userIDs []uint, eventID *uint, message, kind string) int
	ListForUser(ctx context.Context, userID uint) ([]models.Notification, error)
	Silence(ctx context.Context, id, userID uint) error
}

// NotificationService INotificationService arayüzünü uygular.
type NotificationService struct {
	db   *gorm.DB
	repo repositories.INotificationRepository
}

// NewNotificationService yeni bir NotificationService örneği oluşturur.
func NewNotificationService(db *gorm.DB) INotificationService {
	return &NotificationService{db: db, repo: repositories.NewNotificationRepository(db)}
}

// --- Mesaj üreticileri ---
// Başlık ve kullanıcı adları HTML olarak gösterildiği için kaçırılır.

func InvitationCreatedMessage(link, eventTitle string) string {
	return fmt.Sprintf(`<a href="%s">You have been invited to %s</a>`, link, html.EscapeString(eventTitle))
}

func InvitationStatusMessage(username string, status models.InvitationStatus, eventTitle string) string {
	return fmt.Sprintf(`%s has %s your invitation for event "%s"`, html.EscapeString(username), status, html.EscapeString(eventTitle))
}

func CommentAddedMessage(link, eventTitle string) string {
	return fmt.Sprintf(`<a href="%s">New comment on event "%s"</a>`, link, html.EscapeString(eventTitle))
}

func EventUpdatedMessage(link, eventTitle string) string {
	return fmt.Sprintf(`<a href="%s">Event "%s" was recently updated.</a>`, link, html.EscapeString(eventTitle))
}

func EventDeletedMessage(eventTitle string) string {
	return fmt.Sprintf(`Event "%s" was deleted by the organizer.`, html.EscapeString(eventTitle))
}

func ReminderMessage(eventTitle string) string {
	return fmt.Sprintf(`Reminder: Event "%s" is happening tomorrow!`, html.EscapeString(eventTitle))
}

// ReminderMailBody düz metin e-posta içindir, başlık escape edilmez.
func ReminderMailBody(eventTitle string) string {
	return fmt.Sprintf(`Reminder: Event "%s" is happening tomorrow!`, eventTitle)
}

func FriendRequestSentMessage(username, link string) string {
	return fmt.Sprintf(`%s sent you a friend request! <a href="%s">Accept/Decline</a>`, html.EscapeString(username), link)
}

func FriendRequestAcceptedMessage(username string) string {
	return fmt.Sprintf(`%s accepted your friend request!`, html.EscapeString(username))
}

func FriendRequestDeclinedMessage(username string) string {
	return fmt.Sprintf(`%s declined your friend request.`, html.EscapeString(username))
}

// --- Servis metodları ---

// Notify tek bir bildirim oluşturur. ctx içinde transaction varsa onu kullanır.
func (s *NotificationService) Notify(ctx context.Context, userID uint, eventID *uint, message, kind string) error {
	notification := &models.Notification{UserID: userID, EventID: eventID, Message: message}
	if err := s.repo.Create(ctx, notification); err != nil {
		configslog.Log.Error("Bildirim oluşturulamadı", zap.Uint("userID", userID), zap.String("kind", kind), zap.Error(err))
		return err
	}
	metrics.IncNotification(kind)
	return nil
}

// FanOut her farklı alıcıya bir bildirim yazar. Tek bir alıcıdaki hata
// loglanır ve atlanır. Oluşturulan bildirim sayısını döndürür.
func (s *NotificationService) FanOut(ctx context.Context, userIDs []uint, eventID *uint, message, kind string) int {
	seen := make(map[uint]struct{}, len(userIDs))
	created := 0
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := s.Notify(ctx, id, eventID, message, kind); err != nil {
			continue
		}
		created++
	}
	return created
}

func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *NotificationService) Silence(ctx context.Context, id, userID uint) error {
	if err := s.repo.Silence(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

var _ INotificationService = (*NotificationService)(nil)
