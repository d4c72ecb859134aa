package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound        EventServiceError = "Event not found."
	ErrEventFieldsRequired  EventServiceError = "Event name, date and time are necessary!"
	ErrEventTitleRequired   EventServiceError = "Event name is necessary!"
	ErrEventFieldsTooLong   EventServiceError = "Event name must be at most 100 characters and description at most 500."
	ErrEventDateInPast      EventServiceError = "The date of the event must be current/after current date!"
	ErrEventInvalidDate     EventServiceError = "Invalid date or time format. Try to edit again."
	ErrEventCreationFailed  EventServiceError = "Event was not created successfully!"
	ErrEventUpdateFailed    EventServiceError = "Unexpected error! Event was not updated successfully!"
	ErrEventDeletionFailed  EventServiceError = "Unexpected error! Event was not deleted successfully!"
	ErrEventEditForbidden   EventServiceError = "You are not authorized to edit this event."
	ErrEventDeleteForbidden EventServiceError = "You are not organizer of this event and can't delete it!"
	ErrEventLoadFailed      EventServiceError = "There was an error loading your event!"
)

// Form alanlarının biçimleri (HTML datetime-local, date ve time input'ları).
const (
	DateTimeLocalLayout = "2006-01-02T15:04"
	DateLayout          = "2006-01-02"
	TimeLayout          = "15:04"
)

// CreateEventInput etkinlik oluşturma formu.
type CreateEventInput struct {
	Title        string `validate:"required,max=100"`
	Description  string `validate:"max=500"`
	Date         string `validate:"required"`
	InviteMethod string
	Emails       []string
	FriendIDs    []uint
}

// UpdateEventInput düzenleme formu. Date ve Time ayrı ayrı boş bırakılabilir.
type UpdateEventInput struct {
	Title       string `validate:"required,max=100"`
	Description string `validate:"max=500"`
	Date        string
	Time        string
}

// EventDetail etkinlik sayfası için gereken her şey.
type EventDetail struct {
	Event        *models.Event
	IsOwner      bool
	IsAttending  bool
	HasPassed    bool
	Comments     []models.CommentThread
	Participants []models.User
	Tasks        []models.Task
	Friends      []models.User
}

// HomeOverview ana sayfa verisi.
type HomeOverview struct {
	Upcoming      []models.Event
	Past          []models.Event
	Organized     []models.Event
	Notifications []models.Notification
}

// IEventService etkinlik işlemleri için arayüz.
type IEventService interface {
	CreateEvent(ctx context.Context, organizerID uint, input CreateEventInput) (*models.Event, *SendResult, error)
	GetEvent(ctx context.Context, eventID uint) (*models.Event, error)
	GetEditableEvent(ctx context.Context, eventID, userID uint) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID, userID uint, input UpdateEventInput) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID, userID uint) error
	GetEventDetail(ctx context.Context, eventID, viewerID uint) (*EventDetail, error)
	ListHome(ctx context.Context, userID uint) (*HomeOverview, error)
	EventLink(eventID uint) string
}

// EventService IEventService arayüzünü uygular.
type EventService struct {
	db             *gorm.DB
	cfg            *configs.AppConfig
	validate       *validator.Validate
	repo           repositories.IEventRepository
	attendanceRepo repositories.IAttendanceRepository
	invitationRepo repositories.IInvitationRepository
	commentRepo    repositories.ICommentRepository
	taskRepo       repositories.ITaskRepository
	friendRepo     repositories.IFriendRepository
	mailer         IMailService
	notifications  INotificationService
	invitations    IInvitationService
	now            func() time.Time
}

// NewEventService yeni bir EventService örneği oluşturur.
func NewEventService(db *gorm.DB, cfg *configs.AppConfig, mailer IMailService, notifications INotificationService, invitations IInvitationService) IEventService {
	return &EventService{
		db:             db,
		cfg:            cfg,
		validate:       validator.New(),
		repo:           repositories.NewEventRepository(db),
		attendanceRepo: repositories.NewAttendanceRepository(db),
		invitationRepo: repositories.NewInvitationRepository(db),
		commentRepo:    repositories.NewCommentRepository(db),
		taskRepo:       repositories.NewTaskRepository(db),
		friendRepo:     repositories.NewFriendRepository(db),
		mailer:         mailer,
		notifications:  notifications,
		invitations:    invitations,
		now:            time.Now,
	}
}

func (s *EventService) EventLink(eventID uint) string {
	return s.cfg.AbsoluteURL(fmt.Sprintf("/event/%d", eventID))
}

func (s *EventService) location() *time.Location {
	if s.cfg != nil && s.cfg.Location != nil {
		return s.cfg.Location
	}
	return time.UTC
}

func fieldTooLong(err error) bool {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "max" {
				return true
			}
		}
	}
	return false
}

// CreateEvent etkinliği kaydeder, ardından varsa davetleri gönderir.
// Davet hataları etkinlik oluşturmayı geri almaz.
func (s *EventService) CreateEvent(ctx context.Context, organizerID uint, input CreateEventInput) (*models.Event, *SendResult, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Date = strings.TrimSpace(input.Date)
	if err := s.validate.Struct(input); err != nil {
		if fieldTooLong(err) {
			return nil, nil, ErrEventFieldsTooLong
		}
		return nil, nil, ErrEventFieldsRequired
	}

	date, err := time.ParseInLocation(DateTimeLocalLayout, input.Date, s.location())
	if err != nil {
		return nil, nil, ErrEventFieldsRequired
	}
	if !date.After(s.now()) {
		return nil, nil, ErrEventDateInPast
	}

	event := &models.Event{
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		Date:        date.UTC(),
		OrganizerID: &organizerID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		configslog.Log.Error("Etkinlik oluşturulamadı", zap.Uint("organizerID", organizerID), zap.Error(err))
		return nil, nil, ErrEventCreationFailed
	}
	configslog.Log.Info("Etkinlik oluşturuldu", zap.Uint("eventID", event.ID), zap.Uint("organizerID", organizerID))

	if input.InviteMethod == "" || (len(NormalizeEmails(input.Emails)) == 0 && len(input.FriendIDs) == 0) {
		return event, nil, nil
	}
	result, err := s.invitations.SendInvitations(ctx, organizerID, event.ID, input.InviteMethod, input.Emails, input.FriendIDs)
	if err != nil {
		configslog.Log.Warn("Yeni etkinlik için davetler gönderilemedi", zap.Uint("eventID", event.ID), zap.Error(err))
		return event, &result, err
	}
	return event, &result, nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uint) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// GetEditableEvent etkinliği sadece organizatörüne döndürür.
func (s *EventService) GetEditableEvent(ctx context.Context, eventID, userID uint) (*models.Event, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOrganizer(userID) {
		return event, ErrEventEditForbidden
	}
	return event, nil
}

// applyDateTime düzenleme formundaki tarih/saat alanlarını mevcut tarihe uygular.
// İkisi birden: tam değer; sadece tarih: gün başı; sadece saat: aynı gün, yeni saat.
func applyDateTime(current time.Time, dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	dateStr = strings.TrimSpace(dateStr)
	timeStr = strings.TrimSpace(timeStr)
	switch {
	case dateStr != "" && timeStr != "":
		return time.ParseInLocation(DateLayout+" "+TimeLayout, dateStr+" "+timeStr, loc)
	case dateStr != "":
		return time.ParseInLocation(DateLayout, dateStr, loc)
	case timeStr != "":
		t, err := time.ParseInLocation(TimeLayout, timeStr, loc)
		if err != nil {
			return time.Time{}, err
		}
		local := current.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	default:
		return current, nil
	}
}

// UpdateEvent etkinliği günceller, ardından katılımcılara e-posta ve bildirim gönderir.
func (s *EventService) UpdateEvent(ctx context.Context, eventID, userID uint, input UpdateEventInput) (*models.Event, error) {
	event, err := s.GetEditableEvent(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := s.validate.Struct(input); err != nil {
		if fieldTooLong(err) {
			return nil, ErrEventFieldsTooLong
		}
		return nil, ErrEventTitleRequired
	}
	date, err := applyDateTime(event.Date, input.Date, input.Time, s.location())
	if err != nil {
		return nil, ErrEventInvalidDate
	}

	event.Title = input.Title
	event.Description = strings.TrimSpace(input.Description)
	event.Date = date.UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		configslog.Log.Error("Etkinlik güncellenemedi", zap.Uint("eventID", event.ID), zap.Error(err))
		return nil, ErrEventUpdateFailed
	}
	configslog.Log.Info("Etkinlik güncellendi", zap.Uint("eventID", event.ID))

	link := s.EventLink(event.ID)
	s.emailParticipants(ctx, event, fmt.Sprintf("Hello!\n\n\"%s\" has been recently updated. You can see the changes here: %s", event.Title, link))

	attendeeIDs, err := s.attendanceRepo.AcceptedUserIDs(ctx, event.ID)
	if err != nil {
		configslog.Log.Error("Güncelleme bildirimi için katılımcılar alınamadı", zap.Uint("eventID", event.ID), zap.Error(err))
		return event, nil
	}
	eventID = event.ID
	s.notifications.FanOut(ctx, attendeeIDs, &eventID, EventUpdatedMessage(link, event.Title), NotificationKindEventUpdated)
	return event, nil
}

// emailParticipants kabul edilmiş davetlerin alıcılarına e-posta gönderir.
func (s *EventService) emailParticipants(ctx context.Context, event *models.Event, body string) {
	participants, err := s.repo.ParticipantsByInvitation(ctx, event.ID)
	if err != nil {
		configslog.Log.Error("Katılımcılar alınamadı", zap.Uint("eventID", event.ID), zap.Error(err))
		return
	}
	subject := fmt.Sprintf("%s has been updated.", event.Title)
	for _, p := range participants {
		if p.Email == "" {
			continue
		}
		SendBestEffort(ctx, s.mailer, Mail{To: []string{p.Email}, Subject: subject, Body: body})
	}
}

// DeleteEvent katılımcıları bilgilendirir, sonra etkinliği bağlı kayıtlarıyla siler.
// Katılımcı listesi silmeden önce okunmalıdır.
func (s *EventService) DeleteEvent(ctx context.Context, eventID, userID uint) error {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsOrganizer(userID) {
		return ErrEventDeleteForbidden
	}

	s.emailParticipants(ctx, event, fmt.Sprintf("Event \"%s\" has been deleted. You can see your other events here: %s",
		event.Title, s.cfg.AbsoluteURL("/home")))

	attendeeIDs, err := s.attendanceRepo.AcceptedUserIDs(ctx, event.ID)
	if err != nil {
		configslog.Log.Error("Silme bildirimi için katılımcılar alınamadı", zap.Uint("eventID", event.ID), zap.Error(err))
	}

	if err := s.repo.DeleteCascade(ctx, event.ID); err != nil {
		configslog.Log.Error("Etkinlik silinemedi", zap.Uint("eventID", event.ID), zap.Error(err))
		return ErrEventDeletionFailed
	}
	configslog.Log.Info("Etkinlik silindi", zap.Uint("eventID", event.ID), zap.Uint("userID", userID))

	// Etkinliğe bağlı bildirimler silindiği için bu bildirim etkinliksizdir
	recipients := make([]uint, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		if id != userID {
			recipients = append(recipients, id)
		}
	}
	s.notifications.FanOut(ctx, recipients, nil, EventDeletedMessage(event.Title), NotificationKindEventDeleted)
	return nil
}

// GetEventDetail etkinlik sayfasını görüntüleyen kullanıcıya göre hazırlar.
func (s *EventService) GetEventDetail(ctx context.Context, eventID, viewerID uint) (*EventDetail, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	detail := &EventDetail{
		Event:     event,
		IsOwner:   event.IsOrganizer(viewerID),
		HasPassed: event.HasPassed(s.now()),
	}

	if detail.IsAttending, err = s.attendanceRepo.IsAccepted(ctx, viewerID, event.ID); err != nil {
		return nil, s.loadFailed(event.ID, err)
	}

	topLevel, err := s.commentRepo.ListTopLevel(ctx, event.ID)
	if err != nil {
		return nil, s.loadFailed(event.ID, err)
	}
	parentIDs := make([]uint, 0, len(topLevel))
	for _, c := range topLevel {
		parentIDs = append(parentIDs, c.ID)
	}
	replies, err := s.commentRepo.ListReplies(ctx, parentIDs)
	if err != nil {
		return nil, s.loadFailed(event.ID, err)
	}
	byParent := make(map[uint][]models.Comment, len(topLevel))
	for _, r := range replies {
		byParent[*r.ParentCommentID] = append(byParent[*r.ParentCommentID], r)
	}
	detail.Comments = make([]models.CommentThread, 0, len(topLevel))
	for _, c := range topLevel {
		detail.Comments = append(detail.Comments, models.CommentThread{Comment: c, Replies: byParent[c.ID]})
	}

	// Katılımcı listesi Attendance üzerinden; görünürlük kararı ise kabul edilmiş davetlere bakar
	showParticipants := detail.IsOwner
	if !showParticipants {
		if showParticipants, err = s.invitationRepo.HasAccepted(ctx, event.ID); err != nil {
			return nil, s.loadFailed(event.ID, err)
		}
	}
	if showParticipants {
		if detail.Participants, err = s.attendanceRepo.AcceptedUsers(ctx, event.ID); err != nil {
			return nil, s.loadFailed(event.ID, err)
		}
	}

	if detail.IsOwner {
		if detail.Tasks, err = s.taskRepo.ListByEvent(ctx, event.ID); err != nil {
			return nil, s.loadFailed(event.ID, err)
		}
	}

	if detail.Friends, err = s.friendRepo.ListFriends(ctx, viewerID); err != nil {
		return nil, s.loadFailed(event.ID, err)
	}
	return detail, nil
}

func (s *EventService) loadFailed(eventID uint, err error) error {
	configslog.Log.Error("Etkinlik detayı yüklenemedi", zap.Uint("eventID", eventID), zap.Error(err))
	return ErrEventLoadFailed
}

// ListHome düzenlenen ve katılınan etkinlikleri yaklaşan/geçmiş olarak ayırır.
func (s *EventService) ListHome(ctx context.Context, userID uint) (*HomeOverview, error) {
	organized, err := s.repo.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, err
	}
	attending, err := s.repo.ListAttending(ctx, userID)
	if err != nil {
		return nil, err
	}
	notifications, err := s.notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &HomeOverview{Organized: organized, Notifications: notifications}
	now := s.now()
	seen := make(map[uint]struct{}, len(organized)+len(attending))
	for _, list := range [][]models.Event{organized, attending} {
		for _, e := range list {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			seen[e.ID] = struct{}{}
			if e.HasPassed(now) {
				overview.Past = append(overview.Past, e)
			} else {
				overview.Upcoming = append(overview.Upcoming, e)
			}
		}
	}
	return overview, nil
}

var _ IEventService = (*EventService)(nil)
