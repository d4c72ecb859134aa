package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/pkg/metrics"
	"organize.it/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvitationServiceError kullanıcıya gösterilebilen davet hataları.
type InvitationServiceError string

func (e InvitationServiceError) Error() string { return string(e) }

const (
	ErrInvitationNotFound        InvitationServiceError = "Invitation not found."
	ErrInvitationForbidden       InvitationServiceError = "You are not authorized to view this invitation."
	ErrInvitationAlreadyAnswered InvitationServiceError = "You have already responded to this invitation."
	ErrInvalidInvitationAction   InvitationServiceError = "Unknown invitation action."
	ErrInviteForbidden           InvitationServiceError = "You can't send invites for this event!"
	ErrInvalidInviteMethod       InvitationServiceError = "Unknown invite method."
	ErrInvitationFailed          InvitationServiceError = "There was an error sending invitations!"
	ErrInvitationLoadFailed      InvitationServiceError = "There was an error loading your invitation!"
)

const (
	InviteMethodEmail   = "email"
	InviteMethodFriends = "friends"

	InvitationActionAccept  = "accept"
	InvitationActionDecline = "decline"
)

// SendResult bir davet gönderiminin özet sayıları.
type SendResult struct {
	Sent    int
	Skipped int
}

// IInvitationService davet oluşturma ve yanıtlama kuralları için arayüz.
type IInvitationService interface {
	SendInvitations(ctx context.Context, organizerID, eventID uint, method string, emails []string, friendIDs []uint) (SendResult, error)
	GetForViewer(ctx context.Context, invitationID uint, viewer *models.User) (*models.Invitation, error)
	Respond(ctx context.Context, invitationID uint, viewer *models.User, action string) (*models.Invitation, error)
	ClaimByEmail(ctx context.Context, user *models.User) (int, error)
	InvitationLink(invitationID uint) string
}

// InvitationService IInvitationService arayüzünü uygular.
type InvitationService struct {
	db            *gorm.DB
	cfg           *configs.AppConfig
	repo          repositories.IInvitationRepository
	eventRepo     repositories.IEventRepository
	userRepo      repositories.IUserRepository
	friendRepo    repositories.IFriendRepository
	mailer        IMailService
	notifications INotificationService
}

// NewInvitationService yeni bir InvitationService örneği oluşturur.
func NewInvitationService(db *gorm.DB, cfg *configs.AppConfig, mailer IMailService, notifications INotificationService) IInvitationService {
	return &InvitationService{
		db:            db,
		cfg:           cfg,
		repo:          repositories.NewInvitationRepository(db),
		eventRepo:     repositories.NewEventRepository(db),
		userRepo:      repositories.NewUserRepository(db),
		friendRepo:    repositories.NewFriendRepository(db),
		mailer:        mailer,
		notifications: notifications,
	}
}

func (s *InvitationService) InvitationLink(invitationID uint) string {
	return s.cfg.AbsoluteURL(fmt.Sprintf("/invitation/%d", invitationID))
}

// NormalizeEmails virgülle ayrılmış girdiyi temizler, boşları atar.
func NormalizeEmails(raw []string) []string {
	var out []string
	for _, chunk := range raw {
		for _, part := range strings.Split(chunk, ",") {
			if email := models.NormalizeEmail(part); email != "" {
				out = append(out, email)
			}
		}
	}
	return out
}

// SendInvitations etkinlik için e-posta ya da arkadaş listesi üzerinden davet gönderir.
// Her davet ayrı kaydedilir; bildirim ve e-posta en iyi çaba ile gönderilir.
func (s *InvitationService) SendInvitations(ctx context.Context, organizerID, eventID uint, method string, emails []string, friendIDs []uint) (SendResult, error) {
	var result SendResult
	if method != InviteMethodEmail && method != InviteMethodFriends {
		return result, ErrInvalidInviteMethod
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return result, ErrEventNotFound
		}
		return result, fmt.Errorf("%w: %v", ErrInvitationFailed, err)
	}
	if !event.IsOrganizer(organizerID) {
		return result, ErrInviteForbidden
	}

	switch method {
	case InviteMethodEmail:
		for _, email := range NormalizeEmails(emails) {
			sent, err := s.inviteEmail(ctx, event, email)
			if err != nil {
				return result, fmt.Errorf("%w: %v", ErrInvitationFailed, err)
			}
			result.add(method, sent)
		}
	case InviteMethodFriends:
		for _, friendID := range friendIDs {
			sent, err := s.inviteFriend(ctx, event, organizerID, friendID)
			if err != nil {
				return result, fmt.Errorf("%w: %v", ErrInvitationFailed, err)
			}
			result.add(method, sent)
		}
	}

	configslog.Log.Info("Davetler işlendi",
		zap.Uint("eventID", event.ID), zap.String("method", method),
		zap.Int("sent", result.Sent), zap.Int("skipped", result.Skipped))
	return result, nil
}

func (r *SendResult) add(method string, sent bool) {
	if sent {
		r.Sent++
		metrics.IncInvitation(method, "sent")
		return
	}
	r.Skipped++
	metrics.IncInvitation(method, "skipped")
}

// inviteEmail false dönerse davet zaten vardı ve atlandı.
func (s *InvitationService) inviteEmail(ctx context.Context, event *models.Event, email string) (bool, error) {
	exists, err := s.repo.ExistsByEmail(ctx, event.ID, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return false, err
	}
	if user != nil {
		exists, err := s.repo.ExistsByRecipient(ctx, event.ID, user.ID)
		if err != nil {
			return false, err
		}
		if exists {
			return false, nil
		}
	}

	invitation := &models.Invitation{EventID: event.ID, RecipientEmail: &email}
	if user != nil {
		invitation.RecipientID = &user.ID
	}
	if err := s.repo.Create(ctx, invitation); err != nil {
		return false, err
	}

	if user != nil {
		s.notifyInvited(ctx, invitation, event)
	}
	SendBestEffort(ctx, s.mailer, Mail{
		To:      []string{email},
		Subject: fmt.Sprintf("Invitation for %s", event.Title),
		Body: fmt.Sprintf("Hello,\n\nYou were invited to \"%s\".\n\nYou can accept or decline here: %s",
			event.Title, s.InvitationLink(invitation.ID)),
	})
	return true, nil
}

// inviteFriend sadece organizatörün arkadaşı olan kayıtlı kullanıcıları davet eder.
func (s *InvitationService) inviteFriend(ctx context.Context, event *models.Event, organizerID, friendID uint) (bool, error) {
	friend, err := s.userRepo.FindByID(ctx, friendID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	areFriends, err := s.friendRepo.AreFriends(ctx, organizerID, friend.ID)
	if err != nil {
		return false, err
	}
	if !areFriends {
		configslog.Log.Warn("Arkadaş olmayan kullanıcıya davet atlandı", zap.Uint("organizerID", organizerID), zap.Uint("userID", friend.ID))
		return false, nil
	}

	exists, err := s.repo.ExistsByRecipient(ctx, event.ID, friend.ID)
	if err != nil {
		return false, err
	}
	if !exists {
		exists, err = s.repo.ExistsByEmail(ctx, event.ID, friend.Email)
		if err != nil {
			return false, err
		}
	}
	if exists {
		return false, nil
	}

	email := models.NormalizeEmail(friend.Email)
	invitation := &models.Invitation{EventID: event.ID, RecipientID: &friend.ID, RecipientEmail: &email}
	if err := s.repo.Create(ctx, invitation); err != nil {
		return false, err
	}

	s.notifyInvited(ctx, invitation, event)
	SendBestEffort(ctx, s.mailer, Mail{
		To:      []string{email},
		Subject: fmt.Sprintf("Invitation for %s", event.Title),
		Body: fmt.Sprintf("Hello %s,\n\nYou were invited to \"%s\".\n\nYou can accept or decline here: %s",
			friend.Username, event.Title, s.InvitationLink(invitation.ID)),
	})
	return true, nil
}

func (s *InvitationService) notifyInvited(ctx context.Context, invitation *models.Invitation, event *models.Event) {
	if invitation.RecipientID == nil {
		return
	}
	eventID := event.ID
	_ = s.notifications.Notify(ctx, *invitation.RecipientID, &eventID,
		InvitationCreatedMessage(s.InvitationLink(invitation.ID), event.Title), NotificationKindInvitation)
}

// GetForViewer daveti görüntüleyen kullanıcı için yükler. E-posta ile eşleşen
// ve henüz bağlanmamış daveti kullanıcıya bağlar.
func (s *InvitationService) GetForViewer(ctx context.Context, invitationID uint, viewer *models.User) (*models.Invitation, error) {
	invitation, err := s.repo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}
	if viewer == nil {
		return nil, ErrInvitationForbidden
	}

	viewerEmail := models.NormalizeEmail(viewer.Email)
	if invitation.RecipientID == nil && invitation.Email() != "" && invitation.Email() == viewerEmail {
		claimed, err := s.repo.ClaimRecipient(ctx, invitation.ID, viewer.ID)
		if err != nil {
			return nil, err
		}
		if claimed {
			configslog.Log.Info("Davet e-posta ile kullanıcıya bağlandı", zap.Uint("invitationID", invitation.ID), zap.Uint("userID", viewer.ID))
			invitation.RecipientID = &viewer.ID
		} else {
			// Eşzamanlı bir istek bağlamış olabilir
			if invitation, err = s.repo.FindByID(ctx, invitationID); err != nil {
				return nil, err
			}
		}
	}

	// Başka kullanıcıya bağlanmış davet, e-posta eşleşse bile açılamaz
	if invitation.RecipientID != nil {
		if *invitation.RecipientID != viewer.ID {
			return nil, ErrInvitationForbidden
		}
	} else if invitation.Email() != viewerEmail {
		return nil, ErrInvitationForbidden
	}
	return invitation, nil
}

// Respond daveti kabul eder veya reddeder. Kabul, Attendance kaydıyla aynı transaction içindedir.
func (s *InvitationService) Respond(ctx context.Context, invitationID uint, viewer *models.User, action string) (*models.Invitation, error) {
	var target models.InvitationStatus
	switch action {
	case InvitationActionAccept:
		target = models.InvitationStatusAccepted
	case InvitationActionDecline:
		target = models.InvitationStatusDeclined
	default:
		return nil, ErrInvalidInvitationAction
	}

	invitation, err := s.GetForViewer(ctx, invitationID, viewer)
	if err != nil {
		return nil, err
	}
	if invitation.IsAnswered() {
		return nil, ErrInvitationAlreadyAnswered
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewInvitationRepositoryTx(tx).UpdateStatus(ctx, invitation.ID, models.InvitationStatusPending, target); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrInvitationAlreadyAnswered
			}
			return err
		}
		if target == models.InvitationStatusAccepted {
			if _, err := repositories.NewAttendanceRepositoryTx(tx).Upsert(ctx, viewer.ID, invitation.EventID, models.AttendanceStatusAccepted); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if !errors.Is(txErr, ErrInvitationAlreadyAnswered) {
			configslog.Log.Error("Davet yanıtı kaydedilemedi", zap.Uint("invitationID", invitation.ID), zap.Error(txErr))
		}
		return nil, txErr
	}
	invitation.Status = target

	if invitation.Event.OrganizerID != nil {
		eventID := invitation.EventID
		_ = s.notifications.Notify(ctx, *invitation.Event.OrganizerID, &eventID,
			InvitationStatusMessage(viewer.Username, target, invitation.Event.Title), NotificationKindInviteStatus)
	}
	configslog.Log.Info("Davet yanıtlandı", zap.Uint("invitationID", invitation.ID), zap.String("status", string(target)))
	return invitation, nil
}

// ClaimByEmail yeni kayıt olan kullanıcının e-postasına gönderilmiş davetleri ona bağlar
// ve her biri için davet bildirimi oluşturur.
func (s *InvitationService) ClaimByEmail(ctx context.Context, user *models.User) (int, error) {
	if user == nil || user.ID == 0 {
		return 0, nil
	}
	invitations, err := s.repo.FindEmailOnlyByEmail(ctx, user.Email)
	if err != nil {
		return 0, err
	}
	claimed := 0
	for i := range invitations {
		inv := &invitations[i]
		ok, err := s.repo.ClaimRecipient(ctx, inv.ID, user.ID)
		if err != nil {
			configslog.Log.Error("Davet bağlanamadı", zap.Uint("invitationID", inv.ID), zap.Error(err))
			continue
		}
		if !ok {
			continue
		}
		claimed++
		inv.RecipientID = &user.ID
		s.notifyInvited(ctx, inv, &inv.Event)
	}
	return claimed, nil
}

var _ IInvitationService = (*InvitationService)(nil)
