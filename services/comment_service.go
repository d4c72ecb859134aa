package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentServiceError string

func (e CommentServiceError) Error() string { return string(e) }

const (
	ErrCommentForbidden     CommentServiceError = "You need to accept the invitation to comment on this event."
	ErrCommentEmpty         CommentServiceError = "Comment cannot be empty."
	ErrCommentParentInvalid CommentServiceError = "The comment you are replying to does not belong to this event."
	ErrCommentFailed        CommentServiceError = "There was an error adding your comment!"
)

// ICommentService yorum işlemleri için arayüz.
type ICommentService interface {
	AddComment(ctx context.Context, eventID, userID uint, content string, parentID *uint) (*models.Comment, error)
}

// CommentService ICommentService arayüzünü uygular.
type CommentService struct {
	db             *gorm.DB
	cfg            *configs.AppConfig
	repo           repositories.ICommentRepository
	eventRepo      repositories.IEventRepository
	attendanceRepo repositories.IAttendanceRepository
	notifications  INotificationService
}

// NewCommentService yeni bir CommentService örneği oluşturur.
func NewCommentService(db *gorm.DB, cfg *configs.AppConfig, notifications INotificationService) ICommentService {
	return &CommentService{
		db:             db,
		cfg:            cfg,
		repo:           repositories.NewCommentRepository(db),
		eventRepo:      repositories.NewEventRepository(db),
		attendanceRepo: repositories.NewAttendanceRepository(db),
		notifications:  notifications,
	}
}

// AddComment yorumu kaydeder ve organizatör ile kabul etmiş katılımcılara
// (yorumu yazan hariç) bildirim gönderir.
func (s *CommentService) AddComment(ctx context.Context, eventID, userID uint, content string, parentID *uint) (*models.Comment, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if !event.IsOrganizer(userID) {
		accepted, err := s.attendanceRepo.IsAccepted(ctx, userID, event.ID)
		if err != nil {
			configslog.Log.Error("Yorum yetkisi kontrol edilemedi", zap.Uint("eventID", eventID), zap.Error(err))
			return nil, ErrCommentFailed
		}
		if !accepted {
			return nil, ErrCommentForbidden
		}
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	if parentID != nil {
		parent, err := s.repo.FindByID(ctx, *parentID)
		if err != nil || parent.EventID != event.ID {
			return nil, ErrCommentParentInvalid
		}
	}

	comment := &models.Comment{
		EventID:         event.ID,
		UserID:          userID,
		Content:         content,
		ParentCommentID: parentID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		configslog.Log.Error("Yorum kaydedilemedi", zap.Uint("eventID", eventID), zap.Uint("userID", userID), zap.Error(err))
		return nil, ErrCommentFailed
	}

	attendeeIDs, err := s.attendanceRepo.AcceptedUserIDs(ctx, event.ID)
	if err != nil {
		configslog.Log.Error("Yorum bildirimi için katılımcılar alınamadı", zap.Uint("eventID", eventID), zap.Error(err))
	}
	recipients := make([]uint, 0, len(attendeeIDs)+1)
	if event.OrganizerID != nil {
		recipients = append(recipients, *event.OrganizerID)
	}
	recipients = append(recipients, attendeeIDs...)
	filtered := recipients[:0]
	for _, id := range recipients {
		if id != userID {
			filtered = append(filtered, id)
		}
	}

	link := s.cfg.AbsoluteURL(fmt.Sprintf("/event/%d", event.ID))
	s.notifications.FanOut(ctx, filtered, &comment.EventID, CommentAddedMessage(link, event.Title), NotificationKindComment)
	return comment, nil
}

var _ ICommentService = (*CommentService)(nil)
