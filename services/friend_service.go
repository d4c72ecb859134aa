package services

import (
	"context"
	"errors"
	"fmt"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type FriendServiceError string

func (e FriendServiceError) Error() string { return string(e) }

const (
	ErrFriendSelf             FriendServiceError = "You can't add yourself as a friend!"
	ErrAlreadyFriends         FriendServiceError = "You are already friends!"
	ErrFriendRequestExists    FriendServiceError = "Friend request already sent!"
	ErrFriendRequestNotFound  FriendServiceError = "Friend request not found."
	ErrFriendRequestForbidden FriendServiceError = "Unauthorized action."
	ErrInvalidFriendAction    FriendServiceError = "Unknown friend request action."
	ErrNotFriends             FriendServiceError = "This user is not your friend."
	ErrFriendRequestFailed    FriendServiceError = "An error occurred while sending your friend request."
	ErrFriendRespondFailed    FriendServiceError = "An error occurred while processing the friend request."
	ErrFriendRemoveFailed     FriendServiceError = "An error occurred while removing the friend."
)

const (
	FriendActionAccept  = "accept"
	FriendActionDecline = "decline"
)

// FriendResponse bir arkadaşlık isteğine verilen yanıtın sonucu.
type FriendResponse struct {
	Accepted       bool
	AlreadyFriends bool
	Sender         models.User
}

// IFriendService arkadaşlık akışı için arayüz.
type IFriendService interface {
	SendRequest(ctx context.Context, senderID, receiverID uint) error
	RespondRequest(ctx context.Context, requestID, userID uint, action string) (*FriendResponse, error)
	RemoveFriend(ctx context.Context, userID, friendID uint) error
	ListFriends(ctx context.Context, userID uint) ([]models.User, error)
	ListPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	AreFriends(ctx context.Context, userID, otherID uint) (bool, error)
	HasPendingRequest(ctx context.Context, senderID, receiverID uint) (bool, error)
}

// FriendService IFriendService arayüzünü uygular.
type FriendService struct {
	db            *gorm.DB
	cfg           *configs.AppConfig
	repo          repositories.IFriendRepository
	userRepo      repositories.IUserRepository
	notifications INotificationService
}

// NewFriendService yeni bir FriendService örneği oluşturur.
func NewFriendService(db *gorm.DB, cfg *configs.AppConfig, notifications INotificationService) IFriendService {
	return &FriendService{
		db:            db,
		cfg:           cfg,
		repo:          repositories.NewFriendRepository(db),
		userRepo:      repositories.NewUserRepository(db),
		notifications: notifications,
	}
}

// SendRequest istek ve alıcıya giden bildirim birlikte kaydedilir.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) error {
	if senderID == receiverID {
		return ErrFriendSelf
	}
	sender, err := s.userRepo.FindByID(ctx, senderID)
	if err != nil {
		return ErrUserNotFound
	}
	receiver, err := s.userRepo.FindByID(ctx, receiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	friends, err := s.repo.AreFriends(ctx, sender.ID, receiver.ID)
	if err != nil {
		return ErrFriendRequestFailed
	}
	if friends {
		return ErrAlreadyFriends
	}
	if pending, err := s.HasPendingRequest(ctx, sender.ID, receiver.ID); err != nil {
		return ErrFriendRequestFailed
	} else if pending {
		return ErrFriendRequestExists
	}

	link := s.cfg.AbsoluteURL(fmt.Sprintf("/user/%d", receiver.ID))
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req := &models.FriendRequest{SenderID: sender.ID, ReceiverID: receiver.ID}
		if err := repositories.NewFriendRepositoryTx(tx).CreateRequest(ctx, req); err != nil {
			return err
		}
		return s.notifications.Notify(repositories.WithTx(ctx, tx), receiver.ID, nil,
			FriendRequestSentMessage(sender.Username, link), NotificationKindFriendRequest)
	})
	if txErr != nil {
		configslog.Log.Error("Arkadaşlık isteği gönderilemedi", zap.Uint("senderID", sender.ID), zap.Uint("receiverID", receiver.ID), zap.Error(txErr))
		return ErrFriendRequestFailed
	}
	configslog.Log.Info("Arkadaşlık isteği gönderildi", zap.Uint("senderID", sender.ID), zap.Uint("receiverID", receiver.ID))
	return nil
}

// RespondRequest isteği sadece alıcısı yanıtlayabilir. Yanıttan sonra istek satırı silinir
// ve gönderene bildirim gider.
func (s *FriendService) RespondRequest(ctx context.Context, requestID, userID uint, action string) (*FriendResponse, error) {
	if action != FriendActionAccept && action != FriendActionDecline {
		return nil, ErrInvalidFriendAction
	}
	req, err := s.repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFriendRequestNotFound
		}
		return nil, err
	}
	if req.ReceiverID != userID {
		return nil, ErrFriendRequestForbidden
	}

	resp := &FriendResponse{Accepted: action == FriendActionAccept, Sender: req.Sender}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewFriendRepositoryTx(tx)
		txCtx := repositories.WithTx(ctx, tx)
		message := FriendRequestDeclinedMessage(req.Receiver.Username)
		if resp.Accepted {
			already, err := repo.AreFriends(ctx, req.SenderID, req.ReceiverID)
			if err != nil {
				return err
			}
			resp.AlreadyFriends = already
			if !already {
				if err := repo.AddFriendship(ctx, req.SenderID, req.ReceiverID); err != nil {
					return err
				}
			}
			message = FriendRequestAcceptedMessage(req.Receiver.Username)
		}
		if err := repo.DeleteRequest(ctx, req.ID); err != nil {
			return err
		}
		return s.notifications.Notify(txCtx, req.SenderID, nil, message, NotificationKindFriendRequest)
	})
	if txErr != nil {
		configslog.Log.Error("Arkadaşlık isteği yanıtlanamadı", zap.Uint("requestID", req.ID), zap.Error(txErr))
		return nil, ErrFriendRespondFailed
	}
	configslog.Log.Info("Arkadaşlık isteği yanıtlandı", zap.Uint("requestID", req.ID), zap.String("action", action))
	return resp, nil
}

// RemoveFriend iki yönlü arkadaşlık satırlarını siler.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) error {
	if _, err := s.userRepo.FindByID(ctx, friendID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	friends, err := s.repo.AreFriends(ctx, userID, friendID)
	if err != nil {
		return ErrFriendRemoveFailed
	}
	if !friends {
		return ErrNotFriends
	}
	if err := s.repo.RemoveFriendship(ctx, userID, friendID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFriends
		}
		configslog.Log.Error("Arkadaş silinemedi", zap.Uint("userID", userID), zap.Uint("friendID", friendID), zap.Error(err))
		return ErrFriendRemoveFailed
	}
	return nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.repo.ListFriends(ctx, userID)
}

func (s *FriendService) ListPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return s.repo.ListPendingForReceiver(ctx, userID)
}

func (s *FriendService) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.repo.AreFriends(ctx, userID, otherID)
}

func (s *FriendService) HasPendingRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	_, err := s.repo.FindPendingRequest(ctx, senderID, receiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ IFriendService = (*FriendService)(nil)
