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

// IFriendRepository arkadaşlık grafı ve arkadaşlık istekleri için arayüz.
type IFriendRepository interface {
	AddFriendship(ctx context.Context, userID, friendID uint) error
	RemoveFriendship(ctx context.Context, userID, friendID uint) error
	AreFriends(ctx context.Context, userID, friendID uint) (bool, error)
	ListFriends(ctx context.Context, userID uint) ([]models.User, error)
	ListFriendIDs(ctx context.Context, userID uint) ([]uint, error)

	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	FindRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	FindPendingRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error)
	ListPendingForReceiver(ctx context.Context, receiverID uint) ([]models.FriendRequest, error)
	DeleteRequest(ctx context.Context, id uint) error

	DeleteAllForUser(ctx context.Context, userID uint) error
}

// FriendRepository IFriendRepository arayüzünü uygular.
type FriendRepository struct {
	db *gorm.DB
}

// NewFriendRepository yeni bir FriendRepository örneği oluşturur.
func NewFriendRepository(db *gorm.DB) IFriendRepository {
	return &FriendRepository{db: db}
}

// NewFriendRepositoryTx transaction içinde çalışan repository döndürür.
func NewFriendRepositoryTx(tx *gorm.DB) IFriendRepository {
	return &FriendRepository{db: tx}
}

// AddFriendship iki yönlü satırı tek transaction içinde ekler. Zaten varsa dokunmaz.
func (r *FriendRepository) AddFriendship(ctx context.Context, userID, friendID uint) error {
	if userID == 0 || friendID == 0 || userID == friendID {
		return errors.New("geçersiz arkadaşlık çifti")
	}
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		rows := []models.Friendship{
			{UserID: userID, FriendID: friendID},
			{UserID: friendID, FriendID: userID},
		}
		return tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

// RemoveFriendship iki yönlü satırı tek transaction içinde siler.
// Çiftten biri eksikse hiçbir şey silinmez ve ErrNotFound döner.
func (r *FriendRepository) RemoveFriendship(ctx context.Context, userID, friendID uint) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			userID, friendID, friendID, userID).Delete(&models.Friendship{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 2 {
			// Rollback: grafın yarım kalmasına izin verme
			return ErrNotFound
		}
		return nil
	})
}

// AreFriends her iki yönlü satır da varsa true döner.
func (r *FriendRepository) AreFriends(ctx context.Context, userID, friendID uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, friendID, friendID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 2, nil
}

func (r *FriendRepository) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	err := getDB(ctx, r.db).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Order("users.username asc").
		Find(&friends).Error
	if err != nil {
		configslog.Log.Error("FriendRepository.ListFriends: DB error", zap.Uint("userID", userID), zap.Error(err))
		return nil, err
	}
	return friends, nil
}

func (r *FriendRepository) ListFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := getDB(ctx, r.db).Model(&models.Friendship{}).Where("user_id = ?", userID).Pluck("friend_id", &ids).Error
	return ids, err
}

func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if req == nil || req.SenderID == 0 || req.ReceiverID == 0 {
		return errors.New("geçersiz arkadaşlık isteği")
	}
	if req.Status == "" {
		req.Status = models.FriendRequestStatusPending
	}
	return getDB(ctx, r.db).Create(req).Error
}

func (r *FriendRepository) FindRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := getDB(ctx, r.db).Preload("Sender").Preload("Receiver").First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *FriendRepository) FindPendingRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := getDB(ctx, r.db).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, models.FriendRequestStatusPending).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *FriendRepository) ListPendingForReceiver(ctx context.Context, receiverID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	err := getDB(ctx, r.db).Preload("Sender").
		Where("receiver_id = ? AND status = ?", receiverID, models.FriendRequestStatusPending).
		Order("created_at desc").
		Find(&reqs).Error
	return reqs, err
}

func (r *FriendRepository) DeleteRequest(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&models.FriendRequest{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllForUser kullanıcının tüm arkadaşlık satırlarını ve isteklerini siler.
func (r *FriendRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	db := getDB(ctx, r.db)
	if err := db.Where("sender_id = ? OR receiver_id = ?", userID, userID).Delete(&models.FriendRequest{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ? OR friend_id = ?", userID, userID).Delete(&models.Friendship{}).Error
}

var _ IFriendRepository = (*FriendRepository)(nil)
