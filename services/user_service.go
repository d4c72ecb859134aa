package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound        UserServiceError = "User not found."
	ErrProfileForbidden    UserServiceError = "You can't edit someone else profile!"
	ErrEmailInUse          UserServiceError = "This email has profile already."
	ErrProfileUpdateFailed UserServiceError = "An error occurred while updating your profile."
	ErrAccountDeleteFailed UserServiceError = "Deleting account error"
	ErrSearchTermRequired  UserServiceError = "Please enter a Name, Username or Email."
	ErrSearchFailed        UserServiceError = "An error occurred while searching for friends."
)

// UpdateProfileInput profil düzenleme formu. Boş alanlar mevcut değeri korur.
type UpdateProfileInput struct {
	FirstName string `validate:"omitempty,max=50"`
	LastName  string `validate:"omitempty,max=50"`
	Email     string `validate:"omitempty,email,max=120"`
	Password  string

	PictureName string    `validate:"-"`
	Picture     io.Reader `validate:"-"`
	PictureSize int64     `validate:"-"`
}

// IUserService profil ve hesap işlemleri için arayüz.
type IUserService interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, actorID uint, input UpdateProfileInput) (*models.User, error)
	DeleteAccount(ctx context.Context, userID uint) error
	Search(ctx context.Context, term string, viewerID uint) ([]models.User, error)
}

// UserService IUserService arayüzünü uygular.
type UserService struct {
	db       *gorm.DB
	validate *validator.Validate
	repo     repositories.IUserRepository
	storage  IStorageService
}

// NewUserService yeni bir UserService örneği oluşturur.
func NewUserService(db *gorm.DB, storage IStorageService) IUserService {
	return &UserService{
		db:       db,
		validate: validator.New(),
		repo:     repositories.NewUserRepository(db),
		storage:  storage,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile kullanıcı sadece kendi profilini düzenleyebilir.
func (s *UserService) UpdateProfile(ctx context.Context, userID, actorID uint, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID != actorID {
		return nil, ErrProfileForbidden
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = models.NormalizeEmail(input.Email)
	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Email" {
			return nil, ErrEmailInvalid
		}
		return nil, ErrProfileUpdateFailed
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Email != "" && input.Email != user.Email {
		exists, err := s.repo.EmailExists(ctx, input.Email, user.ID)
		if err != nil {
			return nil, ErrProfileUpdateFailed
		}
		if exists {
			return nil, ErrEmailInUse
		}
		user.Email = input.Email
	}
	if input.Password != "" {
		hashed, err := hashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	oldPicture := ""
	if input.PictureName != "" && input.Picture != nil {
		name, err := s.storage.SaveProfilePicture(ctx, input.PictureName, input.Picture, input.PictureSize)
		if err != nil {
			var serr StorageServiceError
			if errors.As(err, &serr) {
				return nil, serr
			}
			configslog.Log.Error("Profil resmi kaydedilemedi", zap.Uint("userID", user.ID), zap.Error(err))
			return nil, ErrProfilePictureSave
		}
		oldPicture = user.ProfilePicture
		user.ProfilePicture = name
	}

	if err := s.repo.Update(ctx, user); err != nil {
		configslog.Log.Error("Profil güncellenemedi", zap.Uint("userID", user.ID), zap.Error(err))
		return nil, ErrProfileUpdateFailed
	}
	if oldPicture != "" {
		if err := s.storage.Delete(ctx, oldPicture); err != nil {
			configslog.Log.Warn("Eski profil resmi silinemedi", zap.String("name", oldPicture), zap.Error(err))
		}
	}
	return user, nil
}

// DeleteAccount kullanıcıyı ve ona ait her şeyi tek transaction içinde siler:
// düzenlediği etkinlikler (bağlı kayıtlarıyla), yorumlar, görevler, arkadaşlık
// istekleri ve satırları, katılımlar, aldığı davetler, bildirimler.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		eventRepo := repositories.NewEventRepositoryTx(tx)
		events, err := eventRepo.ListByOrganizer(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, e := range events {
			if err := eventRepo.DeleteCascade(ctx, e.ID); err != nil {
				return err
			}
		}
		if err := repositories.NewCommentRepositoryTx(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := repositories.NewTaskRepositoryTx(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := repositories.NewFriendRepositoryTx(tx).DeleteAllForUser(ctx, user.ID); err != nil {
			return err
		}
		if err := repositories.NewAttendanceRepositoryTx(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		if err := repositories.NewInvitationRepositoryTx(tx).DeleteByRecipient(ctx, user.ID, user.Email); err != nil {
			return err
		}
		if err := repositories.NewNotificationRepositoryTx(tx).DeleteByUser(ctx, user.ID); err != nil {
			return err
		}
		return repositories.NewUserRepositoryTx(tx).Delete(ctx, user.ID)
	})
	if txErr != nil {
		configslog.Log.Error("Hesap silinemedi", zap.Uint("userID", user.ID), zap.Error(txErr))
		return ErrAccountDeleteFailed
	}
	configslog.Log.Info("Hesap silindi", zap.Uint("userID", user.ID), zap.String("username", user.Username))

	if err := s.storage.Delete(ctx, user.ProfilePicture); err != nil {
		configslog.Log.Warn("Profil resmi silinemedi", zap.String("name", user.ProfilePicture), zap.Error(err))
	}
	return nil
}

// Search ad, soyad, kullanıcı adı ve e-postada arar. Arayan kullanıcı sonuçlarda yer almaz.
func (s *UserService) Search(ctx context.Context, term string, viewerID uint) ([]models.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	users, err := s.repo.Search(ctx, term, viewerID)
	if err != nil {
		return nil, ErrSearchFailed
	}
	return users, nil
}

var _ IUserService = (*UserService)(nil)
