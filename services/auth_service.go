package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"organize.it/configs/configslog"
	"organize.it/models"
	"organize.it/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials  AuthServiceError = "Invalid username or password"
	ErrUsernameTaken       AuthServiceError = "This username is already taken."
	ErrEmailTaken          AuthServiceError = "This email is already registered."
	ErrUsernameLength      AuthServiceError = "Username must be between 2 and 20 characters."
	ErrEmailInvalid        AuthServiceError = "Please enter a valid email address."
	ErrPasswordMismatch    AuthServiceError = "Passwords must match."
	ErrRegistrationFields  AuthServiceError = "Please fill in all required fields."
	ErrRegistrationFailed  AuthServiceError = "Registration failed. Please try again."
	ErrPasswordHashFailed  AuthServiceError = "Password could not be processed."
	ErrProfilePictureSave  AuthServiceError = "Error uploading profile picture."
	ErrLoginFieldsRequired AuthServiceError = "Username and password are required."
)

// RegisterInput kayıt formu. Picture boş bırakılabilir.
type RegisterInput struct {
	Username        string `validate:"required,min=2,max=20"`
	Email           string `validate:"required,email,max=120"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	FirstName       string `validate:"required,max=50"`
	LastName        string `validate:"required,max=50"`

	PictureName string    `validate:"-"`
	Picture     io.Reader `validate:"-"`
	PictureSize int64     `validate:"-"`
}

// IAuthService kayıt ve giriş için arayüz.
type IAuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// AuthService IAuthService arayüzünü uygular.
type AuthService struct {
	db          *gorm.DB
	validate    *validator.Validate
	repo        repositories.IUserRepository
	storage     IStorageService
	invitations IInvitationService
}

// NewAuthService yeni bir AuthService örneği oluşturur.
func NewAuthService(db *gorm.DB, storage IStorageService, invitations IInvitationService) IAuthService {
	return &AuthService{
		db:          db,
		validate:    validator.New(),
		repo:        repositories.NewUserRepository(db),
		storage:     storage,
		invitations: invitations,
	}
}

// registrationError validator hatasını kullanıcıya gösterilecek mesaja çevirir.
func registrationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return ErrRegistrationFields
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return ErrRegistrationFields
	case fe.Field() == "Username":
		return ErrUsernameLength
	case fe.Field() == "Email":
		return ErrEmailInvalid
	case fe.Field() == "ConfirmPassword":
		return ErrPasswordMismatch
	default:
		return ErrRegistrationFields
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Şifre hashlenemedi", zap.Error(err))
		return "", ErrPasswordHashFailed
	}
	return string(hashed), nil
}

// Register yeni kullanıcı oluşturur ve e-postasına gönderilmiş davetleri ona bağlar.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = models.NormalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := s.validate.Struct(input); err != nil {
		return nil, registrationError(err)
	}

	if taken, err := s.repo.UsernameExists(ctx, input.Username); err != nil {
		return nil, ErrRegistrationFailed
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.repo.EmailExists(ctx, input.Email, 0); err != nil {
		return nil, ErrRegistrationFailed
	} else if taken {
		return nil, ErrEmailTaken
	}

	picture := models.DefaultProfilePicture
	if input.PictureName != "" && input.Picture != nil {
		name, err := s.storage.SaveProfilePicture(ctx, input.PictureName, input.Picture, input.PictureSize)
		if err != nil {
			var serr StorageServiceError
			if errors.As(err, &serr) {
				return nil, serr
			}
			configslog.Log.Error("Profil resmi kaydedilemedi", zap.Error(err))
			return nil, ErrProfilePictureSave
		}
		picture = name
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   hashed,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		ProfilePicture: picture,
		DateAdded:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		configslog.Log.Error("Kullanıcı oluşturulamadı", zap.String("username", user.Username), zap.Error(err))
		return nil, ErrRegistrationFailed
	}
	configslog.Log.Info("Yeni kullanıcı kaydoldu", zap.Uint("userID", user.ID), zap.String("username", user.Username))

	if claimed, err := s.invitations.ClaimByEmail(ctx, user); err != nil {
		configslog.Log.Error("Bekleyen davetler bağlanamadı", zap.Uint("userID", user.ID), zap.Error(err))
	} else if claimed > 0 {
		configslog.Log.Info("Bekleyen davetler kullanıcıya bağlandı", zap.Uint("userID", user.ID), zap.Int("count", claimed))
	}
	return user, nil
}

// Authenticate kullanıcı adı ve şifreyi doğrular.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrLoginFieldsRequired
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		configslog.Log.Warn("Hatalı şifre denemesi", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

var _ IAuthService = (*AuthService)(nil)
