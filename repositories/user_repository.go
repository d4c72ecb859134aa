package repositories

import (
	"context"
	"errors"
	"strings"

	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository kullanıcı veritabanı işlemleri için arayüz.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Search(ctx context.Context, term string, excludeID uint) ([]models.User, error)
	Delete(ctx context.Context, id uint) error
}

// UserRepository IUserRepository arayüzünü uygular.
type UserRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.User]
}

// NewUserRepository yeni bir UserRepository örneği oluşturur.
func NewUserRepository(db *gorm.DB) IUserRepository {
	return &UserRepository{db: db, base: NewBaseRepository[models.User](db)}
}

// NewUserRepositoryTx transaction içinde çalışan repository döndürür.
func NewUserRepositoryTx(tx *gorm.DB) IUserRepository {
	return NewUserRepository(tx)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil || user.Username == "" || user.Email == "" {
		return errors.New("kullanıcı adı ve e-posta olmadan kullanıcı oluşturulamaz")
	}
	return r.base.Create(ctx, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByID(ctx, id)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := getDB(ctx, r.db).Where("id IN ?", ids).Order("id asc").Find(&users).Error
	return users, err
}

func (r *UserRepository) findOne(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := getDB(ctx, r.db).Where(column+" = ?", value).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("UserRepository: DB error", zap.String("column", column), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", models.NormalizeEmail(email))
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// EmailExists excludeID dışındaki bir kullanıcı bu e-postayı kullanıyor mu?
func (r *UserRepository) EmailExists(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := getDB(ctx, r.db).Model(&models.User{}).Where("email = ?", models.NormalizeEmail(email))
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == 0 {
		return errors.New("güncellenecek kullanıcı geçerli değil")
	}
	return r.base.Save(ctx, user)
}

// Search ad, soyad, kullanıcı adı veya e-postada büyük/küçük harf duyarsız arama yapar.
func (r *UserRepository) Search(ctx context.Context, term string, excludeID uint) ([]models.User, error) {
	var users []models.User
	term = strings.TrimSpace(term)
	if term == "" {
		return users, nil
	}
	// LIKE joker karakterleri kullanıcı girdisinden temizlenir
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(term))
	pattern := "%" + escaped + "%"
	err := getDB(ctx, r.db).
		Where("id <> ?", excludeID).
		Where(`(LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\' OR LOWER(username) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern).
		Order("username asc").
		Find(&users).Error
	if err != nil {
		configslog.Log.Error("UserRepository.Search: DB error", zap.String("term", term), zap.Error(err))
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.base.DeleteByID(ctx, id)
}

var _ IUserRepository = (*UserRepository)(nil)
