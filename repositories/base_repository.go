package repositories

import (
	"context"
	"errors"

	"organize.it/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound kayıt bulunamadığında tüm repository'ler bu hatayı döndürür.
var ErrNotFound = errors.New("kayıt bulunamadı")

type contextKey string

const txContextKey contextKey = "tx"

// WithTx context'e transaction ekler. Repository'ler getDB ile bunu tercih eder.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey, tx)
}

// getDB context'te transaction varsa onu, yoksa verilen bağlantıyı context ile döndürür.
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// IBaseRepository tüm modeller için ortak CRUD işlemleri.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint, preloads ...string) (*T, error)
	Save(ctx context.Context, entity *T) error
	DeleteByID(ctx context.Context, id uint) error
}

// BaseRepository IBaseRepository'nin generik GORM uygulaması.
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewBaseRepository verilen bağlantı (veya transaction) için base repository oluşturur.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db}
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("oluşturulacak kayıt nil olamaz")
	}
	return getDB(ctx, r.db).Create(entity).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	query := getDB(ctx, r.db)
	for _, p := range preloads {
		query = query.Preload(p)
	}
	var entity T
	if err := query.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("BaseRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &entity, nil
}

func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("güncellenecek kayıt nil olamaz")
	}
	return getDB(ctx, r.db).Save(entity).Error
}

func (r *BaseRepository[T]) DeleteByID(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrNotFound
	}
	var entity T
	result := getDB(ctx, r.db).Delete(&entity, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
