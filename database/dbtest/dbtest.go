// Package dbtest testler için migrasyonları çalıştırılmış bellek içi SQLite veritabanı sağlar.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"organize.it/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New her test için ayrı, paylaşılan önbellekli bir bellek içi veritabanı açar.
// Tek bağlantı kullanılır; transaction içinde sadece tx kullanılmalıdır.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Initialize(db, true, false))
	return db
}
