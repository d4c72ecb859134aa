package configsdatabase

import (
	"fmt"
	"time"

	"organize.it/configs"
	"organize.it/configs/configslog"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB DB_DRIVER değerine göre PostgreSQL veya SQLite bağlantısını açar.
func InitDB() {
	driver := configs.GetEnvWithDefault("DB_DRIVER", "postgres")

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		path := configs.GetEnvWithDefault("DB_PATH", "app.db")
		dialector = sqlite.Open(path)
		configslog.SLog.Infof("SQLite veritabanı kullanılıyor: %s", path)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			configs.GetEnvWithDefault("DB_HOST", "localhost"),
			configs.GetEnvWithDefault("DB_USERNAME", "postgres"),
			configs.GetEnvWithDefault("DB_PASSWORD", ""),
			configs.GetEnvWithDefault("DB_DATABASE", "organizeit"),
			configs.GetEnvWithDefault("DB_PORT", "5432"),
			configs.GetEnvWithDefault("DB_SSL_MODE", "disable"),
		)
		dialector = postgres.Open(dsn)
	}

	logLevel := logger.Warn
	if configs.GetEnvWithDefault("APP_ENV", "development") == "development" {
		logLevel = logger.Info
	}

	var err error
	db, err = gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		configslog.Log.Fatal("Veritabanına bağlanılamadı", zap.String("driver", driver), zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Fatal("sql.DB örneği alınamadı", zap.Error(err))
	}
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 50))
	sqlDB.SetConnMaxLifetime(time.Hour)

	configslog.SLog.Infof("Veritabanı bağlantısı kuruldu (%s)", driver)
}

// GetDB aktif bağlantıyı döndürür. InitDB'den önce çağrılırsa nil döner.
func GetDB() *gorm.DB {
	return db
}

// CloseDB bağlantı havuzunu kapatır.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Veritabanı kapatılırken sql.DB alınamadı", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Veritabanı bağlantısı kapatılamadı", zap.Error(err))
		return
	}
	configslog.SLog.Info("Veritabanı bağlantısı kapatıldı")
}
