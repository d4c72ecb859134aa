package migrations

import (
	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateCommentsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating comments table...")
	if err := db.AutoMigrate(&models.Comment{}); err != nil {
		configslog.Log.Error("Failed to migrate comments table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("comments table migrated successfully")
	return nil
}
