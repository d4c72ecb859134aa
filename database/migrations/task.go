package migrations

import (
	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateTasksTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating tasks table...")
	if err := db.AutoMigrate(&models.Task{}); err != nil {
		configslog.Log.Error("Failed to migrate tasks table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("tasks table migrated successfully")
	return nil
}
