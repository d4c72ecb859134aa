package migrations

import (
	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateEventsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating events and attendances tables...")
	if err := db.AutoMigrate(&models.Event{}, &models.Attendance{}); err != nil {
		configslog.Log.Error("Failed to migrate events and attendances tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("events and attendances tables migrated successfully")
	return nil
}
