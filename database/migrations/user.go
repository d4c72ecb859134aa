package migrations

import (
	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateUsersTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating users, friendships and friend_requests tables...")
	if err := db.AutoMigrate(&models.User{}, &models.Friendship{}, &models.FriendRequest{}); err != nil {
		configslog.Log.Error("Failed to migrate users, friendships and friend_requests tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("users, friendships and friend_requests tables migrated successfully")
	return nil
}
