package seeders

import (
	"errors"
	"time"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var demoUsers = []models.User{
	{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Ivanova"},
	{Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Petrov"},
}

// SeedDemoUsers geliştirme ortamı için iki arkadaş kullanıcı oluşturur. Mevcut kullanıcılar atlanır.
func SeedDemoUsers(db *gorm.DB) error {
	password := configs.GetEnvWithDefault("SEED_PASSWORD", "password")
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var createdCount int
	var errorOccurred bool
	ids := make([]uint, 0, len(demoUsers))

	for _, u := range demoUsers {
		var existing models.User
		result := db.Where("username = ?", u.Username).First(&existing)
		if result.Error == nil {
			configslog.SLog.Debugf("Kullanıcı '%s' zaten mevcut, oluşturma atlanıyor.", u.Username)
			ids = append(ids, existing.ID)
			continue
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			configslog.Log.Error("Kullanıcı kontrol edilirken veritabanı hatası", zap.String("username", u.Username), zap.Error(result.Error))
			errorOccurred = true
			continue
		}

		user := u
		user.PasswordHash = string(hash)
		user.ProfilePicture = models.DefaultProfilePicture
		user.DateAdded = time.Now().UTC()
		if err := db.Create(&user).Error; err != nil {
			configslog.Log.Error("Kullanıcı oluşturulamadı", zap.String("username", u.Username), zap.Error(err))
			errorOccurred = true
			continue
		}
		configslog.SLog.Infof("Kullanıcı '%s' oluşturuldu (ID: %d).", user.Username, user.ID)
		ids = append(ids, user.ID)
		createdCount++
	}

	if errorOccurred {
		return errors.New("demo kullanıcılar seed edilirken en az bir hata oluştu")
	}
	if createdCount == 0 {
		configslog.SLog.Info("Demo kullanıcılar zaten mevcut, yeni ekleme yapılmadı.")
		return nil
	}

	// Arkadaşlık her iki yönde de tutulur
	if len(ids) == 2 {
		rows := []models.Friendship{{UserID: ids[0], FriendID: ids[1]}, {UserID: ids[1], FriendID: ids[0]}}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			configslog.Log.Error("Demo arkadaşlık oluşturulamadı", zap.Error(err))
			return err
		}
	}
	configslog.SLog.Infof("%d demo kullanıcı seed edildi.", createdCount)
	return nil
}
