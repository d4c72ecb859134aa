package services

import (
	"organize.it/configs"

	"gorm.io/gorm"
)

// Services uygulamanın tüm servislerini bir arada tutar. main ve testler
// bağımlılıkları tek noktadan kurar.
type Services struct {
	Auth         IAuthService
	User         IUserService
	Friend       IFriendService
	Event        IEventService
	Invitation   IInvitationService
	Notification INotificationService
	Comment      ICommentService
	Task         ITaskService
	Mail         IMailService
	Storage      IStorageService
}

// New servisleri bağımlılık sırasına göre oluşturur.
func New(db *gorm.DB, cfg *configs.AppConfig, mailer IMailService, storage IStorageService) *Services {
	notifications := NewNotificationService(db)
	invitations := NewInvitationService(db, cfg, mailer, notifications)
	return &Services{
		Auth:         NewAuthService(db, storage, invitations),
		User:         NewUserService(db, storage),
		Friend:       NewFriendService(db, cfg, notifications),
		Event:        NewEventService(db, cfg, mailer, notifications, invitations),
		Invitation:   invitations,
		Notification: notifications,
		Comment:      NewCommentService(db, cfg, notifications),
		Task:         NewTaskService(db),
		Mail:         mailer,
		Storage:      storage,
	}
}
