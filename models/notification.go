package models

import "time"

// Notification kullanıcıya gösterilen uygulama içi bildirim.
// Message HTML link içerebilir.
type Notification struct {
	BaseModel
	UserID     uint      `gorm:"not null;index"`
	EventID    *uint     `gorm:"index"`
	Message    string    `gorm:"type:text;not null"`
	Timestamp  time.Time `gorm:"not null;index"`
	IsSilenced bool      `gorm:"not null;default:false"`

	User  User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Event *Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
