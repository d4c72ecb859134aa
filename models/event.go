package models

import "time"

// Event bir organizatörün oluşturduğu etkinlik.
// Organizatör silinirse OrganizerID NULL olur.
type Event struct {
	BaseModel
	Title       string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:varchar(500)"`
	Date        time.Time `gorm:"not null;index"`
	OrganizerID *uint     `gorm:"index"`

	Organizer *User `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// IsOrganizer verilen kullanıcı bu etkinliğin organizatörü mü?
func (e *Event) IsOrganizer(userID uint) bool {
	return e.OrganizerID != nil && *e.OrganizerID == userID
}

// HasPassed etkinlik tarihi geçmiş mi?
func (e *Event) HasPassed(now time.Time) bool {
	return e.Date.Before(now)
}
