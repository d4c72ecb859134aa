package models

type AttendanceStatus string

const (
	AttendanceStatusPending  AttendanceStatus = "pending"
	AttendanceStatusAccepted AttendanceStatus = "accepted"
)

// Attendance bir kullanıcının etkinlik için LCV kaydı. Invitation durumundan bağımsızdır.
// (user, event) başına tek kabul beklenir, DB tarafından zorlanmaz.
type Attendance struct {
	BaseModel
	UserID  uint             `gorm:"not null;index"`
	EventID uint             `gorm:"not null;index"`
	Status  AttendanceStatus `gorm:"type:varchar(50);not null;default:'pending';index"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
