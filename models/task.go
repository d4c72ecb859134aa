package models

// Task organizatörün etkinlik için tuttuğu yapılacak işi temsil eder.
type Task struct {
	BaseModel
	EventID   uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"type:varchar(255);not null"`
	Completed bool   `gorm:"not null;default:false"`

	Event Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
