package models

import "time"

// BaseModel tüm tablolarda ortak olan alanları içerir.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}
