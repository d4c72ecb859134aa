package models

import (
	"strings"
	"time"
)

const DefaultProfilePicture = "default_profile.jpg"

// User sisteme kayıtlı kullanıcıyı temsil eder.
type User struct {
	BaseModel
	Username       string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash   string    `gorm:"type:varchar(255);not null"`
	FirstName      string    `gorm:"type:varchar(50);not null"`
	LastName       string    `gorm:"type:varchar(50);not null"`
	ProfilePicture string    `gorm:"type:varchar(255);default:'default_profile.jpg'"`
	DateAdded      time.Time `gorm:"not null"`
}

// FullName view'larda gösterilen ad soyad.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail e-posta karşılaştırmaları için tek biçim üretir.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
