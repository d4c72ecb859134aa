package models

import "time"

// Comment etkinlik yorumu. ParentCommentID doluysa bir yanıttır (tek seviye).
type Comment struct {
	BaseModel
	EventID         uint      `gorm:"not null;index"`
	UserID          uint      `gorm:"not null;index"`
	Content         string    `gorm:"type:text;not null"`
	ParentCommentID *uint     `gorm:"index"`
	Timestamp       time.Time `gorm:"not null;index"`

	User          User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Event         Event    `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ParentComment *Comment `gorm:"foreignKey:ParentCommentID"`
}

// CommentThread üst seviye yorum ve doğrudan yanıtları (view için).
type CommentThread struct {
	Comment Comment
	Replies []Comment
}
