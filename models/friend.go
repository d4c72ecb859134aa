package models

import "time"

// Friendship arkadaşlık grafının yönlü tek kenarıdır.
// Her arkadaşlık iki satırla (a->b, b->a) tutulur; ikisi her zaman birlikte yazılır/silinir.
type Friendship struct {
	UserID    uint `gorm:"primaryKey"`
	FriendID  uint `gorm:"primaryKey;index"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Friend User `gorm:"foreignKey:FriendID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type FriendRequestStatus string

const (
	FriendRequestStatusPending FriendRequestStatus = "pending"
)

// FriendRequest iki kullanıcı arasındaki bekleyen arkadaşlık isteği.
// Kabul/ret sonrası satır silinir.
type FriendRequest struct {
	BaseModel
	SenderID   uint                `gorm:"not null;index"`
	ReceiverID uint                `gorm:"not null;index"`
	Status     FriendRequestStatus `gorm:"type:varchar(50);not null;default:'pending'"`

	Sender   User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
