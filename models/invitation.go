package models

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
)

// Invitation bir etkinliğe davet. Kayıtlı kullanıcıya (RecipientID) veya
// henüz kayıt olmamış bir e-posta adresine (sadece RecipientEmail) gönderilebilir.
// E-posta ile eşleşen kullanıcı ilk görüntülemede RecipientID'ye bağlanır.
type Invitation struct {
	BaseModel
	EventID        uint             `gorm:"not null;index"`
	RecipientID    *uint            `gorm:"index"`
	RecipientEmail *string          `gorm:"type:varchar(120);index"`
	Status         InvitationStatus `gorm:"type:varchar(50);not null;default:'pending';index"`

	Event     Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipient *User `gorm:"foreignKey:RecipientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// IsAnswered davet kabul ya da reddedildiyse true. Bu durumlar son durumdur.
func (i *Invitation) IsAnswered() bool {
	return i.Status == InvitationStatusAccepted || i.Status == InvitationStatusDeclined
}

// Email davetin e-posta adresi (yoksa boş).
func (i *Invitation) Email() string {
	if i.RecipientEmail == nil {
		return ""
	}
	return *i.RecipientEmail
}
