package basket

import (
	"time"

	"gorm.io/gorm"
)

// AccessToken is an opaque credential bound to exactly one quotation.
// Issuing a new token for a quotation revokes all prior ones.
type AccessToken struct {
	gorm.Model
	QuotationID uint      `gorm:"not null;index" json:"quotationId"`
	Token       string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expiresAt"` // Mirrors the quotation due date

	UsedAt    *time.Time `json:"usedAt"` // First submission timestamp, audit only
	RevokedAt *time.Time `json:"revokedAt"`
}

func (AccessToken) TableName() string {
	return "quotation_access_tokens"
}
