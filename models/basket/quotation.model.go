package basket

import (
	"time"

	"gorm.io/gorm"
)

// QuotationStatus enum values
const (
	StatusPending  = "PENDING"
	StatusAnswered = "ANSWERED"
	StatusExpired  = "EXPIRED"
)

// Quotation is one supplier's invitation/response cycle for a basket.
// Rows are never deleted, they form the audit trail of the procurement cycle.
type Quotation struct {
	gorm.Model
	BasketID   uint      `gorm:"not null;index:idx_quotation_basket_supplier" json:"basketId"`
	SupplierID uint      `gorm:"not null;index:idx_quotation_basket_supplier" json:"supplierId"`
	Status     string    `gorm:"not null;type:varchar(10);default:'PENDING';index" json:"status"` // PENDING, ANSWERED, EXPIRED
	DueDate    time.Time `gorm:"not null" json:"dueDate"`
	BatchID    string    `gorm:"type:varchar(36);index" json:"batchId"` // Dispatch batch this quotation was created in

	SentAt         *time.Time `json:"sentAt"`
	RespondedAt    *time.Time `json:"respondedAt"`
	ReminderSentAt *time.Time `json:"reminderSentAt"`

	DigitalSignature     string `gorm:"type:text" json:"digitalSignature"`
	SignatureCertificate string `gorm:"type:text" json:"signatureCertificate"`

	// Relations
	Basket Basket      `gorm:"foreignKey:BasketID" json:"basket,omitempty"`
	Items  []QuoteItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`
}

func (Quotation) TableName() string {
	return "supplier_quotations"
}

// QuoteItem is one price line for one basket item within one quotation
type QuoteItem struct {
	gorm.Model
	QuotationID  uint    `gorm:"not null;index" json:"quotationId"`
	BasketItemID uint    `gorm:"not null;index" json:"basketItemId"`
	UnitPrice    float64 `gorm:"not null" json:"unitPrice"`
	TotalPrice   float64 `gorm:"not null" json:"totalPrice"` // unit price x basket item quantity
	Brand        string  `gorm:"default:''" json:"brand"`
	Observations string  `gorm:"type:text" json:"observations"`
}

func (QuoteItem) TableName() string {
	return "quote_items"
}
