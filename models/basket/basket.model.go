package basket

import (
	"time"

	"gorm.io/gorm"
)

// CalculationType enum values
const (
	CalculationMean   = "MEAN"
	CalculationMedian = "MEDIAN"
	CalculationMin    = "MIN"
)

// Basket is the master entity for procurement price baskets
type Basket struct {
	gorm.Model
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `gorm:"type:text" json:"description"`
	ReferenceDate    time.Time `gorm:"not null" json:"referenceDate"`
	CalculationType  string    `gorm:"not null;type:varchar(10);default:'MEAN'" json:"calculationType"` // MEAN, MEDIAN, MIN
	ManagementUnitID uint      `gorm:"not null;index" json:"managementUnitId"`
	CreatedBy        uint      `gorm:"not null" json:"createdBy"`
	IsFinalized      bool      `gorm:"default:false" json:"isFinalized"`
	IsDeleted        bool      `gorm:"default:false" json:"isDeleted"`

	// Relations
	Items      []BasketItem `gorm:"foreignKey:BasketID" json:"items,omitempty"`
	Quotations []Quotation  `gorm:"foreignKey:BasketID" json:"quotations,omitempty"`
}

func (Basket) TableName() string {
	return "price_baskets"
}

// BasketItem is one product line of a basket
type BasketItem struct {
	gorm.Model
	BasketID     uint    `gorm:"not null;index" json:"basketId"`
	ProductID    uint    `gorm:"not null;index" json:"productId"`
	Quantity     float64 `gorm:"not null" json:"quantity"`
	LotNumber    *int    `json:"lotNumber"`
	Observations string  `gorm:"type:text" json:"observations"`

	// Relations
	Basket Basket `gorm:"foreignKey:BasketID" json:"-"`
}

func (BasketItem) TableName() string {
	return "basket_items"
}
