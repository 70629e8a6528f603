package models

import (
	"time"

	"gorm.io/gorm"
)

// PriceCorrection records one application of a monetary index to a basket.
// Rows are append only, they are never updated or deleted.
type PriceCorrection struct {
	gorm.Model
	BasketID         uint      `gorm:"not null;index" json:"basketId"`
	IndexID          uint      `gorm:"not null;index" json:"indexId"`
	BaseDate         time.Time `gorm:"not null" json:"baseDate"`
	TargetDate       time.Time `gorm:"not null" json:"targetDate"`
	CorrectionFactor float64   `gorm:"not null" json:"correctionFactor"`
	AppliedBy        uint      `gorm:"not null" json:"appliedBy"`
	AppliedAt        time.Time `gorm:"not null" json:"appliedAt"`

	// Relations
	Index MonetaryIndex `gorm:"foreignKey:IndexID" json:"index,omitempty"`
}

func (PriceCorrection) TableName() string {
	return "price_corrections"
}
