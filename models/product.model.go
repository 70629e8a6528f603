package models

import (
	"gorm.io/gorm"
)

// ProductCategory is a flat parent-id tree. Traversal is depth bounded,
// never recursive over the stored structure.
type ProductCategory struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Code        string `gorm:"default:''" json:"code"`
	Description string `gorm:"type:text" json:"description"`
	ParentID    *uint  `gorm:"index" json:"parentId"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

type MeasurementUnit struct {
	gorm.Model
	Name         string `gorm:"not null" json:"name"`
	Abbreviation string `gorm:"not null;type:varchar(10)" json:"abbreviation"`
	Description  string `gorm:"type:text" json:"description"`
}

func (MeasurementUnit) TableName() string {
	return "measurement_units"
}

type Product struct {
	gorm.Model
	Name              string `gorm:"not null" json:"name"`
	Code              string `gorm:"default:''" json:"code"`
	Description       string `gorm:"type:text" json:"description"`
	Specification     string `gorm:"type:text" json:"specification"`
	AnvisaCode        string `gorm:"default:''" json:"anvisaCode"`
	CategoryID        uint   `gorm:"not null;index" json:"categoryId"`
	MeasurementUnitID uint   `gorm:"not null" json:"measurementUnitId"`
	IsActive          bool   `gorm:"default:true" json:"isActive"`

	// Relations
	Category        ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	MeasurementUnit MeasurementUnit `gorm:"foreignKey:MeasurementUnitID" json:"measurementUnit,omitempty"`
}

func (Product) TableName() string {
	return "products"
}
