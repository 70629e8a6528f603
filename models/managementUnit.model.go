package models

import (
	"gorm.io/gorm"
)

// ManagementUnit is the public body that owns price baskets
type ManagementUnit struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	CNPJ     string `gorm:"type:varchar(18)" json:"cnpj"`
	Email    string `gorm:"default:''" json:"email"`
	Phone    string `gorm:"default:''" json:"phone"`
	Address  string `gorm:"default:''" json:"address"`
	City     string `gorm:"default:''" json:"city"`
	IsActive bool   `gorm:"default:true" json:"isActive"`
}

func (ManagementUnit) TableName() string {
	return "management_units"
}
