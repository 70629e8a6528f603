package models

import (
	"gorm.io/gorm"
)

// Supplier is a company invited to quote prices for baskets
type Supplier struct {
	gorm.Model
	CompanyName           string `gorm:"not null" json:"companyName"`
	TradeName             string `gorm:"default:''" json:"tradeName"`
	CNPJ                  string `gorm:"type:varchar(18);not null" json:"cnpj"`
	Email                 string `gorm:"not null;index" json:"email"`
	Phone                 string `gorm:"default:''" json:"phone"`
	Address               string `gorm:"default:''" json:"address"`
	City                  string `gorm:"default:''" json:"city"`
	StateRegistration     string `gorm:"default:''" json:"stateRegistration"`
	MunicipalRegistration string `gorm:"default:''" json:"municipalRegistration"`
	Website               string `gorm:"default:''" json:"website"`
	IsActive              bool   `gorm:"default:true" json:"isActive"`
	IsDeleted             bool   `gorm:"default:false" json:"isDeleted"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
