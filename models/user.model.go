package models

import (
	"time"

	"gorm.io/gorm"
)

// Role enum values
const (
	RoleAdmin    = "ADMIN"
	RoleServidor = "SERVIDOR"
)

type User struct {
	gorm.Model
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"unique;not null" json:"email"`
	Password         string     `gorm:"not null" json:"-"`
	Role             string     `gorm:"type:varchar(10);default:'SERVIDOR'" json:"role"` // ADMIN, SERVIDOR
	ManagementUnitID uint       `gorm:"index" json:"managementUnitId"`
	Phone            string     `gorm:"default:''" json:"phone"`
	LastLogin        *time.Time `json:"lastLogin"`
	IsActive         bool       `gorm:"default:true" json:"isActive"`
	IsDeleted        bool       `gorm:"default:false" json:"isDeleted"`
}

func (User) TableName() string {
	return "users"
}
