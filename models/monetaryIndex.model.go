package models

import (
	"time"

	"gorm.io/gorm"
)

// MonetaryIndex is a named price index (IPCA, INPC, ...) with a value series
type MonetaryIndex struct {
	gorm.Model
	Name        string `gorm:"not null;unique" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	SourceURL   string `gorm:"default:''" json:"sourceUrl"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	// Relations
	Values []IndexValue `gorm:"foreignKey:IndexID" json:"values,omitempty"`
}

func (MonetaryIndex) TableName() string {
	return "monetary_indexes"
}

// IndexValue is one point of an index series. Dates are unique per index.
type IndexValue struct {
	gorm.Model
	IndexID       uint      `gorm:"not null;index;uniqueIndex:idx_index_ref_date" json:"indexId"`
	ReferenceDate time.Time `gorm:"not null;uniqueIndex:idx_index_ref_date" json:"referenceDate"`
	Value         float64   `gorm:"not null" json:"value"`
}

func (IndexValue) TableName() string {
	return "index_values"
}

// IndexSyncLog records one run of the external index sync
type IndexSyncLog struct {
	gorm.Model
	RunID            string     `gorm:"type:varchar(36);not null;index" json:"runId"`
	IndexID          uint       `gorm:"not null;index" json:"indexId"`
	SyncType         string     `gorm:"type:varchar(20);default:'scheduled'" json:"syncType"` // scheduled, manual
	Status           string     `gorm:"type:varchar(20);default:'running'" json:"status"`     // running, completed, failed
	RecordsProcessed int        `gorm:"default:0" json:"recordsProcessed"`
	ErrorMessage     string     `gorm:"type:text" json:"errorMessage"`
	CompletedAt      *time.Time `json:"completedAt"`
}

func (IndexSyncLog) TableName() string {
	return "index_sync_logs"
}
