package models

import (
	"time"
)

// StoredRequest records one inbound webhook payload. The id is derived from
// the archive filename (the digits of the unix timestamp), the body keeps the
// raw JSON so failed normalizations can be replayed, and ProcessedAt is only
// set once the whole entity graph has been saved.
type StoredRequest struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Filename    string     `json:"filename" gorm:"size:128;not null"`
	Body        string     `json:"body" gorm:"type:text;not null"`
	Timestamp   time.Time  `json:"timestamp" gorm:"not null"`
	ProcessedAt *time.Time `json:"processed_at"`
}

// TableName specifies the table name for the StoredRequest model
func (StoredRequest) TableName() string {
	return "stored_requests"
}
