package models

import (
	"time"
)

// CustomerType extends the customer prototype with the singular/plural names
// and the notes.
type CustomerType struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Note      *string   `json:"note" gorm:"type:text"`
	Singular  string    `json:"singular" gorm:"size:64;not null"`
	Plural    string    `json:"plural" gorm:"size:64;not null"`
}

// TableName specifies the table name for the CustomerType model
func (CustomerType) TableName() string {
	return "customer_types"
}
