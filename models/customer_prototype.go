package models

import (
	"time"
)

// CustomerPrototype is a general customer category (adult, child, 2 hours...)
// defined in the upstream settings that availabilities build their rates on.
type CustomerPrototype struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Total             *int      `json:"total"`
	TotalIncludingTax *int      `json:"total_including_tax"`
	DisplayName       string    `json:"display_name" gorm:"size:64;not null"`
	Note              *string   `json:"note" gorm:"type:text"`
}

// TableName specifies the table name for the CustomerPrototype model
func (CustomerPrototype) TableName() string {
	return "customer_prototypes"
}
