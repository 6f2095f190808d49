package models

import (
	"time"
)

// Item is a sellable product in the business (a tour or a rental).
type Item struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Name      *string   `json:"name" gorm:"size:200"`
}

// TableName specifies the table name for the Item model
func (Item) TableName() string {
	return "items"
}
