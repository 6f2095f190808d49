package models

import (
	"time"
)

// Company stores the company details. Each booking carries two references to
// this model: the owner company and, optionally, the affiliate one. FareHarbor
// does not supply a pk for companies like it does for the other entities, so
// short_name is the natural key used to retrieve existing rows.
type Company struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Name      string    `json:"name" gorm:"size:256;not null"`
	ShortName string    `json:"short_name" gorm:"size:30;not null;uniqueIndex"`
	Currency  string    `json:"currency" gorm:"size:10;not null"`
}

// TableName specifies the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
