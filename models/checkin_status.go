package models

import (
	"time"
)

// CheckinStatus is an optional reference from customers describing their
// check-in state.
type CheckinStatus struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CheckinStatusType *string   `json:"checkin_status_type" gorm:"size:64"`
	Name              *string   `json:"name" gorm:"size:64"`
}

// TableName specifies the table name for the CheckinStatus model
func (CheckinStatus) TableName() string {
	return "checkin_statuses"
}
