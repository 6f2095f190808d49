package models

import (
	"time"
)

// Availability is one bookable time-slotted instance of an item. Each booking
// belongs to one and only one availability.
type Availability struct {
	ID               int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt        time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt        time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Capacity         int       `json:"capacity" gorm:"not null"`
	MinimumPartySize *int      `json:"minimum_party_size"`
	MaximumPartySize *int      `json:"maximum_party_size"`
	StartAt          time.Time `json:"start_at" gorm:"not null"`
	EndAt            time.Time `json:"end_at" gorm:"not null"`
	Headline         *string   `json:"headline" gorm:"size:264"`

	// Foreign key fields
	ItemID int64 `json:"item_id" gorm:"not null"`

	// Relationships
	Item *Item `json:"item,omitempty" gorm:"foreignKey:ItemID"`
}

// TableName specifies the table name for the Availability model
func (Availability) TableName() string {
	return "availabilities"
}
