package models

import (
	"time"
)

// CustomerTypeRate is a priced category offered on a specific availability.
// It acts as a M2M between the availability and the customer prototype,
// carrying its own capacity and price overrides.
type CustomerTypeRate struct {
	ID                int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Capacity          *int      `json:"capacity"`
	MinimumPartySize  *int      `json:"minimum_party_size"`
	MaximumPartySize  *int      `json:"maximum_party_size"`
	Total             *int      `json:"total"`
	TotalIncludingTax *int      `json:"total_including_tax"`

	// Foreign key fields
	AvailabilityID      int64 `json:"availability_id" gorm:"not null"`
	CustomerPrototypeID int64 `json:"customer_prototype_id" gorm:"not null"`
	CustomerTypeID      int64 `json:"customer_type_id" gorm:"not null"`

	// Relationships
	Availability      *Availability      `json:"availability,omitempty" gorm:"foreignKey:AvailabilityID"`
	CustomerPrototype *CustomerPrototype `json:"customer_prototype,omitempty" gorm:"foreignKey:CustomerPrototypeID"`
	CustomerType      *CustomerType      `json:"customer_type,omitempty" gorm:"foreignKey:CustomerTypeID"`
}

// TableName specifies the table name for the CustomerTypeRate model
func (CustomerTypeRate) TableName() string {
	return "customer_type_rates"
}
