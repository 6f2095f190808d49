package models

import (
	"time"
)

// Bike is one physical bike in the inventory, identified by uuid towards the
// tracker app and by readable_name towards humans.
type Bike struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	UUID         string    `json:"uuid" gorm:"size:40;not null;uniqueIndex"`
	ReadableName string    `json:"readable_name" gorm:"size:64;not null;uniqueIndex"`
}

// TableName specifies the table name for the Bike model
func (Bike) TableName() string {
	return "bikes"
}

// BikeUsage assigns a bike to an availability for the duration of its service
// window. Nothing prevents a bike from being assigned twice at the same time;
// conflict detection exists precisely because of that.
type BikeUsage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`

	BikeID         int64 `json:"bike_id" gorm:"not null"`
	AvailabilityID int64 `json:"availability_id" gorm:"not null"`

	Bike         *Bike         `json:"bike,omitempty" gorm:"foreignKey:BikeID"`
	Availability *Availability `json:"availability,omitempty" gorm:"foreignKey:AvailabilityID"`
}

// TableName specifies the table name for the BikeUsage model
func (BikeUsage) TableName() string {
	return "bike_usages"
}
