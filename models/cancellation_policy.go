package models

import (
	"time"
)

// EffectiveCancellationPolicy stores the cancellation policy for a booking.
// Same id-sharing pattern as Contact: 1:1 with bookings, keyed by booking id.
type EffectiveCancellationPolicy struct {
	ID               int64      `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt        time.Time  `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Cutoff           *time.Time `json:"cutoff"`
	CancellationType string     `json:"cancellation_type" gorm:"size:64;not null"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:ID"`
}

// TableName specifies the table name for the EffectiveCancellationPolicy model
func (EffectiveCancellationPolicy) TableName() string {
	return "effective_cancellation_policies"
}
