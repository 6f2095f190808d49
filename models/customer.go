package models

import (
	"time"
)

// Customer is one concrete purchased slot within a booking. It acts as a M2M
// between customer type rates and bookings as a booking can have several
// customers chosen (3 adults, 2 children) and the same customer type rate can
// appear in different bookings.
type Customer struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	CheckinURL *string   `json:"checkin_url" gorm:"size:264"`

	// Foreign key fields
	CustomerTypeRateID int64  `json:"customer_type_rate_id" gorm:"not null"`
	CheckinStatusID    *int64 `json:"checkin_status_id"`
	BookingID          int64  `json:"booking_id" gorm:"not null"`

	// Relationships
	CustomerTypeRate *CustomerTypeRate `json:"customer_type_rate,omitempty" gorm:"foreignKey:CustomerTypeRateID"`
	CheckinStatus    *CheckinStatus    `json:"checkin_status,omitempty" gorm:"foreignKey:CheckinStatusID"`
	Booking          *Booking          `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
