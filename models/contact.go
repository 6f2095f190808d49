package models

import (
	"time"
)

// Contact stores the contact details for a booking. It is 1:1 with bookings
// and shares the booking's id as primary key, so it is never created on its
// own.
type Contact struct {
	ID                          int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt                   time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt                   time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Name                        string    `json:"name" gorm:"size:256;not null"`
	Email                       *string   `json:"email" gorm:"size:256"`
	PhoneCountry                *string   `json:"phone_country" gorm:"size:10"`
	Phone                       *string   `json:"phone" gorm:"size:30"`
	NormalizedPhone             *string   `json:"normalized_phone" gorm:"size:30"`
	Language                    *string   `json:"language" gorm:"size:10"`
	IsSubscribedForEmailUpdates bool      `json:"is_subscribed_for_email_updates" gorm:"not null"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:ID"`
}

// TableName specifies the table name for the Contact model
func (Contact) TableName() string {
	return "contacts"
}
