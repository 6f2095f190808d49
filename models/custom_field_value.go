package models

import (
	"time"
)

// CustomFieldValue stores the value chosen for a custom field on a booking or
// on a customer. Same exactly-one-parent constraint as CustomFieldInstance,
// this time between booking and customer.
type CustomFieldValue struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Name         string    `json:"name" gorm:"size:64;not null"`
	Value        *string   `json:"value" gorm:"size:2048"`
	DisplayValue *string   `json:"display_value" gorm:"size:2048"`

	CustomFieldID int64  `json:"custom_field_id" gorm:"not null"`
	BookingID     *int64 `json:"booking_id"`
	CustomerID    *int64 `json:"customer_id"`

	CustomField *CustomField `json:"custom_field,omitempty" gorm:"foreignKey:CustomFieldID"`
}

// TableName specifies the table name for the CustomFieldValue model
func (CustomFieldValue) TableName() string {
	return "custom_field_values"
}

// Validate enforces the booking XOR customer constraint.
func (cfv *CustomFieldValue) Validate() error {
	if cfv.BookingID == nil && cfv.CustomerID == nil {
		return ErrExactlyOneParent
	}
	if cfv.BookingID != nil && cfv.CustomerID != nil {
		return ErrExactlyOneParent
	}
	return nil
}
