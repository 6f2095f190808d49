package models

import (
	"errors"
	"time"
)

// ErrExactlyOneParent is returned when a custom field instance or value does
// not point to exactly one of its two possible parents.
var ErrExactlyOneParent = errors.New("exactly one parent reference must be set")

// CustomFieldInstance attaches a custom field to either an availability or a
// customer type rate. It always points to a custom field object but must point
// to exactly one of the two parents, never both and never neither.
type CustomFieldInstance struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`

	CustomFieldID      int64  `json:"custom_field_id" gorm:"not null"`
	AvailabilityID     *int64 `json:"availability_id"`
	CustomerTypeRateID *int64 `json:"customer_type_rate_id"`

	CustomField *CustomField `json:"custom_field,omitempty" gorm:"foreignKey:CustomFieldID"`
}

// TableName specifies the table name for the CustomFieldInstance model
func (CustomFieldInstance) TableName() string {
	return "custom_field_instances"
}

// Validate enforces the availability XOR customer type rate constraint.
func (cfi *CustomFieldInstance) Validate() error {
	if cfi.AvailabilityID == nil && cfi.CustomerTypeRateID == nil {
		return ErrExactlyOneParent
	}
	if cfi.AvailabilityID != nil && cfi.CustomerTypeRateID != nil {
		return ErrExactlyOneParent
	}
	return nil
}
