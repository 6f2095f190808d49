package models

import (
	"time"
)

// CustomField describes a configurable attribute available on bookings and
// customers. A field may carry sub-choices: each extended option is stored as
// another CustomField row pointing back at its parent through ExtendedOptions,
// with a reduced set of populated attributes.
type CustomField struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	Title        *string   `json:"title" gorm:"size:64"`
	Name         string    `json:"name" gorm:"size:64;not null"`
	ModifierKind string    `json:"modifier_kind" gorm:"size:64;not null"`
	ModifierType string    `json:"modifier_type" gorm:"size:64;not null"`
	FieldType    *string   `json:"field_type" gorm:"size:64"`
	Offset       *int      `json:"offset"`
	Percentage   *int      `json:"percentage"`

	// Text fields
	Description          *string `json:"description" gorm:"type:text"`
	BookingNotes         *string `json:"booking_notes" gorm:"type:text"`
	DescriptionSafeHTML  *string `json:"description_safe_html" gorm:"type:text"`
	BookingNotesSafeHTML *string `json:"booking_notes_safe_html" gorm:"type:text"`

	// Bool fields
	IsRequired          *bool `json:"is_required"`
	IsTaxable           *bool `json:"is_taxable"`
	IsAlwaysPerCustomer *bool `json:"is_always_per_customer"`

	// Parent field for extended option rows.
	ExtendedOptions *int64 `json:"extended_options"`

	Parent *CustomField `json:"parent,omitempty" gorm:"foreignKey:ExtendedOptions"`
}

// TableName specifies the table name for the CustomField model
func (CustomField) TableName() string {
	return "custom_fields"
}
