package models

import (
	"time"
)

// Booking stores one customer's purchase of a slot in an availability. The id
// is FareHarbor's pk and acts as the upsert key; uuid is globally unique.
type Booking struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
	VoucherNumber   *string   `json:"voucher_number" gorm:"size:64"`
	DisplayID       string    `json:"display_id" gorm:"size:64;not null"`
	NoteSafeHTML    *string   `json:"note_safe_html" gorm:"type:text"`
	Agent           *string   `json:"agent" gorm:"size:64"`
	ConfirmationURL *string   `json:"confirmation_url" gorm:"size:255"`
	CustomerCount   int       `json:"customer_count" gorm:"not null"`
	UUID            string    `json:"uuid" gorm:"size:40;not null;uniqueIndex"`
	DashboardURL    *string   `json:"dashboard_url" gorm:"size:264"`
	Note            *string   `json:"note" gorm:"type:text"`
	Pickup          *string   `json:"pickup" gorm:"size:64"`
	Status          *string   `json:"status" gorm:"size:64"`
	CreatedBy       string    `json:"created_by" gorm:"size:64;not null"`

	// Foreign key fields
	AvailabilityID     int64  `json:"availability_id" gorm:"not null"`
	CompanyID          int64  `json:"company_id" gorm:"not null"`
	AffiliateCompanyID *int64 `json:"affiliate_company_id"`

	// Price fields
	ReceiptSubtotal *int `json:"receipt_subtotal"`
	ReceiptTaxes    *int `json:"receipt_taxes"`
	ReceiptTotal    *int `json:"receipt_total"`
	AmountPaid      *int `json:"amount_paid"`
	InvoicePrice    *int `json:"invoice_price"`

	// Price displays
	ReceiptSubtotalDisplay *string `json:"receipt_subtotal_display" gorm:"size:64"`
	ReceiptTaxesDisplay    *string `json:"receipt_taxes_display" gorm:"size:64"`
	ReceiptTotalDisplay    *string `json:"receipt_total_display" gorm:"size:64"`
	AmountPaidDisplay      *string `json:"amount_paid_display" gorm:"size:64"`
	InvoicePriceDisplay    *string `json:"invoice_price_display" gorm:"size:64"`

	Desk                      *string `json:"desk" gorm:"size:64"`
	IsEligibleForCancellation *bool   `json:"is_eligible_for_cancellation"`
	IsSubscribedForSMSUpdates *bool   `json:"is_subscribed_for_sms_updates"`
	Arrival                   *string `json:"arrival" gorm:"size:64"`
	RebookedTo                *string `json:"rebooked_to" gorm:"size:64"`
	RebookedFrom              *string `json:"rebooked_from" gorm:"size:64"`
	ExternalID                *string `json:"external_id" gorm:"size:64"`
	Order                     *string `json:"order" gorm:"size:64"`

	// Relationships
	Availability     *Availability `json:"availability,omitempty" gorm:"foreignKey:AvailabilityID"`
	Company          *Company      `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	AffiliateCompany *Company      `json:"affiliate_company,omitempty" gorm:"foreignKey:AffiliateCompanyID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
