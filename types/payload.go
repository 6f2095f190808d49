package types

import (
	"encoding/json"
	"time"
)

// WebhookDocument is the envelope FareHarbor posts to the webhook endpoint.
// Every field that the upstream schema marks as required is a pointer here so
// that an absent key can be told apart from a zero value; the normalizer turns
// nil required fields into missing-field errors carrying the key path.
type WebhookDocument struct {
	Booking *BookingPayload `json:"booking"`
}

// BookingPayload mirrors the booking object of the webhook payload.
type BookingPayload struct {
	PK              *int64  `json:"pk"`
	VoucherNumber   *string `json:"voucher_number"`
	DisplayID       *string `json:"display_id"`
	NoteSafeHTML    *string `json:"note_safe_html"`
	Agent           *string `json:"agent"`
	ConfirmationURL *string `json:"confirmation_url"`
	CustomerCount   *int    `json:"customer_count"`
	UUID            *string `json:"uuid"`
	DashboardURL    *string `json:"dashboard_url"`
	Note            *string `json:"note"`
	Pickup          *string `json:"pickup"`
	Status          *string `json:"status"`

	// Price fields
	ReceiptSubtotal *int `json:"receipt_subtotal"`
	ReceiptTaxes    *int `json:"receipt_taxes"`
	ReceiptTotal    *int `json:"receipt_total"`
	AmountPaid      *int `json:"amount_paid"`
	InvoicePrice    *int `json:"invoice_price"`

	// Price displays
	ReceiptSubtotalDisplay *string `json:"receipt_subtotal_display"`
	ReceiptTaxesDisplay    *string `json:"receipt_taxes_display"`
	ReceiptTotalDisplay    *string `json:"receipt_total_display"`
	AmountPaidDisplay      *string `json:"amount_paid_display"`
	InvoicePriceDisplay    *string `json:"invoice_price_display"`

	Desk                      *string `json:"desk"`
	IsEligibleForCancellation *bool   `json:"is_eligible_for_cancellation"`
	IsSubscribedForSMSUpdates *bool   `json:"is_subscribed_for_sms_updates"`
	Arrival                   *string `json:"arrival"`
	RebookedTo                *string `json:"rebooked_to"`
	RebookedFrom              *string `json:"rebooked_from"`
	ExternalID                *string `json:"external_id"`

	// The order object is kept opaque and persisted verbatim.
	Order json.RawMessage `json:"order"`

	// Nested objects
	Customers                   []CustomerPayload          `json:"customers"`
	Availability                *AvailabilityPayload       `json:"availability"`
	Company                     *CompanyPayload            `json:"company"`
	AffiliateCompany            *CompanyPayload            `json:"affiliate_company"`
	CustomFieldValues           []CustomFieldValuePayload  `json:"custom_field_values"`
	EffectiveCancellationPolicy *CancellationPolicyPayload `json:"effective_cancellation_policy"`
	Contact                     *ContactPayload            `json:"contact"`
}

// AvailabilityPayload mirrors booking.availability.
type AvailabilityPayload struct {
	PK                   *int64                       `json:"pk"`
	Capacity             *int                         `json:"capacity"`
	MinimumPartySize     *int                         `json:"minimum_party_size"`
	MaximumPartySize     *int                         `json:"maximum_party_size"`
	StartAt              *time.Time                   `json:"start_at"`
	EndAt                *time.Time                   `json:"end_at"`
	Headline             *string                      `json:"headline"`
	Item                 *ItemPayload                 `json:"item"`
	CustomerTypeRates    []CustomerTypeRatePayload    `json:"customer_type_rates"`
	CustomFieldInstances []CustomFieldInstancePayload `json:"custom_field_instances"`
}

// ItemPayload mirrors booking.availability.item.
type ItemPayload struct {
	PK   *int64  `json:"pk"`
	Name *string `json:"name"`
}

// CompanyPayload mirrors booking.company and booking.affiliate_company. The
// upstream payload spells the natural key both as short_name and as shortname
// depending on the entry point, hence the two fields.
type CompanyPayload struct {
	Name      *string `json:"name"`
	ShortName *string `json:"short_name"`
	Shortname *string `json:"shortname"`
	Currency  *string `json:"currency"`
}

// ShortNameAlias resolves the short_name/shortname spelling inconsistency,
// preferring shortname when both are present.
func (c *CompanyPayload) ShortNameAlias() *string {
	if c.Shortname != nil {
		return c.Shortname
	}
	return c.ShortName
}

// ContactPayload mirrors booking.contact.
type ContactPayload struct {
	Name                        *string `json:"name"`
	Email                       *string `json:"email"`
	PhoneCountry                *string `json:"phone_country"`
	Phone                       *string `json:"phone"`
	NormalizedPhone             *string `json:"normalized_phone"`
	Language                    *string `json:"language"`
	IsSubscribedForEmailUpdates *bool   `json:"is_subscribed_for_email_updates"`
}

// CancellationPolicyPayload mirrors booking.effective_cancellation_policy.
type CancellationPolicyPayload struct {
	Cutoff *time.Time `json:"cutoff"`
	Type   *string    `json:"type"`
}

// CustomerPayload mirrors one entry of booking.customers.
type CustomerPayload struct {
	PK                *int64                    `json:"pk"`
	CheckinURL        *string                   `json:"checkin_url"`
	CheckinStatus     *CheckinStatusPayload     `json:"checkin_status"`
	CustomerTypeRate  *CustomerTypeRatePayload  `json:"customer_type_rate"`
	CustomFieldValues []CustomFieldValuePayload `json:"custom_field_values"`
}

// CheckinStatusPayload mirrors customers[].checkin_status.
type CheckinStatusPayload struct {
	PK   *int64  `json:"pk"`
	Type *string `json:"type"`
	Name *string `json:"name"`
}

// CustomerTypeRatePayload mirrors the customer type rate objects that appear
// both under availability.customer_type_rates and under each
// customers[].customer_type_rate.
type CustomerTypeRatePayload struct {
	PK                   *int64                       `json:"pk"`
	Capacity             *int                         `json:"capacity"`
	MinimumPartySize     *int                         `json:"minimum_party_size"`
	MaximumPartySize     *int                         `json:"maximum_party_size"`
	Total                *int                         `json:"total"`
	TotalIncludingTax    *int                         `json:"total_including_tax"`
	CustomerPrototype    *CustomerPrototypePayload    `json:"customer_prototype"`
	CustomerType         *CustomerTypePayload         `json:"customer_type"`
	CustomFieldInstances []CustomFieldInstancePayload `json:"custom_field_instances"`
}

// CustomerPrototypePayload mirrors customer_type_rate.customer_prototype.
type CustomerPrototypePayload struct {
	PK                *int64  `json:"pk"`
	Note              *string `json:"note"`
	Total             *int    `json:"total"`
	TotalIncludingTax *int    `json:"total_including_tax"`
	DisplayName       *string `json:"display_name"`
}

// CustomerTypePayload mirrors customer_type_rate.customer_type.
type CustomerTypePayload struct {
	PK       *int64  `json:"pk"`
	Note     *string `json:"note"`
	Singular *string `json:"singular"`
	Plural   *string `json:"plural"`
}

// CustomFieldPayload mirrors a custom field object. Extended options reuse the
// same shape with fewer populated attributes; ExtendedOptions being nil means
// the key was absent, which is fine for childless fields.
type CustomFieldPayload struct {
	PK                   *int64               `json:"pk"`
	Title                *string              `json:"title"`
	Name                 *string              `json:"name"`
	ModifierKind         *string              `json:"modifier_kind"`
	ModifierType         *string              `json:"modifier_type"`
	Type                 *string              `json:"type"`
	Offset               *int                 `json:"offset"`
	Percentage           *int                 `json:"percentage"`
	Description          *string              `json:"description"`
	BookingNotes         *string              `json:"booking_notes"`
	DescriptionSafeHTML  *string              `json:"description_safe_html"`
	BookingNotesSafeHTML *string              `json:"booking_notes_safe_html"`
	IsRequired           *bool                `json:"is_required"`
	IsTaxable            *bool                `json:"is_taxable"`
	IsAlwaysPerCustomer  *bool                `json:"is_always_per_customer"`
	ExtendedOptions      []CustomFieldPayload `json:"extended_options"`
}

// CustomFieldInstancePayload mirrors the custom_field_instances entries.
type CustomFieldInstancePayload struct {
	PK          *int64              `json:"pk"`
	CustomField *CustomFieldPayload `json:"custom_field"`
}

// CustomFieldValuePayload mirrors the custom_field_values entries.
type CustomFieldValuePayload struct {
	PK           *int64              `json:"pk"`
	Name         *string             `json:"name"`
	Value        *string             `json:"value"`
	DisplayValue *string             `json:"display_value"`
	CustomField  *CustomFieldPayload `json:"custom_field"`
}
