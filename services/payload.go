package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/nablabits/fareharbor-webhook/models"
	"github.com/nablabits/fareharbor-webhook/types"
)

// ProcessPayload normalizes one webhook document into the relational schema.
// The walk is depth-first in dependency order, so every step only references
// ids already produced by an earlier step and a single top-to-bottom pass
// suffices. The whole save sequence runs inside one transaction: a missing
// field or an invariant violation rolls back the document entirely, partial
// graphs are never left behind.
func ProcessPayload(db *gorm.DB, doc *types.WebhookDocument, ts time.Time) (*models.Booking, error) {
	if doc == nil || doc.Booking == nil {
		return nil, ErrEmptyPayload
	}
	var booking *models.Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		p := &payloadProcessor{tx: tx, booking: doc.Booking, ts: ts}
		b, err := p.run()
		booking = b
		return err
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

type payloadProcessor struct {
	tx      *gorm.DB
	booking *types.BookingPayload
	ts      time.Time
}

func (p *payloadProcessor) run() (*models.Booking, error) {
	item, err := p.saveItem()
	if err != nil {
		return nil, err
	}
	av, err := p.saveAvailability(item.ID)
	if err != nil {
		return nil, err
	}
	company, affiliate, err := p.saveCompanyGroup()
	if err != nil {
		return nil, err
	}
	var affiliateID *int64
	if affiliate != nil {
		affiliateID = &affiliate.ID
	}
	b, err := p.saveBooking(av.ID, company.ID, affiliateID)
	if err != nil {
		return nil, err
	}
	if _, err := p.saveContact(b.ID); err != nil {
		return nil, err
	}
	if _, err := p.saveCancellationPolicy(b.ID); err != nil {
		return nil, err
	}
	if err := p.saveCustomerGroup(b.ID, av.ID); err != nil {
		return nil, err
	}
	if err := p.saveCustomFieldGroup(av.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func (p *payloadProcessor) saveItem() (*models.Item, error) {
	if p.booking.Availability == nil {
		return nil, &MissingFieldError{Path: "booking.availability"}
	}
	itemData := p.booking.Availability.Item
	if itemData == nil {
		return nil, &MissingFieldError{Path: "booking.availability.item"}
	}
	pk, err := reqInt64(itemData.PK, "booking.availability.item.pk")
	if err != nil {
		return nil, err
	}
	return UpsertItem(p.tx, pk, itemData.Name, p.ts)
}

func (p *payloadProcessor) saveAvailability(itemID int64) (*models.Availability, error) {
	avData := p.booking.Availability
	pk, err := reqInt64(avData.PK, "booking.availability.pk")
	if err != nil {
		return nil, err
	}
	capacity, err := reqInt(avData.Capacity, "booking.availability.capacity")
	if err != nil {
		return nil, err
	}
	startAt, err := reqTime(avData.StartAt, "booking.availability.start_at")
	if err != nil {
		return nil, err
	}
	endAt, err := reqTime(avData.EndAt, "booking.availability.end_at")
	if err != nil {
		return nil, err
	}
	return UpsertAvailability(p.tx, &models.Availability{
		ID:               pk,
		Capacity:         capacity,
		MinimumPartySize: avData.MinimumPartySize,
		MaximumPartySize: avData.MaximumPartySize,
		StartAt:          startAt,
		EndAt:            endAt,
		Headline:         avData.Headline,
		ItemID:           itemID,
	}, p.ts)
}

// saveCompanyGroup saves the owner company and, when present, the affiliate
// one. The affiliate may be entirely absent, in which case the second return
// is nil and the booking's affiliate id stays null downstream.
func (p *payloadProcessor) saveCompanyGroup() (*models.Company, *models.Company, error) {
	company, err := p.saveCompany(p.booking.Company, "booking.company")
	if err != nil {
		return nil, nil, err
	}
	if company == nil {
		return nil, nil, &MissingFieldError{Path: "booking.company"}
	}
	affiliate, err := p.saveCompany(p.booking.AffiliateCompany, "booking.affiliate_company")
	if err != nil {
		return nil, nil, err
	}
	return company, affiliate, nil
}

func (p *payloadProcessor) saveCompany(cData *types.CompanyPayload, path string) (*models.Company, error) {
	if cData == nil {
		return nil, nil
	}
	// FH friends were a bit sloppy here: the key arrives spelled both ways.
	shortName := cData.ShortNameAlias()
	if shortName == nil {
		return nil, &MissingFieldError{Path: path + ".shortname"}
	}
	name, err := reqString(cData.Name, path+".name")
	if err != nil {
		return nil, err
	}
	currency, err := reqString(cData.Currency, path+".currency")
	if err != nil {
		return nil, err
	}
	return UpsertCompany(p.tx, name, *shortName, currency, p.ts)
}

// DeriveCreatedBy encodes the business rule for the created_by column: the
// affiliate short name when an affiliate company booked, the literal "staff"
// otherwise.
func DeriveCreatedBy(affiliate *types.CompanyPayload) string {
	if affiliate == nil {
		return "staff"
	}
	if shortName := affiliate.ShortNameAlias(); shortName != nil {
		return *shortName
	}
	return "staff"
}

func (p *payloadProcessor) saveBooking(avID, companyID int64, affiliateCompanyID *int64) (*models.Booking, error) {
	bData := p.booking
	pk, err := reqInt64(bData.PK, "booking.pk")
	if err != nil {
		return nil, err
	}
	displayID, err := reqString(bData.DisplayID, "booking.display_id")
	if err != nil {
		return nil, err
	}
	customerCount, err := reqInt(bData.CustomerCount, "booking.customer_count")
	if err != nil {
		return nil, err
	}
	uuid, err := reqString(bData.UUID, "booking.uuid")
	if err != nil {
		return nil, err
	}

	var order *string
	if len(bData.Order) > 0 && string(bData.Order) != "null" {
		raw := string(bData.Order)
		order = &raw
	}

	return UpsertBooking(p.tx, &models.Booking{
		ID:                 pk,
		VoucherNumber:      bData.VoucherNumber,
		DisplayID:          displayID,
		NoteSafeHTML:       bData.NoteSafeHTML,
		Agent:              bData.Agent,
		ConfirmationURL:    bData.ConfirmationURL,
		CustomerCount:      customerCount,
		UUID:               uuid,
		DashboardURL:       bData.DashboardURL,
		Note:               bData.Note,
		Pickup:             bData.Pickup,
		Status:             bData.Status,
		CreatedBy:          DeriveCreatedBy(bData.AffiliateCompany),
		AvailabilityID:     avID,
		CompanyID:          companyID,
		AffiliateCompanyID: affiliateCompanyID,

		ReceiptSubtotal: bData.ReceiptSubtotal,
		ReceiptTaxes:    bData.ReceiptTaxes,
		ReceiptTotal:    bData.ReceiptTotal,
		AmountPaid:      bData.AmountPaid,
		InvoicePrice:    bData.InvoicePrice,

		ReceiptSubtotalDisplay: bData.ReceiptSubtotalDisplay,
		ReceiptTaxesDisplay:    bData.ReceiptTaxesDisplay,
		ReceiptTotalDisplay:    bData.ReceiptTotalDisplay,
		AmountPaidDisplay:      bData.AmountPaidDisplay,
		InvoicePriceDisplay:    bData.InvoicePriceDisplay,

		Desk:                      bData.Desk,
		IsEligibleForCancellation: bData.IsEligibleForCancellation,
		IsSubscribedForSMSUpdates: bData.IsSubscribedForSMSUpdates,
		Arrival:                   bData.Arrival,
		RebookedTo:                bData.RebookedTo,
		RebookedFrom:              bData.RebookedFrom,
		ExternalID:                bData.ExternalID,
		Order:                     order,
	}, p.ts)
}

func (p *payloadProcessor) saveContact(bookingID int64) (*models.Contact, error) {
	cData := p.booking.Contact
	if cData == nil {
		return nil, &MissingFieldError{Path: "booking.contact"}
	}
	name, err := reqString(cData.Name, "booking.contact.name")
	if err != nil {
		return nil, err
	}
	optIn, err := reqBool(cData.IsSubscribedForEmailUpdates, "booking.contact.is_subscribed_for_email_updates")
	if err != nil {
		return nil, err
	}
	return UpsertContact(p.tx, &models.Contact{
		ID:                          bookingID,
		Name:                        name,
		Email:                       cData.Email,
		PhoneCountry:                cData.PhoneCountry,
		Phone:                       cData.Phone,
		NormalizedPhone:             cData.NormalizedPhone,
		Language:                    cData.Language,
		IsSubscribedForEmailUpdates: optIn,
	}, p.ts)
}

func (p *payloadProcessor) saveCancellationPolicy(bookingID int64) (*models.EffectiveCancellationPolicy, error) {
	cData := p.booking.EffectiveCancellationPolicy
	if cData == nil {
		return nil, &MissingFieldError{Path: "booking.effective_cancellation_policy"}
	}
	cancellationType, err := reqString(cData.Type, "booking.effective_cancellation_policy.type")
	if err != nil {
		return nil, err
	}
	return UpsertCancellationPolicy(p.tx, bookingID, cData.Cutoff, cancellationType, p.ts)
}

// saveCustomerGroup saves all the models hanging off the customer arrays.
// Customer type rates appear both directly under the availability and nested
// under each customer; the same type or prototype may repeat across rates and
// every sighting is saved again, idempotently.
func (p *payloadProcessor) saveCustomerGroup(bookingID, availabilityID int64) error {
	for i, ctrData := range p.booking.Availability.CustomerTypeRates {
		path := indexedPath("booking.availability.customer_type_rates", i)
		if _, err := p.saveRateWithDependencies(&ctrData, availabilityID, path); err != nil {
			return err
		}
	}

	for i, cData := range p.booking.Customers {
		path := indexedPath("booking.customers", i)
		if cData.CustomerTypeRate == nil {
			return &MissingFieldError{Path: path + ".customer_type_rate"}
		}
		ctr, err := p.saveRateWithDependencies(cData.CustomerTypeRate, availabilityID, path+".customer_type_rate")
		if err != nil {
			return err
		}

		var checkinStatusID *int64
		if csData := cData.CheckinStatus; csData != nil {
			cs, err := p.saveCheckinStatus(csData, path+".checkin_status")
			if err != nil {
				return err
			}
			checkinStatusID = &cs.ID
		}

		pk, err := reqInt64(cData.PK, path+".pk")
		if err != nil {
			return err
		}
		if _, err := UpsertCustomer(p.tx, &models.Customer{
			ID:                 pk,
			CheckinURL:         cData.CheckinURL,
			CheckinStatusID:    checkinStatusID,
			CustomerTypeRateID: ctr.ID,
			BookingID:          bookingID,
		}, p.ts); err != nil {
			return err
		}
	}
	return nil
}

// saveRateWithDependencies resolves the customer type and prototype a rate
// points at and then upserts the rate itself.
func (p *payloadProcessor) saveRateWithDependencies(ctrData *types.CustomerTypeRatePayload, availabilityID int64, path string) (*models.CustomerTypeRate, error) {
	if ctrData.CustomerType == nil {
		return nil, &MissingFieldError{Path: path + ".customer_type"}
	}
	if ctrData.CustomerPrototype == nil {
		return nil, &MissingFieldError{Path: path + ".customer_prototype"}
	}
	ct, err := p.saveCustomerType(ctrData.CustomerType, path+".customer_type")
	if err != nil {
		return nil, err
	}
	cpt, err := p.saveCustomerPrototype(ctrData.CustomerPrototype, path+".customer_prototype")
	if err != nil {
		return nil, err
	}
	pk, err := reqInt64(ctrData.PK, path+".pk")
	if err != nil {
		return nil, err
	}
	return UpsertCustomerTypeRate(p.tx, &models.CustomerTypeRate{
		ID:                  pk,
		Capacity:            ctrData.Capacity,
		MinimumPartySize:    ctrData.MinimumPartySize,
		MaximumPartySize:    ctrData.MaximumPartySize,
		Total:               ctrData.Total,
		TotalIncludingTax:   ctrData.TotalIncludingTax,
		AvailabilityID:      availabilityID,
		CustomerPrototypeID: cpt.ID,
		CustomerTypeID:      ct.ID,
	}, p.ts)
}

func (p *payloadProcessor) saveCustomerType(ctData *types.CustomerTypePayload, path string) (*models.CustomerType, error) {
	pk, err := reqInt64(ctData.PK, path+".pk")
	if err != nil {
		return nil, err
	}
	singular, err := reqString(ctData.Singular, path+".singular")
	if err != nil {
		return nil, err
	}
	plural, err := reqString(ctData.Plural, path+".plural")
	if err != nil {
		return nil, err
	}
	return UpsertCustomerType(p.tx, &models.CustomerType{
		ID:       pk,
		Note:     ctData.Note,
		Singular: singular,
		Plural:   plural,
	}, p.ts)
}

func (p *payloadProcessor) saveCustomerPrototype(cptData *types.CustomerPrototypePayload, path string) (*models.CustomerPrototype, error) {
	pk, err := reqInt64(cptData.PK, path+".pk")
	if err != nil {
		return nil, err
	}
	displayName, err := reqString(cptData.DisplayName, path+".display_name")
	if err != nil {
		return nil, err
	}
	return UpsertCustomerPrototype(p.tx, &models.CustomerPrototype{
		ID:                pk,
		Total:             cptData.Total,
		TotalIncludingTax: cptData.TotalIncludingTax,
		DisplayName:       displayName,
		Note:              cptData.Note,
	}, p.ts)
}

func (p *payloadProcessor) saveCheckinStatus(csData *types.CheckinStatusPayload, path string) (*models.CheckinStatus, error) {
	pk, err := reqInt64(csData.PK, path+".pk")
	if err != nil {
		return nil, err
	}
	return UpsertCheckinStatus(p.tx, pk, csData.Type, csData.Name, p.ts)
}

// saveCustomFieldGroup saves the custom fields contained in the data.
//
// Location of custom fields inside booking:
//
//	customers[].custom_field_values[].custom_field.extended_options[]
//	custom_field_values[].custom_field.extended_options[]
//	availability.customer_type_rates[].custom_field_instances[].custom_field.extended_options[]
//	availability.custom_field_instances[].custom_field.extended_options[]
//
// Instances attach to a customer type rate or to the availability; values
// attach to the booking or to a customer. Exactly one parent each.
func (p *payloadProcessor) saveCustomFieldGroup(availabilityID int64) error {
	bData := p.booking
	for i, ctrData := range bData.Availability.CustomerTypeRates {
		ctrPath := indexedPath("booking.availability.customer_type_rates", i)
		ratePK, err := reqInt64(ctrData.PK, ctrPath+".pk")
		if err != nil {
			return err
		}
		for j, cfiData := range ctrData.CustomFieldInstances {
			path := indexedPath(ctrPath+".custom_field_instances", j)
			if err := p.saveInstanceWithFamily(&cfiData, nil, &ratePK, path); err != nil {
				return err
			}
		}
	}

	for i, cfiData := range bData.Availability.CustomFieldInstances {
		path := indexedPath("booking.availability.custom_field_instances", i)
		if err := p.saveInstanceWithFamily(&cfiData, &availabilityID, nil, path); err != nil {
			return err
		}
	}

	bookingPK := *bData.PK
	for i, cfvData := range bData.CustomFieldValues {
		path := indexedPath("booking.custom_field_values", i)
		if err := p.saveValueWithFamily(&cfvData, &bookingPK, nil, path); err != nil {
			return err
		}
	}

	for i, cData := range bData.Customers {
		customerPath := indexedPath("booking.customers", i)
		customerPK, err := reqInt64(cData.PK, customerPath+".pk")
		if err != nil {
			return err
		}
		for j, cfvData := range cData.CustomFieldValues {
			path := indexedPath(customerPath+".custom_field_values", j)
			if err := p.saveValueWithFamily(&cfvData, nil, &customerPK, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *payloadProcessor) saveInstanceWithFamily(cfiData *types.CustomFieldInstancePayload, availabilityID, customerTypeRateID *int64, path string) error {
	if cfiData.CustomField == nil {
		return &MissingFieldError{Path: path + ".custom_field"}
	}
	cf, err := p.saveCustomFieldFamily(cfiData.CustomField, path+".custom_field")
	if err != nil {
		return err
	}
	pk, err := reqInt64(cfiData.PK, path+".pk")
	if err != nil {
		return err
	}
	_, err = UpsertCustomFieldInstance(p.tx, &models.CustomFieldInstance{
		ID:                 pk,
		CustomFieldID:      cf.ID,
		AvailabilityID:     availabilityID,
		CustomerTypeRateID: customerTypeRateID,
	}, p.ts)
	return err
}

func (p *payloadProcessor) saveValueWithFamily(cfvData *types.CustomFieldValuePayload, bookingID, customerID *int64, path string) error {
	if cfvData.CustomField == nil {
		return &MissingFieldError{Path: path + ".custom_field"}
	}
	cf, err := p.saveCustomFieldFamily(cfvData.CustomField, path+".custom_field")
	if err != nil {
		return err
	}
	pk, err := reqInt64(cfvData.PK, path+".pk")
	if err != nil {
		return err
	}
	name, err := reqString(cfvData.Name, path+".name")
	if err != nil {
		return err
	}
	_, err = UpsertCustomFieldValue(p.tx, &models.CustomFieldValue{
		ID:            pk,
		Name:          name,
		Value:         cfvData.Value,
		DisplayValue:  cfvData.DisplayValue,
		CustomFieldID: cf.ID,
		BookingID:     bookingID,
		CustomerID:    customerID,
	}, p.ts)
	return err
}

// saveCustomFieldFamily saves a custom field with its descendants: the
// extended options, each a reduced instance of the parent object. Some
// parents have no children, so an absent extended_options key is skipped
// silently.
func (p *payloadProcessor) saveCustomFieldFamily(cfData *types.CustomFieldPayload, path string) (*models.CustomField, error) {
	cf, err := p.saveCustomField(cfData, nil, path)
	if err != nil {
		return nil, err
	}
	for i, optionData := range cfData.ExtendedOptions {
		optionData := optionData
		if _, err := p.saveCustomField(&optionData, &cf.ID, indexedPath(path+".extended_options", i)); err != nil {
			return nil, err
		}
	}
	return cf, nil
}

// saveCustomField saves one custom field row. Extended option rows carry the
// parent id in extended_options and a strict subset of the attributes: title,
// field type and booking notes stay empty and is_required is pinned false.
func (p *payloadProcessor) saveCustomField(cfData *types.CustomFieldPayload, parentID *int64, path string) (*models.CustomField, error) {
	pk, err := reqInt64(cfData.PK, path+".pk")
	if err != nil {
		return nil, err
	}
	name, err := reqString(cfData.Name, path+".name")
	if err != nil {
		return nil, err
	}
	modifierKind, err := reqString(cfData.ModifierKind, path+".modifier_kind")
	if err != nil {
		return nil, err
	}
	modifierType, err := reqString(cfData.ModifierType, path+".modifier_type")
	if err != nil {
		return nil, err
	}

	var (
		title                *string
		fieldType            *string
		bookingNotes         *string
		bookingNotesSafeHTML *string
		isRequired           *bool
	)
	if parentID != nil {
		isRequired = boolPtr(false)
	} else {
		title = cfData.Title
		fieldType = cfData.Type
		bookingNotes = cfData.BookingNotes
		bookingNotesSafeHTML = cfData.BookingNotesSafeHTML
		isRequired = cfData.IsRequired
	}

	return UpsertCustomField(p.tx, &models.CustomField{
		ID:                   pk,
		Title:                title,
		Name:                 name,
		ModifierKind:         modifierKind,
		ModifierType:         modifierType,
		FieldType:            fieldType,
		Offset:               cfData.Offset,
		Percentage:           cfData.Percentage,
		Description:          cfData.Description,
		BookingNotes:         bookingNotes,
		DescriptionSafeHTML:  cfData.DescriptionSafeHTML,
		BookingNotesSafeHTML: bookingNotesSafeHTML,
		IsRequired:           isRequired,
		IsTaxable:            cfData.IsTaxable,
		IsAlwaysPerCustomer:  cfData.IsAlwaysPerCustomer,
		ExtendedOptions:      parentID,
	}, p.ts)
}
