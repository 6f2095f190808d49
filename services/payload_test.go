package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nablabits/fareharbor-webhook/models"
	"github.com/nablabits/fareharbor-webhook/types"
)

func TestProcessPayloadCreatesFullGraph(t *testing.T) {
	db := newTestDB(t)
	ts := testTime(t, "2021-08-10T08:00:00Z")

	booking, err := ProcessPayload(db, sampleDocument(t), ts)
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, int64(75125154), booking.ID)
	assert.Equal(t, int64(619118440), booking.AvailabilityID)
	assert.Equal(t, "staff", booking.CreatedBy)

	assert.Equal(t, int64(1), countRows[models.Item](t, db))
	assert.Equal(t, int64(1), countRows[models.Availability](t, db))
	assert.Equal(t, int64(1), countRows[models.Company](t, db))
	assert.Equal(t, int64(1), countRows[models.Booking](t, db))
	assert.Equal(t, int64(1), countRows[models.Contact](t, db))
	assert.Equal(t, int64(1), countRows[models.EffectiveCancellationPolicy](t, db))
	assert.Equal(t, int64(2), countRows[models.Customer](t, db))
	assert.Equal(t, int64(1), countRows[models.CheckinStatus](t, db))

	// The same rate appears three times in the document but lands once
	assert.Equal(t, int64(1), countRows[models.CustomerTypeRate](t, db))
	assert.Equal(t, int64(1), countRows[models.CustomerType](t, db))
	assert.Equal(t, int64(1), countRows[models.CustomerPrototype](t, db))

	// Three standalone fields plus one extended option
	assert.Equal(t, int64(4), countRows[models.CustomField](t, db))
	assert.Equal(t, int64(1), countRows[models.CustomFieldInstance](t, db))
	assert.Equal(t, int64(2), countRows[models.CustomFieldValue](t, db))

	item, err := GetOrFail[models.Item](db, int64(159068))
	require.NoError(t, err)
	require.NotNil(t, item.Name)
	assert.Equal(t, "Alquiler Urbana", *item.Name)

	contact, err := GetOrFail[models.Contact](db, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", contact.Name)

	policy, err := GetOrFail[models.EffectiveCancellationPolicy](db, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "hours-before-start", policy.CancellationType)

	customer, err := GetOrFail[models.Customer](db, int64(244773033))
	require.NoError(t, err)
	assert.Equal(t, booking.ID, customer.BookingID)
	require.NotNil(t, customer.CheckinStatusID)
	assert.Equal(t, int64(5050), *customer.CheckinStatusID)
	assert.Equal(t, int64(2576873546), customer.CustomerTypeRateID)

	second, err := GetOrFail[models.Customer](db, int64(244773034))
	require.NoError(t, err)
	assert.Nil(t, second.CheckinStatusID)
}

func TestProcessPayloadCustomFieldFamily(t *testing.T) {
	db := newTestDB(t)
	ts := testTime(t, "2021-08-10T08:00:00Z")

	_, err := ProcessPayload(db, sampleDocument(t), ts)
	require.NoError(t, err)

	parent, err := GetOrFail[models.CustomField](db, int64(800002))
	require.NoError(t, err)
	assert.Nil(t, parent.ExtendedOptions)
	require.NotNil(t, parent.Title)
	assert.Equal(t, "Tipo de bici", *parent.Title)
	require.NotNil(t, parent.IsRequired)
	assert.True(t, *parent.IsRequired)

	// The option row points at its parent and carries the reduced shape
	option, err := GetOrFail[models.CustomField](db, int64(800003))
	require.NoError(t, err)
	require.NotNil(t, option.ExtendedOptions)
	assert.Equal(t, parent.ID, *option.ExtendedOptions)
	assert.Nil(t, option.Title)
	assert.Nil(t, option.FieldType)
	require.NotNil(t, option.IsRequired)
	assert.False(t, *option.IsRequired)

	instance, err := GetOrFail[models.CustomFieldInstance](db, int64(700001))
	require.NoError(t, err)
	assert.Equal(t, parent.ID, instance.CustomFieldID)
	require.NotNil(t, instance.AvailabilityID)
	assert.Equal(t, int64(619118440), *instance.AvailabilityID)
	assert.Nil(t, instance.CustomerTypeRateID)

	bookingValue, err := GetOrFail[models.CustomFieldValue](db, int64(900001))
	require.NoError(t, err)
	require.NotNil(t, bookingValue.BookingID)
	assert.Equal(t, int64(75125154), *bookingValue.BookingID)
	assert.Nil(t, bookingValue.CustomerID)

	customerValue, err := GetOrFail[models.CustomFieldValue](db, int64(900002))
	require.NoError(t, err)
	require.NotNil(t, customerValue.CustomerID)
	assert.Equal(t, int64(244773033), *customerValue.CustomerID)
	assert.Nil(t, customerValue.BookingID)
}

func TestProcessPayloadIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ts1 := testTime(t, "2021-08-10T08:00:00Z")
	ts2 := testTime(t, "2021-08-11T08:00:00Z")

	_, err := ProcessPayload(db, sampleDocument(t), ts1)
	require.NoError(t, err)
	_, err = ProcessPayload(db, sampleDocument(t), ts2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRows[models.Booking](t, db))
	assert.Equal(t, int64(2), countRows[models.Customer](t, db))
	assert.Equal(t, int64(1), countRows[models.CustomerTypeRate](t, db))
	assert.Equal(t, int64(4), countRows[models.CustomField](t, db))

	booking, err := GetOrFail[models.Booking](db, int64(75125154))
	require.NoError(t, err)
	assert.Equal(t, ts1.Unix(), booking.CreatedAt.Unix())
	assert.Equal(t, ts2.Unix(), booking.UpdatedAt.Unix())
}

func TestProcessPayloadEmptyDocument(t *testing.T) {
	db := newTestDB(t)
	ts := testTime(t, "2021-08-10T08:00:00Z")

	_, err := ProcessPayload(db, nil, ts)
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = ProcessPayload(db, &types.WebhookDocument{}, ts)
	assert.ErrorIs(t, err, ErrEmptyPayload)
}

func TestProcessPayloadMissingFieldRollsBack(t *testing.T) {
	db := newTestDB(t)
	ts := testTime(t, "2021-08-10T08:00:00Z")

	doc := sampleDocument(t)
	doc.Booking.DisplayID = nil

	_, err := ProcessPayload(db, doc, ts)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "booking.display_id", missing.Path)

	// Item and availability were saved before the failure; the transaction
	// must have taken them back out.
	assert.Equal(t, int64(0), countRows[models.Item](t, db))
	assert.Equal(t, int64(0), countRows[models.Availability](t, db))
	assert.Equal(t, int64(0), countRows[models.Booking](t, db))
}

func TestProcessPayloadMissingFieldPaths(t *testing.T) {
	mutations := map[string]func(*types.WebhookDocument){
		"booking.availability.item.pk": func(d *types.WebhookDocument) {
			d.Booking.Availability.Item.PK = nil
		},
		"booking.availability.start_at": func(d *types.WebhookDocument) {
			d.Booking.Availability.StartAt = nil
		},
		"booking.company.shortname": func(d *types.WebhookDocument) {
			d.Booking.Company.Shortname = nil
			d.Booking.Company.ShortName = nil
		},
		"booking.contact.name": func(d *types.WebhookDocument) {
			d.Booking.Contact.Name = nil
		},
		"booking.customers[0].customer_type_rate.customer_type.pk": func(d *types.WebhookDocument) {
			d.Booking.Customers[0].CustomerTypeRate.CustomerType.PK = nil
		},
		"booking.custom_field_values[0].custom_field.pk": func(d *types.WebhookDocument) {
			d.Booking.CustomFieldValues[0].CustomField.PK = nil
		},
	}

	for path, mutate := range mutations {
		t.Run(path, func(t *testing.T) {
			db := newTestDB(t)
			doc := sampleDocument(t)
			mutate(doc)

			_, err := ProcessPayload(db, doc, testTime(t, "2021-08-10T08:00:00Z"))
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, path, missing.Path)
		})
	}
}

func TestProcessPayloadWithAffiliate(t *testing.T) {
	db := newTestDB(t)
	ts := testTime(t, "2021-08-10T08:00:00Z")

	doc := sampleDocument(t)
	doc.Booking.AffiliateCompany = &types.CompanyPayload{
		Name:      strPtr("GetYourGuide"),
		ShortName: strPtr("gyg"),
		Currency:  strPtr("eur"),
	}

	booking, err := ProcessPayload(db, doc, ts)
	require.NoError(t, err)
	assert.Equal(t, "gyg", booking.CreatedBy)
	require.NotNil(t, booking.AffiliateCompanyID)
	assert.Equal(t, int64(2), countRows[models.Company](t, db))

	affiliate, err := GetCompanyOrFail(db, "gyg")
	require.NoError(t, err)
	assert.Equal(t, *booking.AffiliateCompanyID, affiliate.ID)
}

func TestDeriveCreatedBy(t *testing.T) {
	assert.Equal(t, "staff", DeriveCreatedBy(nil))
	assert.Equal(t, "staff", DeriveCreatedBy(&types.CompanyPayload{Name: strPtr("X")}))
	assert.Equal(t, "gyg", DeriveCreatedBy(&types.CompanyPayload{ShortName: strPtr("gyg")}))
	// shortname wins over short_name when both arrive
	assert.Equal(t, "new", DeriveCreatedBy(&types.CompanyPayload{
		ShortName: strPtr("old"),
		Shortname: strPtr("new"),
	}))
}
