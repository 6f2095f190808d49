package services

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nablabits/fareharbor-webhook/database"
	"github.com/nablabits/fareharbor-webhook/models"
	"github.com/nablabits/fareharbor-webhook/types"
)

var testDBSeq int64

// newTestDB opens a private in-memory database with the full schema. The
// shared cache keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts.UTC()
}

// sampleBookingJSON is a representative webhook delivery: a two person urban
// bike rental with a checked-in customer, a booking level custom field value
// and an extended-option custom field on the availability.
const sampleBookingJSON = `{
  "booking": {
    "pk": 75125154,
    "voucher_number": "",
    "display_id": "#75125154",
    "note_safe_html": "",
    "agent": null,
    "confirmation_url": "https://fareharbor.com/embeds/book/tourne/items/159068/booking/08fc1e92/",
    "customer_count": 2,
    "uuid": "08fc1e92-e6ff-4d7a-a0a8-51e5a8236888",
    "dashboard_url": "https://fareharbor.com/tourne/dashboard/bookings/75125154/",
    "note": "",
    "pickup": null,
    "status": "booked",
    "receipt_subtotal": 2480,
    "receipt_taxes": 0,
    "receipt_total": 2480,
    "amount_paid": 2480,
    "invoice_price": null,
    "receipt_subtotal_display": "24.80 €",
    "receipt_taxes_display": "0 €",
    "receipt_total_display": "24.80 €",
    "amount_paid_display": "24.80 €",
    "invoice_price_display": null,
    "desk": null,
    "is_eligible_for_cancellation": true,
    "is_subscribed_for_sms_updates": false,
    "arrival": null,
    "rebooked_to": null,
    "rebooked_from": null,
    "external_id": "",
    "order": null,
    "availability": {
      "pk": 619118440,
      "capacity": 10,
      "minimum_party_size": 1,
      "maximum_party_size": null,
      "start_at": "2021-08-10T10:00:00+02:00",
      "end_at": "2021-08-10T12:00:00+02:00",
      "headline": "Alquiler urbana",
      "item": {
        "pk": 159068,
        "name": "Alquiler Urbana"
      },
      "customer_type_rates": [
        {
          "pk": 2576873546,
          "capacity": 10,
          "minimum_party_size": null,
          "maximum_party_size": null,
          "total": 1240,
          "total_including_tax": 1240,
          "customer_prototype": {
            "pk": 655990,
            "note": "",
            "total": 1240,
            "total_including_tax": 1240,
            "display_name": "Adultos"
          },
          "customer_type": {
            "pk": 314999,
            "note": "8 horas",
            "singular": "Adult",
            "plural": "Adults"
          },
          "custom_field_instances": []
        }
      ],
      "custom_field_instances": [
        {
          "pk": 700001,
          "custom_field": {
            "pk": 800002,
            "title": "Tipo de bici",
            "name": "bike-type",
            "modifier_kind": "none",
            "modifier_type": "none",
            "type": "extended-option",
            "offset": 0,
            "percentage": 0,
            "description": "",
            "booking_notes": "",
            "description_safe_html": "",
            "booking_notes_safe_html": "",
            "is_required": true,
            "is_taxable": false,
            "is_always_per_customer": false,
            "extended_options": [
              {
                "pk": 800003,
                "name": "urbana",
                "modifier_kind": "offset",
                "modifier_type": "none",
                "offset": 0,
                "percentage": 0,
                "description": "",
                "description_safe_html": "",
                "is_taxable": false,
                "is_always_per_customer": false
              }
            ]
          }
        }
      ]
    },
    "company": {
      "name": "Tourne",
      "shortname": "tourne",
      "currency": "eur"
    },
    "affiliate_company": null,
    "effective_cancellation_policy": {
      "cutoff": "2021-08-09T10:00:00+02:00",
      "type": "hours-before-start"
    },
    "contact": {
      "name": "Ada Lovelace",
      "email": "ada@example.com",
      "phone_country": "ES",
      "phone": "600 000 000",
      "normalized_phone": "+34600000000",
      "language": "es",
      "is_subscribed_for_email_updates": false
    },
    "customers": [
      {
        "pk": 244773033,
        "checkin_url": "https://fhchk.co/aaaa",
        "checkin_status": {
          "pk": 5050,
          "type": "checked-in",
          "name": "checked in"
        },
        "customer_type_rate": {
          "pk": 2576873546,
          "capacity": 10,
          "total": 1240,
          "total_including_tax": 1240,
          "customer_prototype": {
            "pk": 655990,
            "note": "",
            "total": 1240,
            "total_including_tax": 1240,
            "display_name": "Adultos"
          },
          "customer_type": {
            "pk": 314999,
            "note": "8 horas",
            "singular": "Adult",
            "plural": "Adults"
          },
          "custom_field_instances": []
        },
        "custom_field_values": [
          {
            "pk": 900002,
            "name": "Casco",
            "value": "yes",
            "display_value": "yes",
            "custom_field": {
              "pk": 800004,
              "title": "Casco",
              "name": "helmet",
              "modifier_kind": "none",
              "modifier_type": "none",
              "type": "yes-no",
              "is_required": false,
              "is_taxable": false,
              "is_always_per_customer": true
            }
          }
        ]
      },
      {
        "pk": 244773034,
        "checkin_url": "https://fhchk.co/bbbb",
        "checkin_status": null,
        "customer_type_rate": {
          "pk": 2576873546,
          "capacity": 10,
          "total": 1240,
          "total_including_tax": 1240,
          "customer_prototype": {
            "pk": 655990,
            "note": "",
            "total": 1240,
            "total_including_tax": 1240,
            "display_name": "Adultos"
          },
          "customer_type": {
            "pk": 314999,
            "note": "8 horas",
            "singular": "Adult",
            "plural": "Adults"
          },
          "custom_field_instances": []
        },
        "custom_field_values": []
      }
    ],
    "custom_field_values": [
      {
        "pk": 900001,
        "name": "Mensaje",
        "value": "llegamos tarde",
        "display_value": "llegamos tarde",
        "custom_field": {
          "pk": 800001,
          "title": "Mensaje",
          "name": "message",
          "modifier_kind": "none",
          "modifier_type": "none",
          "type": "long-text",
          "is_required": false,
          "is_taxable": false,
          "is_always_per_customer": false
        }
      }
    ]
  }
}`

func sampleDocument(t *testing.T) *types.WebhookDocument {
	t.Helper()
	var doc types.WebhookDocument
	require.NoError(t, json.Unmarshal([]byte(sampleBookingJSON), &doc))
	return &doc
}

func countRows[T any](t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var model T
	var count int64
	require.NoError(t, db.Model(&model).Count(&count).Error)
	return count
}

// seedBooking inserts a minimal but consistent booking graph straight through
// the resolvers. Fields the caller cares about travel in the spec struct.
type bookingSpec struct {
	bookingID      int64
	availabilityID int64
	itemID         int64
	customerCount  int
	status         string
	startAt        time.Time
	endAt          time.Time
	contactName    string
	rebookedTo     *string
}

func seedBooking(t *testing.T, db *gorm.DB, spec bookingSpec, ts time.Time) *models.Booking {
	t.Helper()
	_, err := UpsertItem(db, spec.itemID, strPtr(fmt.Sprintf("Item %d", spec.itemID)), ts)
	require.NoError(t, err)
	_, err = UpsertAvailability(db, &models.Availability{
		ID:       spec.availabilityID,
		Capacity: 10,
		StartAt:  spec.startAt,
		EndAt:    spec.endAt,
		ItemID:   spec.itemID,
	}, ts)
	require.NoError(t, err)
	company, err := UpsertCompany(db, "Tourne", "tourne", "eur", ts)
	require.NoError(t, err)
	booking, err := UpsertBooking(db, &models.Booking{
		ID:             spec.bookingID,
		DisplayID:      fmt.Sprintf("#%d", spec.bookingID),
		CustomerCount:  spec.customerCount,
		UUID:           fmt.Sprintf("uuid-%d", spec.bookingID),
		Status:         &spec.status,
		CreatedBy:      "staff",
		AvailabilityID: spec.availabilityID,
		CompanyID:      company.ID,
		RebookedTo:     spec.rebookedTo,
	}, ts)
	require.NoError(t, err)
	if spec.contactName != "" {
		_, err = UpsertContact(db, &models.Contact{
			ID:   spec.bookingID,
			Name: spec.contactName,
		}, ts)
		require.NoError(t, err)
	}
	return booking
}

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }
