package services

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"gorm.io/gorm"

	"github.com/nablabits/fareharbor-webhook/models"
)

// One upsert resolver per entity type. Each resolver looks the entity up by
// its natural key, overwrites every mapped field when it exists (a full
// replace, not a merge: nil optionals become NULL) and inserts it otherwise.
// created_at is only written on first sight; updated_at advances to the
// processing timestamp on every touch. Exactly one write per call.

// UpsertItem creates or overwrites an item row.
func UpsertItem(db *gorm.DB, itemID int64, name *string, ts time.Time) (*models.Item, error) {
	existing, err := GetOrNone[models.Item](db, itemID)
	if err != nil {
		return nil, err
	}
	item := &models.Item{
		ID:   itemID,
		Name: name,
	}
	return item, persist(db, item, &item.CreatedAt, &item.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertAvailability creates or overwrites an availability row.
func UpsertAvailability(db *gorm.DB, av *models.Availability, ts time.Time) (*models.Availability, error) {
	existing, err := GetOrNone[models.Availability](db, av.ID)
	if err != nil {
		return nil, err
	}
	return av, persist(db, av, &av.CreatedAt, &av.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertBooking creates or overwrites a booking row.
func UpsertBooking(db *gorm.DB, b *models.Booking, ts time.Time) (*models.Booking, error) {
	existing, err := GetOrNone[models.Booking](db, b.ID)
	if err != nil {
		return nil, err
	}
	return b, persist(db, b, &b.CreatedAt, &b.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCompany creates or overwrites a company row, keyed by short_name
// since the source system supplies no stable numeric id for companies.
func UpsertCompany(db *gorm.DB, name, shortName, currency string, ts time.Time) (*models.Company, error) {
	existing, err := GetCompanyOrNone(db, shortName)
	if err != nil {
		return nil, err
	}
	company := &models.Company{
		Name:      name,
		ShortName: shortName,
		Currency:  currency,
	}
	if existing != nil {
		company.ID = existing.ID
	}
	return company, persist(db, company, &company.CreatedAt, &company.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertContact creates or overwrites the contact of a booking. Contacts are
// 1:1 with bookings and share the booking id as primary key.
func UpsertContact(db *gorm.DB, contact *models.Contact, ts time.Time) (*models.Contact, error) {
	existing, err := GetOrNone[models.Contact](db, contact.ID)
	if err != nil {
		return nil, err
	}
	return contact, persist(db, contact, &contact.CreatedAt, &contact.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCancellationPolicy creates or overwrites the cancellation policy of a
// booking, with the same id-sharing pattern as contacts.
func UpsertCancellationPolicy(db *gorm.DB, bookingID int64, cutoff *time.Time, cancellationType string, ts time.Time) (*models.EffectiveCancellationPolicy, error) {
	existing, err := GetOrNone[models.EffectiveCancellationPolicy](db, bookingID)
	if err != nil {
		return nil, err
	}
	cp := &models.EffectiveCancellationPolicy{
		ID:               bookingID,
		Cutoff:           cutoff,
		CancellationType: cancellationType,
	}
	return cp, persist(db, cp, &cp.CreatedAt, &cp.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCheckinStatus creates or overwrites a checkin status row.
func UpsertCheckinStatus(db *gorm.DB, id int64, statusType, name *string, ts time.Time) (*models.CheckinStatus, error) {
	existing, err := GetOrNone[models.CheckinStatus](db, id)
	if err != nil {
		return nil, err
	}
	cs := &models.CheckinStatus{
		ID:                id,
		CheckinStatusType: statusType,
		Name:              name,
	}
	return cs, persist(db, cs, &cs.CreatedAt, &cs.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomerType creates or overwrites a customer type row.
func UpsertCustomerType(db *gorm.DB, ct *models.CustomerType, ts time.Time) (*models.CustomerType, error) {
	existing, err := GetOrNone[models.CustomerType](db, ct.ID)
	if err != nil {
		return nil, err
	}
	return ct, persist(db, ct, &ct.CreatedAt, &ct.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomerPrototype creates or overwrites a customer prototype row.
func UpsertCustomerPrototype(db *gorm.DB, cpt *models.CustomerPrototype, ts time.Time) (*models.CustomerPrototype, error) {
	existing, err := GetOrNone[models.CustomerPrototype](db, cpt.ID)
	if err != nil {
		return nil, err
	}
	return cpt, persist(db, cpt, &cpt.CreatedAt, &cpt.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomerTypeRate creates or overwrites a customer type rate row. The
// same rate appears many times per document; every sighting is a blind
// last-write-wins overwrite.
func UpsertCustomerTypeRate(db *gorm.DB, ctr *models.CustomerTypeRate, ts time.Time) (*models.CustomerTypeRate, error) {
	existing, err := GetOrNone[models.CustomerTypeRate](db, ctr.ID)
	if err != nil {
		return nil, err
	}
	return ctr, persist(db, ctr, &ctr.CreatedAt, &ctr.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomer creates or overwrites a customer row.
func UpsertCustomer(db *gorm.DB, customer *models.Customer, ts time.Time) (*models.Customer, error) {
	existing, err := GetOrNone[models.Customer](db, customer.ID)
	if err != nil {
		return nil, err
	}
	return customer, persist(db, customer, &customer.CreatedAt, &customer.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomField creates or overwrites a custom field row. Extended option
// rows arrive with the reduced attribute set already applied by the caller.
func UpsertCustomField(db *gorm.DB, cf *models.CustomField, ts time.Time) (*models.CustomField, error) {
	existing, err := GetOrNone[models.CustomField](db, cf.ID)
	if err != nil {
		return nil, err
	}
	return cf, persist(db, cf, &cf.CreatedAt, &cf.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomFieldInstance creates or overwrites a custom field instance
// after checking the availability XOR customer type rate invariant.
func UpsertCustomFieldInstance(db *gorm.DB, cfi *models.CustomFieldInstance, ts time.Time) (*models.CustomFieldInstance, error) {
	if err := cfi.Validate(); err != nil {
		return nil, &InvariantViolationError{Entity: cfi.TableName(), Err: err}
	}
	existing, err := GetOrNone[models.CustomFieldInstance](db, cfi.ID)
	if err != nil {
		return nil, err
	}
	return cfi, persist(db, cfi, &cfi.CreatedAt, &cfi.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertCustomFieldValue creates or overwrites a custom field value after
// checking the booking XOR customer invariant.
func UpsertCustomFieldValue(db *gorm.DB, cfv *models.CustomFieldValue, ts time.Time) (*models.CustomFieldValue, error) {
	if err := cfv.Validate(); err != nil {
		return nil, &InvariantViolationError{Entity: cfv.TableName(), Err: err}
	}
	existing, err := GetOrNone[models.CustomFieldValue](db, cfv.ID)
	if err != nil {
		return nil, err
	}
	return cfv, persist(db, cfv, &cfv.CreatedAt, &cfv.UpdatedAt, existing == nil, createdAt(existing), ts)
}

// UpsertBike creates or overwrites a bike row, keyed by readable name so the
// inventory file can be reloaded without spawning duplicates.
func UpsertBike(db *gorm.DB, uuid, readableName string, ts time.Time) (*models.Bike, error) {
	var existing models.Bike
	err := db.Where("readable_name = ?", readableName).First(&existing).Error
	if err == nil {
		existing.UUID = uuid
		existing.UpdatedAt = ts
		if err := db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("save bike: %w", err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("entity store lookup: %w", err)
	}
	bike := &models.Bike{
		UUID:         uuid,
		ReadableName: readableName,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := db.Create(bike).Error; err != nil {
		return nil, fmt.Errorf("create bike: %w", err)
	}
	return bike, nil
}

// CreateStoredRequest records one inbound payload before normalization.
func CreateStoredRequest(db *gorm.DB, requestID int64, filename, body string, ts time.Time) (*models.StoredRequest, error) {
	sr := &models.StoredRequest{
		ID:        requestID,
		Filename:  filename,
		Body:      body,
		Timestamp: ts,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := db.Create(sr).Error; err != nil {
		return nil, fmt.Errorf("create stored request: %w", err)
	}
	return sr, nil
}

// CloseStoredRequest marks a stored request as fully processed.
func CloseStoredRequest(db *gorm.DB, sr *models.StoredRequest, ts time.Time) (*models.StoredRequest, error) {
	sr.ProcessedAt = &ts
	sr.UpdatedAt = ts
	if err := db.Save(sr).Error; err != nil {
		return nil, fmt.Errorf("close stored request: %w", err)
	}
	return sr, nil
}

// DeleteItem removes an item; administrative use only.
func DeleteItem(db *gorm.DB, itemID int64) error {
	return deleteEntity[models.Item](db, itemID)
}

// DeleteBooking removes a booking; administrative use only.
func DeleteBooking(db *gorm.DB, bookingID int64) error {
	return deleteEntity[models.Booking](db, bookingID)
}

// DeleteCustomerPrototype removes a customer prototype; administrative use
// only.
func DeleteCustomerPrototype(db *gorm.DB, id int64) error {
	return deleteEntity[models.CustomerPrototype](db, id)
}

// DeleteCustomField removes a custom field; administrative use only.
func DeleteCustomField(db *gorm.DB, id int64) error {
	return deleteEntity[models.CustomField](db, id)
}

func deleteEntity[T any](db *gorm.DB, key any) error {
	obj, err := GetOrFail[T](db, key)
	if err != nil {
		return err
	}
	if err := db.Delete(obj).Error; err != nil {
		return fmt.Errorf("delete %s: %w", entityName[T](), err)
	}
	return nil
}

// persist applies the shared create-vs-update timestamp policy and issues the
// single write of the resolver.
func persist[T any](db *gorm.DB, entity *T, created, updated *time.Time, isNew bool, existingCreated time.Time, ts time.Time) error {
	*updated = ts
	if isNew {
		*created = ts
		if err := db.Create(entity).Error; err != nil {
			return fmt.Errorf("create %s: %w", entityName[T](), err)
		}
		return nil
	}
	*created = existingCreated
	if err := db.Save(entity).Error; err != nil {
		return fmt.Errorf("save %s: %w", entityName[T](), err)
	}
	return nil
}

// createdAt reads the CreatedAt column off an existing row, tolerating nil
// lookups so resolvers can call persist in one line.
func createdAt[T any](existing *T) time.Time {
	if existing == nil {
		return time.Time{}
	}
	f := reflect.ValueOf(existing).Elem().FieldByName("CreatedAt")
	if !f.IsValid() {
		return time.Time{}
	}
	t, _ := f.Interface().(time.Time)
	return t
}
