package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nablabits/fareharbor-webhook/models"
	"github.com/nablabits/fareharbor-webhook/types"
)

// BikeTrackerItems holds the item allow-lists the tracker cares about. Tours
// occupy bikes for the availability window; rentals last half-hour
// availabilities whose real duration is carried by the customer type.
type BikeTrackerItems struct {
	RegularTours []int64
	PrivateTours []int64
	Rentals      []int64
}

// DefaultRentalDurations maps customer type ids to rental duration in hours.
var DefaultRentalDurations = map[int64]float64{
	314997: 2,
	314998: 4,
	314999: 8,
	763050: 4,
	763051: 8,
	315000: 24,
	315001: 48,
	315002: 168,
	315003: 24,
	601300: 240,
	690082: 24,
}

// defaultRentalHours is the fallback window for customer types missing from
// the duration table.
const defaultRentalHours = 2.0

// renderTimezone is where the business operates; every time of day shown to
// the tracker app is converted here at render time, whatever the storage
// timezone.
const renderTimezone = "Europe/Madrid"

// BikeTrackerService answers which bikes are free and what must be tracked
// today, and applies bike assignments. Allow-lists and the duration table are
// explicit inputs rather than ambient configuration.
type BikeTrackerService struct {
	db        *gorm.DB
	items     BikeTrackerItems
	durations map[int64]float64
	loc       *time.Location
}

// NewBikeTrackerService builds the engine. A nil durations map selects the
// default table.
func NewBikeTrackerService(db *gorm.DB, items BikeTrackerItems, durations map[int64]float64) (*BikeTrackerService, error) {
	if durations == nil {
		durations = DefaultRentalDurations
	}
	loc, err := time.LoadLocation(renderTimezone)
	if err != nil {
		return nil, fmt.Errorf("load render timezone: %w", err)
	}
	return &BikeTrackerService{db: db, items: items, durations: durations, loc: loc}, nil
}

func (s *BikeTrackerService) tourIDs() []int64 {
	ids := make([]int64, 0, len(s.items.RegularTours)+len(s.items.PrivateTours))
	ids = append(ids, s.items.RegularTours...)
	return append(ids, s.items.PrivateTours...)
}

type tourRow struct {
	AvailabilityID int64
	Headline       *string
	StartAt        time.Time
	EndAt          time.Time
	ItemName       *string
	NoOfBikes      int
}

type rentalRow struct {
	BookingID      int64
	ContactName    string
	ItemName       *string
	StartAt        time.Time
	CustomerTypeID *int64
	NoOfBikes      int
}

// DailyActivities returns the set of activities subject to be tracked on a
// given date: tour availabilities that still have no bike assigned, grouped
// with one extra bike for the staff member, followed by individual rental
// bookings labelled contact-item. Both lists come ordered by start time.
func (s *BikeTrackerService) DailyActivities(forDate time.Time) ([]types.ActivityRow, error) {
	dayStart := time.Date(forDate.Year(), forDate.Month(), forDate.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	activities := make([]types.ActivityRow, 0)

	tours, err := s.tourActivities(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, row := range tours {
		headline := stringOr(row.Headline, stringOr(row.ItemName, ""))
		activities = append(activities, types.ActivityRow{
			AvailabilityID: row.AvailabilityID,
			Headline:       headline,
			Timestamp:      row.StartAt.In(s.loc).Format("15:04:05"),
			NoOfBikes:      row.NoOfBikes,
			Duration:       formatHours(row.EndAt.Sub(row.StartAt).Hours()),
		})
	}

	rentals, err := s.rentalActivities(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	for _, row := range rentals {
		activities = append(activities, types.ActivityRow{
			AvailabilityID: row.BookingID,
			Headline:       fmt.Sprintf("%s-%s", row.ContactName, stringOr(row.ItemName, "")),
			Timestamp:      row.StartAt.In(s.loc).Format("15:04:05"),
			NoOfBikes:      row.NoOfBikes,
			Duration:       s.rentalDuration(row.CustomerTypeID),
		})
	}
	return activities, nil
}

func (s *BikeTrackerService) tourActivities(dayStart, dayEnd time.Time) ([]tourRow, error) {
	var rows []tourRow
	err := s.db.Table("bookings").
		Select("availabilities.id AS availability_id, availabilities.headline AS headline, "+
			"availabilities.start_at AS start_at, availabilities.end_at AS end_at, "+
			"items.name AS item_name, SUM(bookings.customer_count) + 1 AS no_of_bikes").
		Joins("JOIN availabilities ON availabilities.id = bookings.availability_id").
		Joins("JOIN items ON items.id = availabilities.item_id").
		Where("items.id IN ?", s.tourIDs()).
		Where("availabilities.start_at >= ? AND availabilities.start_at < ?", dayStart, dayEnd).
		Where("bookings.status != ?", "cancelled").
		Where("bookings.rebooked_to IS NULL").
		Where("NOT EXISTS (SELECT 1 FROM bike_usages WHERE bike_usages.availability_id = availabilities.id)").
		Group("availabilities.id, availabilities.headline, availabilities.start_at, availabilities.end_at, items.name").
		Order("availabilities.start_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("tour activities query: %w", err)
	}
	return rows, nil
}

func (s *BikeTrackerService) rentalActivities(dayStart, dayEnd time.Time) ([]rentalRow, error) {
	var rows []rentalRow
	err := s.db.Table("bookings").
		Select("bookings.id AS booking_id, contacts.name AS contact_name, items.name AS item_name, "+
			"availabilities.start_at AS start_at, MAX(customer_type_rates.customer_type_id) AS customer_type_id, "+
			"MAX(bookings.customer_count) AS no_of_bikes").
		Joins("JOIN availabilities ON availabilities.id = bookings.availability_id").
		Joins("JOIN items ON items.id = availabilities.item_id").
		Joins("JOIN contacts ON contacts.id = bookings.id").
		Joins("JOIN customers ON customers.booking_id = bookings.id").
		Joins("JOIN customer_type_rates ON customer_type_rates.id = customers.customer_type_rate_id").
		Where("items.id IN ?", s.items.Rentals).
		Where("availabilities.start_at >= ? AND availabilities.start_at < ?", dayStart, dayEnd).
		Where("bookings.status != ?", "cancelled").
		Where("bookings.rebooked_to IS NULL").
		Group("bookings.id, contacts.name, items.name, availabilities.start_at").
		Order("availabilities.start_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("rental activities query: %w", err)
	}
	return rows, nil
}

// rentalDuration renders the duration for a rental's customer type. Unmapped
// types get the default window and a warning: those ids should end up in the
// table.
func (s *BikeTrackerService) rentalDuration(customerTypeID *int64) string {
	if customerTypeID != nil {
		if hours, ok := s.durations[*customerTypeID]; ok {
			return formatHours(hours)
		}
		log.Printf("⚠️ No rental duration mapped for customer type %d, assuming %.1fh", *customerTypeID, defaultRentalHours)
	} else {
		log.Printf("⚠️ Rental booking without customer type, assuming %.1fh", defaultRentalHours)
	}
	return formatHours(defaultRentalHours)
}

type usageWindowRow struct {
	UUID           string
	ItemID         int64
	StartAt        time.Time
	EndAt          time.Time
	CustomerTypeID *int64
}

// BikesInUse returns which of the candidate bikes are busy at the given
// instant. Tours occupy their bikes for the availability window; rentals for
// the duration the customer type encodes, counted from the availability
// start. Cancelled and rebooked bookings never occupy anything.
func (s *BikeTrackerService) BikesInUse(candidates map[string]struct{}, at time.Time) (map[string]struct{}, error) {
	var rows []usageWindowRow
	err := s.db.Table("bookings").
		Select("bikes.uuid AS uuid, availabilities.item_id AS item_id, "+
			"availabilities.start_at AS start_at, availabilities.end_at AS end_at, "+
			"customer_type_rates.customer_type_id AS customer_type_id").
		Joins("JOIN availabilities ON availabilities.id = bookings.availability_id").
		Joins("JOIN bike_usages ON bike_usages.availability_id = availabilities.id").
		Joins("JOIN bikes ON bikes.id = bike_usages.bike_id").
		Joins("LEFT JOIN customers ON customers.booking_id = bookings.id").
		Joins("LEFT JOIN customer_type_rates ON customer_type_rates.id = customers.customer_type_rate_id").
		Where("bookings.rebooked_to IS NULL").
		Where("bookings.status != ?", "cancelled").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("bikes in use query: %w", err)
	}

	inUse := make(map[string]struct{})
	for _, row := range rows {
		if _, wanted := candidates[row.UUID]; !wanted {
			continue
		}
		if s.occupiedAt(row, at) {
			inUse[row.UUID] = struct{}{}
		}
	}
	return inUse, nil
}

func (s *BikeTrackerService) occupiedAt(row usageWindowRow, at time.Time) bool {
	if containsID(s.tourIDs(), row.ItemID) {
		return !at.Before(row.StartAt) && !at.After(row.EndAt)
	}
	if containsID(s.items.Rentals, row.ItemID) {
		hours := defaultRentalHours
		if row.CustomerTypeID != nil {
			if mapped, ok := s.durations[*row.CustomerTypeID]; ok {
				hours = mapped
			} else {
				log.Printf("⚠️ No rental duration mapped for customer type %d, assuming %.1fh", *row.CustomerTypeID, defaultRentalHours)
			}
		}
		end := row.StartAt.Add(time.Duration(hours * float64(time.Hour)))
		return !at.Before(row.StartAt) && !at.After(end)
	}
	return false
}

// CreateBikeUsages assigns bikes to the availability behind instanceID, which
// may be a booking id or an availability id: bookings take precedence since
// call sites often only know the booking. Validation failures come back as an
// error map; a bike already in use elsewhere is only logged, by policy the
// assignment still goes through.
func (s *BikeTrackerService) CreateBikeUsages(instanceID int64, bikeUUIDs []string, ts time.Time) (Result[*models.Availability], error) {
	av, errs, err := s.resolveTarget(instanceID)
	if err != nil {
		return Result[*models.Availability]{}, err
	}

	bikes := make([]*models.Bike, 0, len(bikeUUIDs))
	for _, uuid := range bikeUUIDs {
		bike, err := GetBikeByUUIDOrNone(s.db, uuid)
		if err != nil {
			return Result[*models.Availability]{}, err
		}
		if bike == nil {
			errs[uuid] = "the bike does not exist"
			continue
		}
		bikes = append(bikes, bike)
	}
	if len(errs) > 0 {
		return Failure[*models.Availability](errs), nil
	}

	s.warnOnConflicts(bikeUUIDs, ts)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, bike := range bikes {
			usage := &models.BikeUsage{
				BikeID:         bike.ID,
				AvailabilityID: av.ID,
				CreatedAt:      ts,
				UpdatedAt:      ts,
			}
			if err := tx.Create(usage).Error; err != nil {
				return fmt.Errorf("create bike usage: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Result[*models.Availability]{}, err
	}
	return Success(av), nil
}

// UpdateBikeUsage swaps one assigned bike for another on the availability
// behind instanceID, with the same id resolution and validation contract as
// CreateBikeUsages.
func (s *BikeTrackerService) UpdateBikeUsage(instanceID int64, pickedUUID, returnedUUID string, ts time.Time) (Result[*models.Availability], error) {
	av, errs, err := s.resolveTarget(instanceID)
	if err != nil {
		return Result[*models.Availability]{}, err
	}

	picked, err := GetBikeByUUIDOrNone(s.db, pickedUUID)
	if err != nil {
		return Result[*models.Availability]{}, err
	}
	if picked == nil {
		errs[pickedUUID] = "the bike does not exist"
	}
	returned, err := GetBikeByUUIDOrNone(s.db, returnedUUID)
	if err != nil {
		return Result[*models.Availability]{}, err
	}
	if returned == nil {
		errs[returnedUUID] = "the bike does not exist"
	}
	if len(errs) > 0 {
		return Failure[*models.Availability](errs), nil
	}

	var usage models.BikeUsage
	err = s.db.Where("availability_id = ? AND bike_id = ?", av.ID, returned.ID).First(&usage).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		errs["bike_usage"] = "the returned bike is not assigned to the availability"
		return Failure[*models.Availability](errs), nil
	}
	if err != nil {
		return Result[*models.Availability]{}, fmt.Errorf("bike usage lookup: %w", err)
	}

	s.warnOnConflicts([]string{pickedUUID}, ts)

	usage.BikeID = picked.ID
	usage.UpdatedAt = ts
	if err := s.db.Save(&usage).Error; err != nil {
		return Result[*models.Availability]{}, fmt.Errorf("save bike usage: %w", err)
	}
	return Success(av), nil
}

// AvailableBikes lists the whole bike inventory for the tracker app.
func (s *BikeTrackerService) AvailableBikes() ([]types.BikeInfo, error) {
	var bikes []models.Bike
	if err := s.db.Order("readable_name ASC").Find(&bikes).Error; err != nil {
		return nil, fmt.Errorf("list bikes: %w", err)
	}
	infos := make([]types.BikeInfo, 0, len(bikes))
	for _, bike := range bikes {
		infos = append(infos, types.BikeInfo{UUID: bike.UUID, DisplayName: bike.ReadableName})
	}
	return infos, nil
}

// resolveTarget finds the availability behind an instance id, trying bookings
// first and falling back to a direct availability lookup.
func (s *BikeTrackerService) resolveTarget(instanceID int64) (*models.Availability, map[string]string, error) {
	errs := make(map[string]string)
	booking, err := GetOrNone[models.Booking](s.db, instanceID)
	if err != nil {
		return nil, nil, err
	}
	avID := instanceID
	if booking != nil {
		avID = booking.AvailabilityID
	}
	av, err := GetOrNone[models.Availability](s.db, avID)
	if err != nil {
		return nil, nil, err
	}
	if av == nil {
		errs["availability_id"] = fmt.Sprintf("no booking or availability matches id %d", instanceID)
	}
	return av, errs, nil
}

// warnOnConflicts reports bikes that are busy elsewhere right now. Advisory
// only: double assignments are allowed and measured through the logs.
func (s *BikeTrackerService) warnOnConflicts(bikeUUIDs []string, at time.Time) {
	candidates := make(map[string]struct{}, len(bikeUUIDs))
	for _, uuid := range bikeUUIDs {
		candidates[uuid] = struct{}{}
	}
	inUse, err := s.BikesInUse(candidates, at)
	if err != nil {
		log.Printf("⚠️ Conflict check failed: %v", err)
		return
	}
	if len(inUse) == 0 {
		return
	}
	conflicting := make([]string, 0, len(inUse))
	for uuid := range inUse {
		conflicting = append(conflicting, uuid)
	}
	sort.Strings(conflicting)
	log.Printf("⚠️ Bikes already in use: %s", strings.Join(conflicting, ", "))
}

func formatHours(hours float64) string {
	return fmt.Sprintf("%.1f", hours)
}

func stringOr(v *string, fallback string) string {
	if v != nil && *v != "" {
		return *v
	}
	return fallback
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
