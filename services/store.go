package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nablabits/fareharbor-webhook/models"
)

// The entity store port. Lookups come in two flavours: GetOrNone for the
// expected maybe-absent case (create-vs-update decisions) and GetOrFail for
// must-exist flows, which surfaces a NotFoundError instead of using absence
// as control flow.

// GetOrNone returns the entity with the given primary key, or nil when it
// does not exist.
func GetOrNone[T any](db *gorm.DB, key any) (*T, error) {
	var out T
	err := db.Where("id = ?", key).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("entity store lookup: %w", err)
	}
	return &out, nil
}

// GetOrFail returns the entity with the given primary key or a NotFoundError.
func GetOrFail[T any](db *gorm.DB, key any) (*T, error) {
	obj, err := GetOrNone[T](db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, &NotFoundError{Entity: entityName[T]()}
	}
	return obj, nil
}

// GetCompanyOrNone retrieves a company by its natural key. Companies are the
// one entity type FareHarbor supplies no stable numeric id for, so short_name
// replaces the primary key in lookups.
func GetCompanyOrNone(db *gorm.DB, shortName string) (*models.Company, error) {
	var out models.Company
	err := db.Where("short_name = ?", shortName).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("entity store lookup: %w", err)
	}
	return &out, nil
}

// GetCompanyOrFail retrieves a company by short_name or fails with a
// NotFoundError.
func GetCompanyOrFail(db *gorm.DB, shortName string) (*models.Company, error) {
	company, err := GetCompanyOrNone(db, shortName)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, &NotFoundError{Entity: models.Company{}.TableName()}
	}
	return company, nil
}

// GetBikeByUUIDOrNone retrieves a bike by the uuid the tracker app knows it
// by, or nil when no such bike exists.
func GetBikeByUUIDOrNone(db *gorm.DB, uuid string) (*models.Bike, error) {
	var out models.Bike
	err := db.Where("uuid = ?", uuid).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("entity store lookup: %w", err)
	}
	return &out, nil
}

func entityName[T any]() string {
	var t T
	if tn, ok := any(t).(interface{ TableName() string }); ok {
		return tn.TableName()
	}
	return fmt.Sprintf("%T", t)
}
