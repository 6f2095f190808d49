package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nablabits/fareharbor-webhook/services"
)

// SeedBikes loads the bike fleet from a csv file. Each record is
// "uuid,readable_name"; a blank uuid column gets a fresh one, so a plain list
// of names is enough to bootstrap the fleet. Seeding is keyed by readable
// name and can be rerun after the fleet changes.
func SeedBikes(db *gorm.DB, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open bikes file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read bikes file: %w", err)
	}

	now := time.Now().UTC()
	count := 0
	for i, record := range records {
		bikeUUID, readableName, err := parseBikeRecord(record)
		if err != nil {
			return count, fmt.Errorf("record %d: %w", i+1, err)
		}
		if _, err := services.UpsertBike(db, bikeUUID, readableName, now); err != nil {
			return count, fmt.Errorf("record %d: %w", i+1, err)
		}
		count++
	}
	return count, nil
}

func parseBikeRecord(record []string) (string, string, error) {
	var bikeUUID, readableName string
	switch len(record) {
	case 1:
		readableName = strings.TrimSpace(record[0])
	case 2:
		bikeUUID = strings.TrimSpace(record[0])
		readableName = strings.TrimSpace(record[1])
	default:
		return "", "", fmt.Errorf("expected 1 or 2 columns, got %d", len(record))
	}

	if readableName == "" {
		return "", "", fmt.Errorf("readable name is empty")
	}
	if bikeUUID == "" {
		bikeUUID = uuid.NewString()
	} else if _, err := uuid.Parse(bikeUUID); err != nil {
		return "", "", fmt.Errorf("invalid uuid %q: %w", bikeUUID, err)
	}
	return bikeUUID, readableName, nil
}
