package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/nablabits/fareharbor-webhook/models"
	"github.com/nablabits/fareharbor-webhook/types"
)

// PopulateDB replays archived payloads through the normalizer. The responses
// directory is an ordered work queue: lexicographic filename order is
// chronological order because filenames encode unix timestamps. Files whose
// request id is already stored are skipped, which makes the replay an
// at-least-once recovery mechanism rather than a reprocessing one.
type PopulateDB struct {
	db   *gorm.DB
	path string

	Processed int
	Skipped   int
}

// NewPopulateDB builds a replay driver over the given responses directory.
func NewPopulateDB(db *gorm.DB, path string) *PopulateDB {
	return &PopulateDB{db: db, path: path}
}

// Run walks the archive in timestamp order. A failure on one document is
// logged and counted but never stops the batch.
func (s *PopulateDB) Run() error {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return fmt.Errorf("read responses dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for n, name := range names {
		if n%10 == 0 {
			log.Printf("Processed %d JSON files (%d skipped)", s.Processed, s.Skipped)
		}
		if err := s.processFile(name); err != nil {
			log.Printf("replay: %s failed: %v", name, err)
			s.Skipped++
		}
	}
	log.Printf("Processed %d JSON files (%d skipped)", s.Processed, s.Skipped)
	return nil
}

func (s *PopulateDB) processFile(name string) error {
	requestID, ok := RequestIDFromFilename(name)
	if !ok {
		s.Skipped++
		return nil
	}
	if exists, err := s.requestExists(requestID); err != nil {
		return err
	} else if exists {
		s.Skipped++
		return nil
	}

	timestamp, err := TimestampFromFilename(name)
	if err != nil {
		return err
	}
	body, err := os.ReadFile(filepath.Join(s.path, name))
	if err != nil {
		return fmt.Errorf("read archive file: %w", err)
	}
	var doc types.WebhookDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode archive file: %w", err)
	}
	if doc.Booking == nil {
		s.Skipped++
		return nil
	}

	if _, err := SaveRequestToDB(s.db, &doc, body, timestamp, name); err != nil {
		return err
	}
	s.Processed++
	return nil
}

func (s *PopulateDB) requestExists(requestID int64) (bool, error) {
	sr, err := GetOrNone[models.StoredRequest](s.db, requestID)
	if err != nil {
		return false, err
	}
	return sr != nil, nil
}

// SaveRequestToDB handles the bookkeeping around one normalization: record
// the stored request, process the document, and close the request only once
// the whole graph is saved. A normalization failure leaves the stored request
// open as a marker of the failed attempt; the replay driver skips any stored
// request id regardless of whether it was closed.
func SaveRequestToDB(db *gorm.DB, doc *types.WebhookDocument, body []byte, ts time.Time, filename string) (*models.StoredRequest, error) {
	requestID, ok := RequestIDFromFilename(filename)
	if !ok {
		return nil, fmt.Errorf("no request id derivable from %q", filename)
	}
	sr, err := CreateStoredRequest(db, requestID, filename, string(body), ts)
	if err != nil {
		return nil, err
	}
	if _, err := ProcessPayload(db, doc, ts); err != nil {
		return nil, err
	}
	return CloseStoredRequest(db, sr, ts)
}
