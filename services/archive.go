package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// SaveResponseAsFile writes the raw POST body to a JSON file named after the
// request's unix timestamp. Archival happens before any validation or
// normalization so a failed document can always be replayed once the upstream
// shape is understood.
func SaveResponseAsFile(body []byte, path string, ts time.Time) (string, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create responses dir: %w", err)
	}
	filename := fmt.Sprintf("%.6f.json", float64(ts.UnixMicro())/1e6)
	fullPath := filepath.Join(path, filename)
	if err := os.WriteFile(fullPath, body, 0o644); err != nil {
		return "", fmt.Errorf("write response file: %w", err)
	}
	return filename, nil
}

// RequestIDFromFilename derives a unique request id out of an archive
// filename by keeping only its digits, so "1628588400.123456.json" becomes
// 1628588400123456. Non-json files yield no id.
func RequestIDFromFilename(filename string) (int64, bool) {
	if !strings.HasSuffix(filename, ".json") {
		return 0, false
	}
	var digits strings.Builder
	for _, r := range filename {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// TimestampFromFilename recovers the request timestamp encoded in an archive
// filename.
func TimestampFromFilename(filename string) (time.Time, error) {
	raw := strings.TrimSuffix(filename, ".json")
	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse archive timestamp %q: %w", filename, err)
	}
	return time.UnixMicro(int64(seconds * 1e6)).UTC(), nil
}
