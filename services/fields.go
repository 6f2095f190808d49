package services

import (
	"fmt"
	"time"
)

// Required-field helpers for the payload walk. The upstream schema is
// pre-validated, but absent keys still have to surface as typed missing-field
// errors carrying the exact key path instead of silent zero values.

func reqInt64(v *int64, path string) (int64, error) {
	if v == nil {
		return 0, &MissingFieldError{Path: path}
	}
	return *v, nil
}

func reqInt(v *int, path string) (int, error) {
	if v == nil {
		return 0, &MissingFieldError{Path: path}
	}
	return *v, nil
}

func reqString(v *string, path string) (string, error) {
	if v == nil {
		return "", &MissingFieldError{Path: path}
	}
	return *v, nil
}

func reqBool(v *bool, path string) (bool, error) {
	if v == nil {
		return false, &MissingFieldError{Path: path}
	}
	return *v, nil
}

func reqTime(v *time.Time, path string) (time.Time, error) {
	if v == nil {
		return time.Time{}, &MissingFieldError{Path: path}
	}
	return *v, nil
}

func indexedPath(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}

func boolPtr(v bool) *bool {
	return &v
}
