package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveResponseAsFile(t *testing.T) {
	dir := t.TempDir()
	ts := testTime(t, "2021-08-10T09:40:00Z")
	body := []byte(`{"booking": {"pk": 1}}`)

	filename, err := SaveResponseAsFile(body, filepath.Join(dir, "responses"), ts)
	require.NoError(t, err)
	assert.Equal(t, "1628588400.000000.json", filename)

	stored, err := os.ReadFile(filepath.Join(dir, "responses", filename))
	require.NoError(t, err)
	assert.Equal(t, body, stored)
}

func TestSaveResponseAsFileKeepsMicroseconds(t *testing.T) {
	dir := t.TempDir()
	ts := testTime(t, "2021-08-10T09:40:00.123456Z")

	filename, err := SaveResponseAsFile([]byte("{}"), dir, ts)
	require.NoError(t, err)
	assert.Equal(t, "1628588400.123456.json", filename)
}

func TestRequestIDFromFilename(t *testing.T) {
	id, ok := RequestIDFromFilename("1628588400.123456.json")
	require.True(t, ok)
	assert.Equal(t, int64(1628588400123456), id)

	_, ok = RequestIDFromFilename("1628588400.123456.txt")
	assert.False(t, ok)

	_, ok = RequestIDFromFilename("notes.json")
	assert.False(t, ok)
}

func TestTimestampFromFilename(t *testing.T) {
	ts, err := TimestampFromFilename("1628588400.123456.json")
	require.NoError(t, err)
	assert.Equal(t, testTime(t, "2021-08-10T09:40:00.123456Z"), ts)

	_, err = TimestampFromFilename("notes.json")
	assert.Error(t, err)
}

func TestArchiveFilenameRoundTrip(t *testing.T) {
	ts := testTime(t, "2021-08-10T09:40:00.654321Z")
	filename, err := SaveResponseAsFile([]byte("{}"), t.TempDir(), ts)
	require.NoError(t, err)

	recovered, err := TimestampFromFilename(filename)
	require.NoError(t, err)
	assert.Equal(t, ts, recovered)
}
