package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prohance/tracker/internal/models"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitializeAt(filepath.Join(t.TempDir(), "tracker.db")))
	t.Cleanup(func() { Close() })
}

func day(value string) time.Time {
	d, _ := time.Parse("2006-01-02", value)
	return d
}

func TestHistoryRoundTrip(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, AppendHistory(models.HistoryRecord{
		Date:            "2025-06-02",
		Active:          "07:15:00",
		Break:           "00:45:00",
		Idle:            "00:12:00",
		ActivityPercent: 83.4,
		TopWindows:      []string{"main.go - Cursor", "Sprint board - Google Chrome"},
	}))

	records, err := GetHistoryForDate(day("2025-06-02"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "07:15:00", records[0].Active)
	assert.Equal(t, 83.4, records[0].ActivityPercent)
	assert.Equal(t, []string{"main.go - Cursor", "Sprint board - Google Chrome"}, records[0].TopWindows)
}

func TestHistoryRangeQuery(t *testing.T) {
	setupTestDB(t)

	for _, date := range []string{"2025-06-01", "2025-06-02", "2025-06-05", "2025-06-09"} {
		require.NoError(t, AppendHistory(models.HistoryRecord{Date: date, Active: "08:00:00"}))
	}

	records, err := GetHistoryInRange(day("2025-06-02"), day("2025-06-06"))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025-06-02", records[0].Date)
	assert.Equal(t, "2025-06-05", records[1].Date)
}

func TestSleepEventsForDate(t *testing.T) {
	setupTestDB(t)

	start := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	require.NoError(t, RecordSleepEvent(models.SleepEvent{
		Date:            "2025-06-02",
		SleepStart:      start,
		WakeTime:        start.Add(390 * time.Second),
		DurationSeconds: 390,
	}))
	require.NoError(t, RecordSleepEvent(models.SleepEvent{
		Date:            "2025-06-03",
		SleepStart:      start.Add(24 * time.Hour),
		WakeTime:        start.Add(24*time.Hour + time.Minute),
		DurationSeconds: 60,
	}))

	events, err := GetSleepEventsForDate(day("2025-06-02"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 390, events[0].DurationSeconds)
}

func TestCredentialUpsert(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveCredential(models.Credential{
		Environment: "prod",
		Email:       "user@corp.com",
		UserID:      "user-1",
		ClientID:    "client-1",
		AccessToken: "token-1",
	}))
	require.NoError(t, SaveCredential(models.Credential{
		Environment: "prod",
		Email:       "user@corp.com",
		UserID:      "user-1",
		ClientID:    "client-1",
		AccessToken: "token-2",
	}))

	cred, err := GetCredential("prod")
	require.NoError(t, err)
	assert.Equal(t, "token-2", cred.AccessToken)

	var count int64
	DB.Model(&models.Credential{}).Count(&count)
	assert.EqualValues(t, 1, count, "one row per environment")
}

func TestGetCredentialMissing(t *testing.T) {
	setupTestDB(t)

	_, err := GetCredential("qa")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestDeleteCredential(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, SaveCredential(models.Credential{Environment: "prod", Email: "user@corp.com"}))
	require.NoError(t, DeleteCredential("prod"))

	_, err := GetCredential("prod")
	assert.Error(t, err)
}
