package db

import (
	"time"

	"github.com/prohance/tracker/internal/models"
)

// AppendHistory persists a daily summary row
func AppendHistory(record models.HistoryRecord) error {
	return DB.Create(&record).Error
}

// GetHistoryInRange returns history rows whose date falls inside [start, end]
func GetHistoryInRange(start, end time.Time) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord

	err := DB.Where("date >= ? AND date <= ?",
		start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("date ASC, created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

// GetHistoryForDate returns history rows recorded for a single day
func GetHistoryForDate(date time.Time) ([]models.HistoryRecord, error) {
	return GetHistoryInRange(date, date)
}

// RecordSleepEvent persists a detected suspend interval
func RecordSleepEvent(event models.SleepEvent) error {
	return DB.Create(&event).Error
}

// GetSleepEventsForDate returns suspend intervals recorded for a single day
func GetSleepEventsForDate(date time.Time) ([]models.SleepEvent, error) {
	var events []models.SleepEvent

	err := DB.Where("date = ?", date.Format("2006-01-02")).
		Order("sleep_start ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}
