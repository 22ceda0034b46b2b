package models

import (
	"time"

	"gorm.io/gorm"
)

// HistoryRecord is one persisted daily summary row
type HistoryRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Date            string   `gorm:"index;not null" json:"date"` // ISO date, YYYY-MM-DD
	Active          string   `json:"active"`                     // HH:MM:SS
	Break           string   `json:"break"`                      // HH:MM:SS
	Idle            string   `json:"idle"`                       // HH:MM:SS
	ActivityPercent float64  `json:"activity_percent"`
	TopWindows      []string `gorm:"serializer:json" json:"top_windows"`
	Screenshots     []string `gorm:"serializer:json" json:"screenshots"`
}

// SleepEvent records a system suspend interval detected after resume
type SleepEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Date            string    `gorm:"index;not null" json:"date"`
	SleepStart      time.Time `gorm:"not null" json:"sleep_start"`
	WakeTime        time.Time `gorm:"not null" json:"wake_time"`
	DurationSeconds int       `json:"duration_seconds"`
}
