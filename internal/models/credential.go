package models

import (
	"time"
)

// Credential stores the ERP login for this machine, one row per environment
type Credential struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Environment  string `gorm:"uniqueIndex;not null" json:"environment"` // prod, qa
	Email        string `json:"email"`
	UserID       string `json:"user_id"`
	ClientID     string `json:"client_id"`
	ShiftID      string `json:"shift_id"`
	DeviceID     string `json:"device_id"`
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}
