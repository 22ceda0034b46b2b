package db

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prohance/tracker/internal/models"
)

// SaveCredential inserts or updates the stored login for an environment
func SaveCredential(cred models.Credential) error {
	return DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "environment"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "user_id", "client_id", "shift_id",
			"device_id", "access_token", "refresh_token", "updated_at",
		}),
	}).Create(&cred).Error
}

// GetCredential returns the stored login for an environment
func GetCredential(environment string) (*models.Credential, error) {
	var cred models.Credential

	err := DB.Where("environment = ?", environment).First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("not logged in to %s. Run 'tracker login' first", environment)
	}
	if err != nil {
		return nil, err
	}

	return &cred, nil
}

// DeleteCredential removes the stored login for an environment
func DeleteCredential(environment string) error {
	return DB.Where("environment = ?", environment).Delete(&models.Credential{}).Error
}
