package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/comfortbites/backend/internal/models"
)

// Migrate creates or updates the schema for all application models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Recipe{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
