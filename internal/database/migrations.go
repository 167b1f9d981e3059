package database

import (
	"gorm.io/gorm"

	"github.com/avereen/studylog/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.StudyRecord{},
		&models.Session{},
		&models.CacheEntry{},
	)
}
