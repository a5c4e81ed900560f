package database

import (
	"errors"
	"fmt"

	"refund-relay/internal/common/models"
	"refund-relay/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	models := []interface{}{
		&models.Setting{},
	}

	for _, model := range models {
		logger.Info.Printf("Migrating model: %T", model)
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	if err := db.seedSettings(); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

// seedSettings makes sure the single settings row exists without touching
// values an operator already changed.
func (db *Database) seedSettings() error {
	var existing models.Setting
	err := db.First(&existing, models.SettingID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(models.DefaultSetting()).Error
}
