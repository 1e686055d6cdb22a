package utils

import (
	"fmt"

	"project/backend/config"
	"project/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection and migrates the catalog schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := MigrateDB(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateDB is shared with the test setup, which runs against SQLite.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Course{},
		&models.CourseContent{},
		&models.Question{},
		&models.QuestionReply{},
		&models.Review{},
		&models.Notification{},
	)
}
