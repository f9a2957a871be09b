package utils

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/models"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate keeps the schema in sync for every model the app persists.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PasswordResetToken{},
		&models.Subject{},
		&models.Group{},
		&models.Topic{},
		&models.Resource{},
		&models.Enrollment{},
		&models.Assessment{},
		&models.Question{},
		&models.QuestionOption{},
		&models.SuggestedQuestion{},
		&models.Submission{},
		&models.ForumQuestion{},
		&models.ForumAnswer{},
		&models.ForumComment{},
		&models.ForumQuestionView{},
	)
}
