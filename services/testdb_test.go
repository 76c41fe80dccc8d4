package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stackit/stackit/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Tag{},
		&models.Vote{},
		&models.Notification{},
		&models.AdminMessage{},
		&models.ActivityLog{},
		&models.Feedback{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Role:     models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createQuestion(t *testing.T, db *gorm.DB, owner *models.User) *models.Question {
	t.Helper()
	question := models.Question{
		UserID:      owner.ID,
		Title:       "how do goroutines work",
		Description: "a long enough description of the problem at hand",
	}
	require.NoError(t, db.Create(&question).Error)
	return &question
}

func createAnswer(t *testing.T, db *gorm.DB, question *models.Question, owner *models.User) *models.Answer {
	t.Helper()
	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     owner.ID,
		Content:    "use channels to communicate between them",
	}
	require.NoError(t, db.Create(&answer).Error)
	return &answer
}
