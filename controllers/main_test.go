package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stackit/stackit/middleware"
	"github.com/stackit/stackit/models"
)

func TestMain(m *testing.M) {
	mr, err := miniredis.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "miniredis: %v\n", err)
		os.Exit(1)
	}

	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("REDIS_HOST", mr.Host())
	os.Setenv("REDIS_PORT", mr.Port())
	// Keep repeated registrations from the shared test client IP from
	// tripping the abuse guard.
	os.Setenv("REGISTER_ATTEMPT_COOLDOWN_SEC", "0")
	gin.SetMode(gin.TestMode)

	code := m.Run()
	mr.Close()
	os.Exit(code)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
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

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := models.User{
		Username:      username,
		Email:         username + "@example.com",
		Role:          role,
		AdminApproved: role == models.RoleAdmin,
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
		Content:    "use channels to communicate between goroutines",
	}
	require.NoError(t, db.Create(&answer).Error)
	return &answer
}

// asUser injects an authenticated identity, bypassing the JWT middleware so
// handler behavior is tested in isolation.
func asUser(user *models.User) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, user.ID)
		ctx.Set(middleware.ContextUsernameKey, user.Username)
		ctx.Set(middleware.ContextRoleKey, user.Role)
		ctx.Next()
	}
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}
