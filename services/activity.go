package services

import (
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/utils"
)

// ActivityLogger records user actions for the admin reports view. Writes are
// best-effort and asynchronous; a failed log never fails the originating
// request.
type ActivityLogger struct {
	db *gorm.DB
}

// NewActivityLogger creates an ActivityLogger on the given database handle.
func NewActivityLogger(db *gorm.DB) *ActivityLogger {
	return &ActivityLogger{db: db}
}

// Log records an action in the background.
func (a *ActivityLogger) Log(userID uint, action, details string) {
	go func() {
		defer func() { _ = recover() }()
		entry := models.ActivityLog{UserID: userID, Action: action, Details: details}
		if err := a.db.Create(&entry).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("activity log failed action=%s: %v", action, err)
			}
		}
	}()
}
