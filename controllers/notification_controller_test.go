package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
)

func notificationRouter(db *gorm.DB, user *models.User) *gin.Engine {
	nc := NewNotificationController(db)
	r := gin.New()
	r.GET("/notifications", asUser(user), nc.List)
	r.PATCH("/notifications/:id/read", asUser(user), nc.MarkRead)
	r.PATCH("/notifications", asUser(user), nc.MarkAllRead)
	return r
}

func seedNotification(t *testing.T, db *gorm.DB, recipientID uint) *models.Notification {
	t.Helper()
	note := models.Notification{
		RecipientID: recipientID,
		Type:        models.NotifyAnswer,
		Message:     "bob answered your question",
		Link:        "/questions/1",
	}
	require.NoError(t, db.Create(&note).Error)
	return &note
}

func TestListNotificationsOwnOnly(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)
	seedNotification(t, db, alice.ID)
	seedNotification(t, db, bob.ID)

	w := doJSON(notificationRouter(db, alice), http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.EqualValues(t, 1, data["unread"])
}

func TestMarkNotificationRead(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	note := seedNotification(t, db, alice.ID)

	r := notificationRouter(db, alice)
	w := doJSON(r, http.MethodPatch, fmt.Sprintf("/notifications/%d/read", note.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.Notification
	require.NoError(t, db.First(&fresh, note.ID).Error)
	assert.True(t, fresh.Read)
}

func TestMarkNotificationReadWrongRecipient(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	bob := createUser(t, db, "bob", models.RoleUser)
	note := seedNotification(t, db, alice.ID)

	w := doJSON(notificationRouter(db, bob), http.MethodPatch,
		fmt.Sprintf("/notifications/%d/read", note.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarkAllNotificationsRead(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", models.RoleUser)
	seedNotification(t, db, alice.ID)
	seedNotification(t, db, alice.ID)

	r := notificationRouter(db, alice)
	w := doJSON(r, http.MethodPatch, "/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var unread int64
	db.Model(&models.Notification{}).
		Where("recipient_id = ? AND `read` = ?", alice.ID, false).Count(&unread)
	assert.EqualValues(t, 0, unread)
}
