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

func adminRouter(db *gorm.DB, admin *models.User) *gin.Engine {
	ac := NewAdminController(db)
	r := gin.New()
	grp := r.Group("", asUser(admin))
	grp.GET("/pending-admins", ac.PendingAdmins)
	grp.POST("/users/:id/approve-admin", ac.ApproveAdmin)
	grp.POST("/users/:id/decline-admin", ac.DeclineAdmin)
	grp.POST("/users/:id/ban", ac.BanUser)
	grp.POST("/users/:id/unban", ac.UnbanUser)
	grp.POST("/broadcast", ac.Broadcast)
	grp.GET("/reports", ac.Reports)
	return r
}

func newAdmin(t *testing.T, db *gorm.DB) *models.User {
	return createUser(t, db, "root", models.RoleAdmin)
}

func TestApproveAdminFlow(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	pending := models.User{Username: "wannabe", Email: "w@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&pending).Error)

	r := adminRouter(db, admin)

	w := doJSON(r, http.MethodGet, "/pending-admins", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "wannabe")

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/users/%d/approve-admin", pending.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.User
	require.NoError(t, db.First(&fresh, pending.ID).Error)
	assert.True(t, fresh.IsAdmin())
}

func TestDeclineAdminDemotesToUser(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	pending := models.User{Username: "wannabe", Email: "w@example.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&pending).Error)

	r := adminRouter(db, admin)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/users/%d/decline-admin", pending.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.User
	require.NoError(t, db.First(&fresh, pending.ID).Error)
	assert.Equal(t, models.RoleUser, fresh.Role)
	assert.False(t, fresh.AdminApproved)
}

func TestApproveAdminRejectsRegularUser(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	user := createUser(t, db, "alice", models.RoleUser)

	r := adminRouter(db, admin)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/users/%d/approve-admin", user.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBanAndUnbanUser(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	user := createUser(t, db, "alice", models.RoleUser)

	r := adminRouter(db, admin)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/users/%d/ban", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.True(t, fresh.Banned)

	w = doJSON(r, http.MethodPost, fmt.Sprintf("/users/%d/unban", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.False(t, fresh.Banned)
}

func TestBanAdminForbidden(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	other := createUser(t, db, "root2", models.RoleAdmin)

	r := adminRouter(db, admin)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/users/%d/ban", other.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBroadcastStoresMessage(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	createUser(t, db, "alice", models.RoleUser)

	r := adminRouter(db, admin)
	w := doJSON(r, http.MethodPost, "/broadcast", gin.H{
		"subject": "scheduled maintenance",
		"body":    "the site will be briefly unavailable tonight",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var msg models.AdminMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, "scheduled maintenance", msg.Subject)
	assert.Equal(t, admin.ID, msg.SentByID)
}

func TestReports(t *testing.T) {
	db := newTestDB(t)
	admin := newAdmin(t, db)
	user := createUser(t, db, "alice", models.RoleUser)
	require.NoError(t, db.Create(&models.ActivityLog{UserID: user.ID, Action: "login"}).Error)
	require.NoError(t, db.Create(&models.Feedback{UserID: user.ID, Rating: 4, Message: "nice"}).Error)

	r := adminRouter(db, admin)
	w := doJSON(r, http.MethodGet, "/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login")
	assert.Contains(t, w.Body.String(), "nice")
}
