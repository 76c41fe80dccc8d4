package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

const statsCacheKey = "cache:admin:stats"

// AdminController implements the moderation surface. All routes are mounted
// behind the admin-role middleware.
type AdminController struct {
	db       *gorm.DB
	notifier *services.Notifier
	activity *services.ActivityLogger
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		db:       db,
		notifier: services.NewNotifier(db),
		activity: services.NewActivityLogger(db),
	}
}

// PendingAdmins lists accounts that requested the admin role and await
// approval.
func (a *AdminController) PendingAdmins(ctx *gin.Context) {
	var users []models.User
	err := a.db.Where("role = ? AND admin_approved = ?", models.RoleAdmin, false).
		Order("created_at ASC").Find(&users).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to fetch pending admins")
		return
	}
	utils.Success(ctx, gin.H{"items": users})
}

// ApproveAdmin grants a pending admin request.
func (a *AdminController) ApproveAdmin(ctx *gin.Context) {
	user, ok := a.loadUser(ctx)
	if !ok {
		return
	}
	if user.Role != models.RoleAdmin || user.AdminApproved {
		utils.Error(ctx, http.StatusBadRequest, 40080, "user has no pending admin request")
		return
	}

	if err := a.db.Model(user).Update("admin_approved", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50091, "failed to approve admin")
		return
	}

	actorID, _ := getUserID(ctx)
	a.activity.Log(actorID, "admin_approve", user.Username)
	utils.Success(ctx, gin.H{"message": "admin approved"})
}

// DeclineAdmin rejects a pending admin request, demoting the account to a
// regular user.
func (a *AdminController) DeclineAdmin(ctx *gin.Context) {
	user, ok := a.loadUser(ctx)
	if !ok {
		return
	}
	if user.Role != models.RoleAdmin || user.AdminApproved {
		utils.Error(ctx, http.StatusBadRequest, 40080, "user has no pending admin request")
		return
	}

	err := a.db.Model(user).Updates(map[string]interface{}{
		"role":           models.RoleUser,
		"admin_approved": false,
	}).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50092, "failed to decline admin")
		return
	}

	actorID, _ := getUserID(ctx)
	a.activity.Log(actorID, "admin_decline", user.Username)
	utils.Success(ctx, gin.H{"message": "admin request declined"})
}

// BanUser blocks an account from logging in. Admin accounts cannot be banned.
func (a *AdminController) BanUser(ctx *gin.Context) {
	user, ok := a.loadUser(ctx)
	if !ok {
		return
	}
	if user.IsAdmin() {
		utils.Error(ctx, http.StatusForbidden, 40306, "cannot ban an admin")
		return
	}

	if err := a.db.Model(user).Update("banned", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50093, "failed to ban user")
		return
	}

	actorID, _ := getUserID(ctx)
	a.activity.Log(actorID, "user_ban", user.Username)
	utils.Success(ctx, gin.H{"message": "user banned"})
}

// UnbanUser lifts a ban.
func (a *AdminController) UnbanUser(ctx *gin.Context) {
	user, ok := a.loadUser(ctx)
	if !ok {
		return
	}

	if err := a.db.Model(user).Update("banned", false).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50094, "failed to unban user")
		return
	}

	actorID, _ := getUserID(ctx)
	a.activity.Log(actorID, "user_unban", user.Username)
	utils.Success(ctx, gin.H{"message": "user unbanned"})
}

// Broadcast stores an admin message and fans it out to every user as a
// notification.
func (a *AdminController) Broadcast(ctx *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Body    string `json:"body" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "subject and body are required")
		return
	}

	actorID, _ := getUserID(ctx)
	msg := models.AdminMessage{
		Subject:  utils.SanitizeStrict(req.Subject),
		Body:     utils.Sanitize(req.Body),
		SentByID: actorID,
	}
	if err := a.db.Create(&msg).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to store message")
		return
	}

	go func(m models.AdminMessage) {
		defer func() { _ = recover() }()
		a.notifier.Broadcast(&m)
	}(msg)

	a.activity.Log(actorID, "admin_broadcast", msg.Subject)
	utils.Respond(ctx, http.StatusCreated, 0, "broadcast sent", gin.H{"message": msg})
}

// Reports returns recent activity logs and user feedback for the admin
// dashboard.
func (a *AdminController) Reports(ctx *gin.Context) {
	var logs []models.ActivityLog
	if err := a.db.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50096, "failed to fetch activity logs")
		return
	}

	var feedback []models.Feedback
	if err := a.db.Preload("User").Order("created_at DESC").Limit(100).Find(&feedback).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50097, "failed to fetch feedback")
		return
	}

	utils.Success(ctx, gin.H{"activity": logs, "feedback": feedback})
}

// Stats returns site-wide counters, cached for a short window.
func (a *AdminController) Stats(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(statsCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	stats := gin.H{}
	counts := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"questions", &models.Question{}},
		{"answers", &models.Answer{}},
		{"votes", &models.Vote{}},
		{"comments", &models.Comment{}},
	}
	for _, c := range counts {
		var n int64
		if err := a.db.Model(c.model).Count(&n).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50098, "failed to compute stats")
			return
		}
		stats[c.name] = n
	}

	utils.CacheSetJSON(statsCacheKey, wrap(gin.H{"stats": stats}), time.Minute)
	utils.Success(ctx, gin.H{"stats": stats})
}

func (a *AdminController) loadUser(ctx *gin.Context) (*models.User, bool) {
	var user models.User
	if err := a.db.First(&user, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40407, "user not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50099, "failed to load user")
		return nil, false
	}
	return &user, true
}
