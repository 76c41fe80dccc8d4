package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/utils"
)

// NotificationController serves a user's own notification feed.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// List returns the caller's notifications newest first, plus an unread count.
func (n *NotificationController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var notifications []models.Notification
	err := n.db.Where("recipient_id = ?", userID).
		Order("created_at DESC").Limit(100).Find(&notifications).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to fetch notifications")
		return
	}

	var unread int64
	n.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND `read` = ?", userID, false).Count(&unread)

	utils.Success(ctx, gin.H{"items": notifications, "unread": unread})
}

// MarkRead marks one notification as read. Only the recipient may do so.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var notification models.Notification
	if err := n.db.First(&notification, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40406, "notification not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to load notification")
		return
	}
	if notification.RecipientID != userID {
		utils.Error(ctx, http.StatusForbidden, 40302, "not your notification")
		return
	}

	if err := n.db.Model(&notification).Update("read", true).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to update notification")
		return
	}
	utils.Success(ctx, gin.H{"message": "notification marked read"})
}

// MarkAllRead marks every unread notification of the caller as read.
func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	err := n.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to update notifications")
		return
	}
	utils.Success(ctx, gin.H{"message": "all notifications marked read"})
}
