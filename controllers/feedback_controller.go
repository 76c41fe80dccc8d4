package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

// FeedbackController accepts user feedback submissions.
type FeedbackController struct {
	db       *gorm.DB
	activity *services.ActivityLogger
}

// NewFeedbackController creates a FeedbackController.
func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{db: db, activity: services.NewActivityLogger(db)}
}

// Submit records a rating between 1 and 5 with an optional message.
func (f *FeedbackController) Submit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Message string `json:"message"`
		Rating  int    `json:"rating" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40090, "rating is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		utils.Error(ctx, http.StatusBadRequest, 40091, "rating must be between 1 and 5")
		return
	}

	feedback := models.Feedback{
		UserID:  userID,
		Message: utils.SanitizeStrict(req.Message),
		Rating:  req.Rating,
	}
	if err := f.db.Create(&feedback).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50100, "failed to store feedback")
		return
	}

	f.activity.Log(userID, "feedback", "")
	utils.Respond(ctx, http.StatusCreated, 0, "feedback received", gin.H{"feedback": feedback})
}
