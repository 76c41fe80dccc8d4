package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

// CommentController manages comments on answers.
type CommentController struct {
	db       *gorm.DB
	notifier *services.Notifier
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db, notifier: services.NewNotifier(db)}
}

// Create adds a comment under an answer and fans out notifications to the
// answer owner and any @mentioned users.
func (c *CommentController) Create(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "comment content is required")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40050, "comment content is required")
		return
	}

	var answer models.Answer
	if err := c.db.First(&answer, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load answer")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	comment := models.Comment{
		AnswerID: answer.ID,
		UserID:   userID,
		Content:  content,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to add comment")
		return
	}

	// Best-effort fan-out; never blocks or fails the comment itself.
	go func(ans models.Answer, actorID uint, body string) {
		defer func() { _ = recover() }()
		var actor models.User
		if err := c.db.First(&actor, actorID).Error; err != nil {
			return
		}
		c.notifier.CommentPosted(&ans, &actor, body)
	}(answer, userID, content)

	utils.InvalidateByPrefix(fmt.Sprintf("cache:question:detail:%d", answer.QuestionID))
	utils.Respond(ctx, http.StatusCreated, 0, "comment added", gin.H{"comment": comment})
}

// List returns the comments of an answer, newest first.
func (c *CommentController) List(ctx *gin.Context) {
	var comments []models.Comment
	err := c.db.Where("answer_id = ?", ctx.Param("id")).
		Preload("User").Order("created_at DESC").Find(&comments).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to fetch comments")
		return
	}
	utils.Success(ctx, gin.H{"items": comments})
}

// Delete allows the comment owner or an admin to remove a comment.
func (c *CommentController) Delete(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.First(&comment, ctx.Param("commentId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40405, "comment not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to load comment")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if comment.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own comments")
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to delete comment")
		return
	}

	var answer models.Answer
	if err := c.db.Select("question_id").First(&answer, comment.AnswerID).Error; err == nil {
		utils.InvalidateByPrefix(fmt.Sprintf("cache:question:detail:%d", answer.QuestionID))
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
