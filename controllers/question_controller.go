package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/config"
	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

// QuestionController manages questions and votes on them.
type QuestionController struct {
	db         *gorm.DB
	ledger     *services.VoteLedger
	moderation *services.ModerationClient
	activity   *services.ActivityLogger
}

// NewQuestionController creates a QuestionController.
func NewQuestionController(db *gorm.DB) *QuestionController {
	return &QuestionController{
		db:         db,
		ledger:     services.NewVoteLedger(db),
		moderation: services.NewModerationClient(config.Get().ModerationServiceURL),
		activity:   services.NewActivityLogger(db),
	}
}

// Create posts a new question with normalized tags.
func (q *QuestionController) Create(ctx *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Tags        []string `json:"tags"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	title := utils.SanitizeStrict(strings.TrimSpace(req.Title))
	if len(title) < 10 {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title must be at least 10 characters long")
		return
	}
	description := utils.Sanitize(req.Description)
	if len(strings.TrimSpace(description)) < 20 {
		utils.Error(ctx, http.StatusBadRequest, 40022, "description must be at least 20 characters long")
		return
	}

	if verdict := q.moderation.FilterContent(description); !verdict.IsClean {
		utils.Error(ctx, http.StatusBadRequest, 40023, "content rejected by moderation")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	tags, err := services.EnsureTags(q.db, services.NormalizeTags(req.Tags))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to resolve tags")
		return
	}

	question := models.Question{
		UserID:      userID,
		Title:       title,
		Description: description,
		Tags:        tags,
	}

	if err := q.db.Create(&question).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create question")
		return
	}

	q.activity.Log(userID, "question.create", fmt.Sprintf("question %d", question.ID))
	utils.InvalidateByPrefix("cache:questions:list:")

	utils.Respond(ctx, http.StatusCreated, 0, "question posted", gin.H{"question": question})
}

// List returns paginated questions including author and tags. Results without
// a search term are cached to keep the hot homepage path off the database.
func (q *QuestionController) List(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	tag := strings.ToLower(strings.TrimSpace(ctx.Query("tag")))

	cacheKey := fmt.Sprintf("cache:questions:list:tag=%s:page=%d:size=%d", tag, page, pageSize)
	if search == "" {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := q.db.Model(&models.Question{}).Preload("User").Preload("Tags").Order("created_at DESC")
	if search != "" {
		query = query.Where("title LIKE ? OR description LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if tag != "" {
		query = query.Joins("JOIN question_tags qt ON qt.question_id = questions.id").
			Joins("JOIN tags ON tags.id = qt.tag_id").
			Where("tags.name = ?", tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to count questions")
		return
	}

	var questions []models.Question
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&questions).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list questions")
		return
	}

	payload := gin.H{
		"items":      questions,
		"pagination": paginationPayload(page, pageSize, total),
	}
	if search == "" {
		utils.CacheSetJSON(cacheKey, wrap(payload), time.Hour)
	}
	utils.Success(ctx, payload)
}

// Get returns a single question with its answers, their authors and comments.
func (q *QuestionController) Get(ctx *gin.Context) {
	questionID := ctx.Param("id")

	if b, ok := utils.CacheGetBytes("cache:question:detail:" + questionID); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var question models.Question
	err := q.db.Preload("User").Preload("Tags").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.created_at ASC") }).
		Preload("Answers.User").
		Preload("Answers.Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at ASC") }).
		Preload("Answers.Comments.User").
		First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load question")
		return
	}

	payload := gin.H{"question": question}
	utils.CacheSetJSON("cache:question:detail:"+questionID, wrap(payload), time.Hour)
	utils.Success(ctx, payload)
}

// Update allows the owner to edit title, description and tags.
func (q *QuestionController) Update(ctx *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"required"`
		Description string   `json:"description" binding:"required"`
		Tags        []string `json:"tags"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	title := utils.SanitizeStrict(strings.TrimSpace(req.Title))
	if len(title) < 10 {
		utils.Error(ctx, http.StatusBadRequest, 40021, "title must be at least 10 characters long")
		return
	}
	description := utils.Sanitize(req.Description)
	if len(strings.TrimSpace(description)) < 20 {
		utils.Error(ctx, http.StatusBadRequest, 40022, "description must be at least 20 characters long")
		return
	}

	questionID := ctx.Param("id")
	var question models.Question
	if err := q.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load question")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if question.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own questions")
		return
	}

	question.Title = title
	question.Description = description
	if req.Tags != nil {
		tags, err := services.EnsureTags(q.db, services.NormalizeTags(req.Tags))
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to resolve tags")
			return
		}
		if err := q.db.Model(&question).Association("Tags").Replace(tags); err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update tags")
			return
		}
	}
	if err := q.db.Save(&question).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update question")
		return
	}

	utils.InvalidateByPrefix("cache:questions:list:")
	utils.InvalidateByPrefix("cache:question:detail:" + questionID)

	utils.Success(ctx, gin.H{"question": question})
}

// Delete removes a question and cascades to its answers, their comments and
// all votes referencing any of them, in one transaction.
func (q *QuestionController) Delete(ctx *gin.Context) {
	questionID := ctx.Param("id")
	var question models.Question
	if err := q.db.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "question not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load question")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if question.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own questions")
		return
	}

	err := q.db.Transaction(func(tx *gorm.DB) error {
		var answerIDs []uint
		if err := tx.Model(&models.Answer{}).Where("question_id = ?", question.ID).Pluck("id", &answerIDs).Error; err != nil {
			return err
		}
		if len(answerIDs) > 0 {
			if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetAnswer, answerIDs).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetQuestion, question.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&question).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to delete question")
		return
	}

	q.activity.Log(userID, "question.delete", fmt.Sprintf("question %s", questionID))
	utils.InvalidateByPrefix("cache:questions:list:")
	utils.InvalidateByPrefix("cache:question:detail:" + questionID)

	utils.Success(ctx, gin.H{"message": "question deleted"})
}

// Vote casts, switches or undoes the caller's vote on a question.
func (q *QuestionController) Vote(ctx *gin.Context) {
	q.castVote(ctx, models.TargetQuestion)
}

func (q *QuestionController) castVote(ctx *gin.Context, targetType string) {
	var req struct {
		Vote int `json:"vote" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "vote must be 1 (upvote) or -1 (downvote)")
		return
	}

	idNum, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid target id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	result, err := q.ledger.Cast(userID, targetType, uint(idNum), req.Vote)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVote):
			utils.Error(ctx, http.StatusBadRequest, 40030, "vote must be 1 (upvote) or -1 (downvote)")
		case errors.Is(err, services.ErrTargetNotFound):
			utils.Error(ctx, http.StatusNotFound, 40403, targetType+" not found")
		case errors.Is(err, services.ErrSelfVote):
			utils.Error(ctx, http.StatusForbidden, 40303, "you cannot vote on your own "+targetType)
		case errors.Is(err, services.ErrAlreadyVoted):
			utils.Error(ctx, http.StatusConflict, 40902, "already voted")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50030, "vote failed")
		}
		return
	}

	q.activity.Log(userID, "vote", fmt.Sprintf("%s %d value %d", targetType, idNum, req.Vote))
	if targetType == models.TargetQuestion {
		utils.InvalidateByPrefix("cache:question:detail:" + ctx.Param("id"))
	}
	utils.InvalidateByPrefix("cache:questions:list:")

	utils.Success(ctx, result)
}
