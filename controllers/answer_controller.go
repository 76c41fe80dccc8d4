package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

// AnswerController manages answers, their votes and acceptance.
type AnswerController struct {
	db       *gorm.DB
	ledger   *services.VoteLedger
	notifier *services.Notifier
	activity *services.ActivityLogger
}

// NewAnswerController creates an AnswerController.
func NewAnswerController(db *gorm.DB) *AnswerController {
	return &AnswerController{
		db:       db,
		ledger:   services.NewVoteLedger(db),
		notifier: services.NewNotifier(db),
		activity: services.NewActivityLogger(db),
	}
}

// Submit posts an answer under a question and notifies the question owner.
func (a *AnswerController) Submit(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "answer content is required")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "answer content is required")
		return
	}

	questionID := ctx.Param("id")
	var question models.Question
	if err := a.db.First(&question, questionID).Error; err != nil {
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

	answer := models.Answer{
		QuestionID: question.ID,
		UserID:     userID,
		Content:    content,
	}
	if err := a.db.Create(&answer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to submit answer")
		return
	}

	// Side effects never fail the primary write.
	go func(q models.Question, actorID uint) {
		defer func() { _ = recover() }()
		var actor models.User
		if err := a.db.First(&actor, actorID).Error; err != nil {
			return
		}
		a.notifier.AnswerPosted(&q, &actor)
	}(question, userID)

	a.activity.Log(userID, "answer.create", fmt.Sprintf("question %d answer %d", question.ID, answer.ID))
	utils.InvalidateByPrefix("cache:question:detail:" + questionID)

	utils.Respond(ctx, http.StatusCreated, 0, "answer submitted", gin.H{"answer": answer})
}

// Vote casts, switches or undoes the caller's vote on an answer.
func (a *AnswerController) Vote(ctx *gin.Context) {
	var req struct {
		Vote int `json:"vote" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "vote must be 1 (upvote) or -1 (downvote)")
		return
	}

	idNum, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid answer id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	result, err := a.ledger.Cast(userID, models.TargetAnswer, uint(idNum), req.Vote)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVote):
			utils.Error(ctx, http.StatusBadRequest, 40030, "vote must be 1 (upvote) or -1 (downvote)")
		case errors.Is(err, services.ErrTargetNotFound):
			utils.Error(ctx, http.StatusNotFound, 40404, "answer not found")
		case errors.Is(err, services.ErrSelfVote):
			utils.Error(ctx, http.StatusForbidden, 40303, "you cannot vote on your own answer")
		case errors.Is(err, services.ErrAlreadyVoted):
			utils.Error(ctx, http.StatusConflict, 40902, "already voted")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50030, "vote failed")
		}
		return
	}

	a.activity.Log(userID, "vote", fmt.Sprintf("answer %d value %d", idNum, req.Vote))
	a.invalidateParentQuestion(uint(idNum))

	utils.Success(ctx, result)
}

// Accept marks an answer as the accepted one for its question. Only the
// question owner may accept, and accepting replaces any prior choice.
func (a *AnswerController) Accept(ctx *gin.Context) {
	var answer models.Answer
	if err := a.db.First(&answer, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40404, "answer not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load answer")
		return
	}

	var question models.Question
	if err := a.db.First(&question, answer.QuestionID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "question not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if question.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40304, "only the question owner can accept an answer")
		return
	}

	if err := a.db.Model(&question).Update("accepted_answer_id", answer.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to accept answer")
		return
	}

	go func(ans models.Answer, qid uint) {
		defer func() { _ = recover() }()
		a.notifier.AnswerAccepted(&ans, qid)
	}(answer, question.ID)

	utils.InvalidateByPrefix(fmt.Sprintf("cache:question:detail:%d", question.ID))
	utils.Success(ctx, gin.H{"message": "answer marked as accepted"})
}

// Update allows the answer owner to edit the content.
func (a *AnswerController) Update(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "answer content is required")
		return
	}

	content := utils.Sanitize(req.Content)
	if strings.TrimSpace(content) == "" {
		utils.Error(ctx, http.StatusBadRequest, 40040, "answer content is required")
		return
	}

	var answer models.Answer
	if err := a.db.First(&answer, ctx.Param("id")).Error; err != nil {
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
	if answer.UserID != userID {
		utils.Error(ctx, http.StatusForbidden, 40301, "you can only update your own answers")
		return
	}

	answer.Content = content
	if err := a.db.Save(&answer).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to update answer")
		return
	}

	a.invalidateParentQuestion(answer.ID)
	utils.Success(ctx, gin.H{"answer": answer})
}

// Delete removes an answer and cascades to its comments and votes. If the
// answer was the accepted one, the question's accepted reference is cleared.
func (a *AnswerController) Delete(ctx *gin.Context) {
	var answer models.Answer
	if err := a.db.First(&answer, ctx.Param("id")).Error; err != nil {
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
	if answer.UserID != userID && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own answers")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", answer.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetAnswer, answer.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Question{}).
			Where("id = ? AND accepted_answer_id = ?", answer.QuestionID, answer.ID).
			Update("accepted_answer_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&answer).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to delete answer")
		return
	}

	a.activity.Log(userID, "answer.delete", fmt.Sprintf("answer %d", answer.ID))
	utils.InvalidateByPrefix(fmt.Sprintf("cache:question:detail:%d", answer.QuestionID))

	utils.Success(ctx, gin.H{"message": "answer deleted"})
}

func (a *AnswerController) invalidateParentQuestion(answerID uint) {
	var answer models.Answer
	if err := a.db.Select("question_id").First(&answer, answerID).Error; err != nil {
		return
	}
	utils.InvalidateByPrefix(fmt.Sprintf("cache:question:detail:%d", answer.QuestionID))
}
