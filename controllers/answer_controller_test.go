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

func answerRouter(db *gorm.DB, user *models.User) *gin.Engine {
	ac := NewAnswerController(db)
	r := gin.New()
	r.POST("/questions/:id/answers", asUser(user), ac.Submit)
	r.POST("/answers/:id/vote", asUser(user), ac.Vote)
	r.POST("/answers/:id/accept", asUser(user), ac.Accept)
	r.DELETE("/answers/:id", asUser(user), ac.Delete)
	return r
}

func TestSubmitAnswer(t *testing.T) {
	db := newTestDB(t)
	asker := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)
	question := createQuestion(t, db, asker)
	r := answerRouter(db, answerer)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/questions/%d/answers", question.ID), gin.H{
		"content": "you should use a context with cancellation",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var answer models.Answer
	require.NoError(t, db.First(&answer).Error)
	assert.Equal(t, question.ID, answer.QuestionID)
	assert.Equal(t, answerer.ID, answer.UserID)
}

func TestSubmitAnswerMissingQuestion(t *testing.T) {
	db := newTestDB(t)
	answerer := createUser(t, db, "bob", models.RoleUser)
	r := answerRouter(db, answerer)

	w := doJSON(r, http.MethodPost, "/questions/9999/answers", gin.H{
		"content": "answering into the void",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAcceptAnswer(t *testing.T) {
	db := newTestDB(t)
	asker := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)
	question := createQuestion(t, db, asker)
	answer := createAnswer(t, db, question, answerer)

	r := answerRouter(db, asker)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/answers/%d/accept", answer.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.Question
	require.NoError(t, db.First(&fresh, question.ID).Error)
	require.NotNil(t, fresh.AcceptedAnswerID)
	assert.Equal(t, answer.ID, *fresh.AcceptedAnswerID)
}

func TestAcceptAnswerOnlyQuestionOwner(t *testing.T) {
	db := newTestDB(t)
	asker := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)
	question := createQuestion(t, db, asker)
	answer := createAnswer(t, db, question, answerer)

	// The answer's own author cannot accept it.
	r := answerRouter(db, answerer)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/answers/%d/accept", answer.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnswerVote(t *testing.T) {
	db := newTestDB(t)
	asker := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)
	voter := createUser(t, db, "carol", models.RoleUser)
	question := createQuestion(t, db, asker)
	answer := createAnswer(t, db, question, answerer)

	r := answerRouter(db, voter)
	w := doJSON(r, http.MethodPost, fmt.Sprintf("/answers/%d/vote", answer.ID), gin.H{"vote": -1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.EqualValues(t, 1, data["downvotes"])
	assert.EqualValues(t, -1, data["user_vote"])
}

func TestDeleteAnswerClearsAcceptance(t *testing.T) {
	db := newTestDB(t)
	asker := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)
	question := createQuestion(t, db, asker)
	answer := createAnswer(t, db, question, answerer)

	require.NoError(t, db.Model(&models.Question{}).
		Where("id = ?", question.ID).Update("accepted_answer_id", answer.ID).Error)

	r := answerRouter(db, answerer)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/answers/%d", answer.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fresh models.Question
	require.NoError(t, db.First(&fresh, question.ID).Error)
	assert.Nil(t, fresh.AcceptedAnswerID)
}
