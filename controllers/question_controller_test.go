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

func questionRouter(db *gorm.DB, user *models.User) *gin.Engine {
	qc := NewQuestionController(db)
	r := gin.New()
	r.POST("/questions", asUser(user), qc.Create)
	r.GET("/questions/:id", qc.Get)
	r.POST("/questions/:id/vote", asUser(user), qc.Vote)
	r.DELETE("/questions/:id", asUser(user), qc.Delete)
	return r
}

func TestCreateQuestion(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleUser)
	r := questionRouter(db, user)

	w := doJSON(r, http.MethodPost, "/questions", gin.H{
		"title":       "How do I cancel a goroutine cleanly?",
		"description": "I start a worker goroutine and need to stop it when the request ends.",
		"tags":        []string{"Go", " go ", "Concurrency"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var question models.Question
	require.NoError(t, db.Preload("Tags").First(&question).Error)
	assert.Equal(t, user.ID, question.UserID)

	names := make([]string, 0, len(question.Tags))
	for _, tag := range question.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"go", "concurrency"}, names)
}

func TestCreateQuestionShortTitle(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleUser)
	r := questionRouter(db, user)

	w := doJSON(r, http.MethodPost, "/questions", gin.H{
		"title":       "short",
		"description": "a perfectly long enough description of the problem",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateQuestionShortDescription(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleUser)
	r := questionRouter(db, user)

	w := doJSON(r, http.MethodPost, "/questions", gin.H{
		"title":       "a valid question title",
		"description": "too short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoteEndpointFlow(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", models.RoleUser)
	voter := createUser(t, db, "bob", models.RoleUser)
	question := createQuestion(t, db, owner)
	r := questionRouter(db, voter)

	path := fmt.Sprintf("/questions/%d/vote", question.ID)

	w := doJSON(r, http.MethodPost, path, gin.H{"vote": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w)
	assert.EqualValues(t, 1, data["upvotes"])
	assert.EqualValues(t, 1, data["user_vote"])

	// Same ballot again undoes the vote.
	w = doJSON(r, http.MethodPost, path, gin.H{"vote": 1})
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.EqualValues(t, 0, data["upvotes"])
	assert.Nil(t, data["user_vote"])
}

func TestVoteEndpointSelfVote(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", models.RoleUser)
	question := createQuestion(t, db, owner)
	r := questionRouter(db, owner)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/questions/%d/vote", question.ID), gin.H{"vote": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVoteEndpointInvalidValue(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", models.RoleUser)
	voter := createUser(t, db, "bob", models.RoleUser)
	question := createQuestion(t, db, owner)
	r := questionRouter(db, voter)

	w := doJSON(r, http.MethodPost, fmt.Sprintf("/questions/%d/vote", question.ID), gin.H{"vote": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVoteEndpointMissingTarget(t *testing.T) {
	db := newTestDB(t)
	voter := createUser(t, db, "bob", models.RoleUser)
	r := questionRouter(db, voter)

	w := doJSON(r, http.MethodPost, "/questions/9999/vote", gin.H{"vote": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteQuestionCascades(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)
	voter := createUser(t, db, "carol", models.RoleUser)
	question := createQuestion(t, db, owner)
	answer := createAnswer(t, db, question, answerer)

	require.NoError(t, db.Create(&models.Comment{
		AnswerID: answer.ID, UserID: voter.ID, Content: "nice answer",
	}).Error)
	require.NoError(t, db.Create(&models.Vote{
		UserID: voter.ID, TargetType: models.TargetAnswer, TargetID: answer.ID, Value: models.VoteUp,
	}).Error)
	require.NoError(t, db.Create(&models.Vote{
		UserID: voter.ID, TargetType: models.TargetQuestion, TargetID: question.ID, Value: models.VoteUp,
	}).Error)

	r := questionRouter(db, owner)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/questions/%d", question.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var count int64
	db.Model(&models.Question{}).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Answer{}).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Comment{}).Count(&count)
	assert.EqualValues(t, 0, count)
	db.Model(&models.Vote{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDeleteQuestionForbiddenForStranger(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", models.RoleUser)
	stranger := createUser(t, db, "mallory", models.RoleUser)
	question := createQuestion(t, db, owner)

	r := questionRouter(db, stranger)
	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/questions/%d", question.ID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	db.Model(&models.Question{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
