package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit/stackit/models"
)

func TestSubmitFeedback(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleUser)

	fc := NewFeedbackController(db)
	r := gin.New()
	r.POST("/feedback", asUser(user), fc.Submit)

	w := doJSON(r, http.MethodPost, "/feedback", gin.H{"rating": 5, "message": "great site"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var fb models.Feedback
	require.NoError(t, db.First(&fb).Error)
	assert.Equal(t, 5, fb.Rating)
	assert.Equal(t, user.ID, fb.UserID)
}

func TestSubmitFeedbackRatingOutOfRange(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", models.RoleUser)

	fc := NewFeedbackController(db)
	r := gin.New()
	r.POST("/feedback", asUser(user), fc.Submit)

	for _, rating := range []int{0, 6, -1} {
		w := doJSON(r, http.MethodPost, "/feedback", gin.H{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
	}
}
