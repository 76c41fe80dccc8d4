package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/utils"
)

// UserController serves public profiles and profile edits.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// publicProfile is the externally visible subset of a user record.
type publicProfile struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	Questions int64     `json:"question_count"`
	Answers   int64     `json:"answer_count"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Get returns a user's public profile with activity counts.
func (u *UserController) Get(ctx *gin.Context) {
	id := ctx.Param("id")
	cacheKey := "cache:user:profile:" + id

	if cached, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40407, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to load user")
		return
	}

	profile := publicProfile{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		JoinedAt:  user.CreatedAt,
	}
	u.db.Model(&models.Question{}).Where("user_id = ?", user.ID).Count(&profile.Questions)
	u.db.Model(&models.Answer{}).Where("user_id = ?", user.ID).Count(&profile.Answers)

	utils.CacheSetJSON(cacheKey, wrap(gin.H{"user": profile}), 10*time.Minute)
	utils.Success(ctx, gin.H{"user": profile})
}

// UpdateProfile lets the caller edit their own bio and avatar.
func (u *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Username  *string `json:"username"`
		Email     *string `json:"email"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid profile payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Username != nil {
		username := strings.TrimSpace(utils.SanitizeStrict(*req.Username))
		if len(username) < 3 || len(username) > 64 {
			utils.Error(ctx, http.StatusBadRequest, 40072, "username must be 3-64 characters")
			return
		}
		updates["username"] = username
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !strings.Contains(email, "@") {
			utils.Error(ctx, http.StatusBadRequest, 40073, "valid email is required")
			return
		}
		updates["email"] = email
	}
	if req.Bio != nil {
		updates["bio"] = utils.SanitizeStrict(*req.Bio)
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = utils.SanitizeStrict(*req.AvatarURL)
	}
	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40071, "nothing to update")
		return
	}

	if err := u.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to update profile")
		return
	}

	utils.InvalidateByPrefix(fmt.Sprintf("cache:user:profile:%d", userID))
	utils.Success(ctx, gin.H{"message": "profile updated"})
}
