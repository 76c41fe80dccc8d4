package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/config"
	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

const tagListCacheKey = "cache:tags:list"

// TagController serves the tag catalog and tag suggestions.
type TagController struct {
	db         *gorm.DB
	moderation *services.ModerationClient
}

// NewTagController creates a TagController.
func NewTagController(db *gorm.DB) *TagController {
	return &TagController{
		db:         db,
		moderation: services.NewModerationClient(config.Get().ModerationServiceURL),
	}
}

// tagItem adds the capitalized display form to the stored lowercase name.
type tagItem struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Display string `json:"display"`
}

func displayName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// List returns all known tags ordered by name.
func (t *TagController) List(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(tagListCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", cached)
		return
	}

	var tags []models.Tag
	if err := t.db.Order("name ASC").Find(&tags).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to fetch tags")
		return
	}

	items := make([]tagItem, 0, len(tags))
	for _, tag := range tags {
		items = append(items, tagItem{ID: tag.ID, Name: tag.Name, Display: displayName(tag.Name)})
	}

	utils.CacheSetJSON(tagListCacheKey, wrap(gin.H{"items": items}), 5*time.Minute)
	utils.Success(ctx, gin.H{"items": items})
}

// Suggest predicts tags for a draft question title and description.
func (t *TagController) Suggest(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "title is required")
		return
	}
	tags := t.moderation.PredictTags(req.Title, req.Description)
	utils.Success(ctx, gin.H{"suggested_tags": tags})
}
