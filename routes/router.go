package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stackit/stackit/config"
	"github.com/stackit/stackit/controllers"
	"github.com/stackit/stackit/middleware"
	"github.com/stackit/stackit/services"
	"github.com/stackit/stackit/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	moderation := services.NewModerationClient(cfg.ModerationServiceURL)
	r.GET("/ai-health", func(ctx *gin.Context) {
		if moderation.Healthy() {
			utils.Success(ctx, gin.H{"status": "ok"})
			return
		}
		utils.Error(ctx, http.StatusServiceUnavailable, 50301, "moderation service unavailable")
	})

	authController := controllers.NewAuthController(db)
	questionController := controllers.NewQuestionController(db)
	answerController := controllers.NewAnswerController(db)
	commentController := controllers.NewCommentController(db)
	tagController := controllers.NewTagController(db)
	notificationController := controllers.NewNotificationController(db)
	userController := controllers.NewUserController(db)
	adminController := controllers.NewAdminController(db)
	feedbackController := controllers.NewFeedbackController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public read surface
	api.GET("/questions", questionController.List)
	api.GET("/questions/:id", questionController.Get)
	api.GET("/answers/:id/comments", commentController.List)
	api.GET("/tags", tagController.List)
	api.GET("/users/:id", userController.Get)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/questions", questionController.Create)
	protected.PUT("/questions/:id", questionController.Update)
	protected.DELETE("/questions/:id", questionController.Delete)
	protected.POST("/questions/:id/vote", questionController.Vote)
	protected.POST("/questions/:id/answers", answerController.Submit)

	protected.POST("/answers/:id/vote", answerController.Vote)
	protected.POST("/answers/:id/accept", answerController.Accept)
	protected.PUT("/answers/:id", answerController.Update)
	protected.DELETE("/answers/:id", answerController.Delete)
	protected.POST("/answers/:id/comments", commentController.Create)
	protected.DELETE("/comments/:commentId", commentController.Delete)

	protected.POST("/tags/suggest", tagController.Suggest)

	protected.GET("/notifications", notificationController.List)
	protected.PATCH("/notifications/:id/read", notificationController.MarkRead)
	protected.PATCH("/notifications", notificationController.MarkAllRead)

	protected.PATCH("/users/profile", userController.UpdateProfile)
	protected.POST("/feedback", feedbackController.Submit)

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.AdminRequired())
	adminGroup.GET("/pending-admins", adminController.PendingAdmins)
	adminGroup.POST("/users/:id/approve-admin", adminController.ApproveAdmin)
	adminGroup.POST("/users/:id/decline-admin", adminController.DeclineAdmin)
	adminGroup.POST("/users/:id/ban", adminController.BanUser)
	adminGroup.POST("/users/:id/unban", adminController.UnbanUser)
	adminGroup.POST("/broadcast", adminController.Broadcast)
	adminGroup.GET("/reports", adminController.Reports)
	adminGroup.GET("/stats", adminController.Stats)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
