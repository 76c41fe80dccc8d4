package main

import (
	"github.com/stackit/stackit/config"
	"github.com/stackit/stackit/models"
	"github.com/stackit/stackit/routes"
	"github.com/stackit/stackit/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Tag{},
		&models.Vote{},
		&models.Notification{},
		&models.AdminMessage{},
		&models.ActivityLog{},
		&models.Feedback{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
