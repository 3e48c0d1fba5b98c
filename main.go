package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/kdteam/kd-restaurant/config"
	"github.com/kdteam/kd-restaurant/router"
	"github.com/kdteam/kd-restaurant/services"
	"github.com/kdteam/kd-restaurant/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("database init failed: %v", err)
	}

	statuses, err := services.ResolveTableStatuses(db)
	if err != nil {
		utils.ErrorLogger.Fatalf("status resolution failed: %v", err)
	}

	membershipSvc := services.NewMembershipService(db)
	notifier := services.NewBookingNotifier()
	bookingSvc := services.NewBookingService(db, statuses, membershipSvc, notifier)

	r := router.SetupRouter(db, bookingSvc, membershipSvc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	utils.InfoLogger.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatalf("server stopped: %v", err)
	}
}
