package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ihost-app/ihost-backend/config"
	"github.com/ihost-app/ihost-backend/database"
	"github.com/ihost-app/ihost-backend/internal/auth"
	"github.com/ihost-app/ihost-backend/internal/event"
	"github.com/ihost-app/ihost-backend/internal/notification"
	"github.com/ihost-app/ihost-backend/routes"
	"github.com/ihost-app/ihost-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis init failed, live fan-out disabled: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka(cfg)
	defer utils.CloseKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&event.Event{},
		&event.Registration{},
		&event.Like{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.Setup(router, db, cfg)

	log.Printf("🚀 Server listening on :%s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
