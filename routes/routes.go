package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ihost-app/ihost-backend/config"
	"github.com/ihost-app/ihost-backend/internal/auth"
	"github.com/ihost-app/ihost-backend/internal/event"
	"github.com/ihost-app/ihost-backend/internal/notification"
	"github.com/ihost-app/ihost-backend/internal/userprofile"
	"github.com/ihost-app/ihost-backend/middleware"
	"github.com/ihost-app/ihost-backend/utils"
)

// Setup wires every handler onto the router.
func Setup(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RateLimiter())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Repositories & services
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	notificationRepo := notification.NewRepository(db)
	notificationSvc := notification.NewService(notificationRepo, cfg)
	notificationHandler := notification.NewHandler(notificationSvc)
	notification.StartKafkaConsumer(notificationSvc, cfg)

	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, notification.NewKafkaPublisher())

	uploader, err := utils.NewS3Storage(cfg)
	if err != nil {
		panic(err)
	}
	eventHandler := event.NewHandler(eventSvc, uploader)

	profileRepo := userprofile.NewRepository(db)
	profileSvc := userprofile.NewService(profileRepo, eventSvc)
	profileHandler := userprofile.NewHandler(profileSvc)

	api := router.Group("/api/v1")

	// Public auth endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Everything else requires a valid access token
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		events := protected.Group("/events")
		{
			events.GET("/nearby", eventHandler.Nearby)
			events.GET("/hosted", eventHandler.Hosted)
			events.GET("/attended", eventHandler.Attended)
			events.POST("", eventHandler.Create)
			events.POST("/images", eventHandler.UploadImage)
			events.GET("/:id", eventHandler.Get)
			events.DELETE("/:id", eventHandler.Delete)
			events.POST("/:id/register", eventHandler.Register)
			events.POST("/:id/like", eventHandler.ToggleLike)
		}

		protected.GET("/profile", profileHandler.GetProfile)
		protected.PATCH("/profile", profileHandler.UpdateProfile)
		protected.GET("/users/:id/profile", profileHandler.GetPublicProfile)

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/devices", notificationHandler.RegisterDevice)
			notifications.DELETE("/devices", notificationHandler.RemoveDevice)
		}
	}
}
