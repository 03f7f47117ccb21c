package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "seoulholic-bot/internal/app"
	"seoulholic-bot/internal/bootstrap"
	"seoulholic-bot/internal/model"
	"seoulholic-bot/internal/repository"
	"seoulholic-bot/internal/transport/http/handler"
	"seoulholic-bot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	// Promotional images must be HTTPS-reachable for LINE to render them.
	if app.Config.Knowledge.ImageDir != "" {
		router.Static("/images", app.Config.Knowledge.ImageDir)
	}

	webhookHandler := handler.NewWebhookHandler(app.ChatService, app.LineClient)
	router.POST("/webhook", webhookHandler.Handle)

	chatHandler := handler.NewChatHandler(app.ChatService)
	v1 := router.Group("/api/v1")
	chatGroup := v1.Group("/chat")
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.POST("/stream", chatHandler.StreamMessage)
	chatGroup.POST("/reset", chatHandler.Reset)

	// Auth and admin need MySQL for accounts; without it the bot runs as a
	// pure chat pipeline.
	if app.MySQL != nil {
		userRepo := repository.NewUserRepository(app.MySQL)
		authService := appsvc.NewAuthService(
			userRepo,
			app.Config.Auth.JWTSecret,
			time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		)
		authHandler := handler.NewAuthHandler(authService)

		authGroup := v1.Group("/auth")
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

		transcriptRepo := repository.NewTranscriptRepository(app.MySQL)
		adminHandler := handler.NewAdminHandler(app, transcriptRepo)

		// Any staff member may inspect; only admins may mutate.
		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))
		adminGroup.GET("/cache/stats", adminHandler.CacheStats)
		adminGroup.GET("/sessions", adminHandler.Sessions)
		adminGroup.GET("/transcripts", adminHandler.Transcripts)

		adminOnly := adminGroup.Group("")
		adminOnly.Use(middleware.RequireRole(model.RoleAdmin))
		adminOnly.POST("/knowledge/reload", adminHandler.ReloadKnowledge)
		adminOnly.POST("/cache/clear", adminHandler.ClearCache)
	}

	return router
}
