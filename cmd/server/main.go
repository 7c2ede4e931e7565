package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/studentious/studentious/internal/ai"
	"github.com/studentious/studentious/internal/api"
	"github.com/studentious/studentious/internal/config"
	"github.com/studentious/studentious/internal/db"
	"github.com/studentious/studentious/internal/middleware"
	"github.com/studentious/studentious/internal/observ"
	"github.com/studentious/studentious/internal/realtime"
	"github.com/studentious/studentious/internal/repository/postgres"
	"github.com/studentious/studentious/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline; request contexts take over once serving.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	broker, err := realtime.NewBroker(cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer broker.Close()

	uploads, err := storage.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return fmt.Errorf("configure storage: %w", err)
	}

	model := ai.New(cfg.AIBaseURL, cfg.AIAPIKey)

	pool := database.Pool()
	eventStore := postgres.NewEventStore(pool)
	registrationStore := postgres.NewRegistrationStore(pool)
	chatStore := postgres.NewChatStore(pool)
	messageStore := postgres.NewMessageStore(pool)
	attachmentStore := postgres.NewAttachmentStore(pool)
	curriculumStore := postgres.NewCurriculumStore(pool)
	userStore := postgres.NewUserStore(pool)

	eventHandler := api.NewEventHandler(eventStore, registrationStore, userStore, uploads, logger)
	calendarHandler := api.NewCalendarHandler(eventStore, logger)
	summaryHandler := api.NewSummaryHandler(eventStore, curriculumStore, model, uploads, logger)
	curriculumHandler := api.NewCurriculumHandler(eventStore, curriculumStore, uploads, logger)
	profileHandler := api.NewProfileHandler(userStore, uploads, logger)
	chatHandler := api.NewChatHandler(chatStore, logger)
	messageHandler := api.NewMessageHandler(messageStore, attachmentStore, broker, logger)
	attachmentHandler := api.NewAttachmentHandler(attachmentStore, uploads, logger)
	streamHandler := api.NewStreamHandler(chatStore, broker, logger)

	srv := gin.New()
	srv.Use(gin.Logger(), gin.Recovery())

	// Public: health for load balancers, calendar export for calendar apps.
	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})
	srv.GET("/v1/calendar/:id", calendarHandler.Export)

	v1 := srv.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	v1.GET("/events", eventHandler.List)
	v1.POST("/events", eventHandler.Create)
	v1.GET("/events/grouped", eventHandler.ListGrouped)
	v1.GET("/events/recommended", eventHandler.ListRecommended)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.POST("/events/:id/join", eventHandler.Join)

	v1.PUT("/events/:id/summary", summaryHandler.Update)
	v1.POST("/events/:id/summary/generate", summaryHandler.Generate)
	v1.POST("/events/:id/podcast", summaryHandler.GeneratePodcast)

	v1.POST("/events/:id/curriculum", curriculumHandler.Upload)
	v1.GET("/events/:id/curriculum", curriculumHandler.List)
	v1.DELETE("/curriculum/:id", curriculumHandler.Delete)

	v1.GET("/profile", profileHandler.Get)
	v1.PUT("/profile", profileHandler.Update)

	v1.POST("/chats", chatHandler.Create)
	v1.GET("/chats", chatHandler.List)
	v1.GET("/chats/:id", chatHandler.GetByID)
	v1.GET("/chats/:id/messages", messageHandler.List)
	v1.POST("/chats/:id/messages", messageHandler.Create)
	v1.POST("/chats/:id/attachments", attachmentHandler.Upload)
	v1.GET("/chats/:id/attachments", attachmentHandler.List)
	v1.GET("/chats/:id/ws", streamHandler.Stream)

	logger.Info("starting studentious",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	return srv.Run(":" + cfg.Port)
}
