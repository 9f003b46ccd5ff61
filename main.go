package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Newbhjj2222/Litechat/internal/config"
	"github.com/Newbhjj2222/Litechat/internal/db"
	"github.com/Newbhjj2222/Litechat/internal/expiry"
	"github.com/Newbhjj2222/Litechat/internal/handlers"
	"github.com/Newbhjj2222/Litechat/internal/middleware"
	"github.com/Newbhjj2222/Litechat/internal/observability"
	"github.com/Newbhjj2222/Litechat/internal/rabbitmq"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
	"github.com/Newbhjj2222/Litechat/internal/telemetry"
	"github.com/Newbhjj2222/Litechat/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}
	cfg := config.Load()

	database, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	messageRepo := repositories.NewMessageRepo(database)
	statusRepo := repositories.NewStatusRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	convoRepo := repositories.NewConversationRepo(database)

	if publisher, err := observability.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange); err != nil {
		log.Printf("ws event publishing disabled: %v", err)
	} else {
		observability.SetPublisher(publisher)
		defer publisher.Close()
	}

	auditPublisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer auditPublisher.Close()
	audit := telemetry.NewAuditEmitter(auditPublisher, "audit_log.litechat", "litechat", cfg.Environment)

	registry := ws.NewRegistry()
	router := ws.NewRouter(registry, groupRepo, convoRepo)
	wsHandler := ws.NewHandler(registry)

	scheduler := expiry.NewScheduler(messageRepo, statusRepo, cfg.MessageSweepPeriod, cfg.StatusSweepPeriod, cfg.MessageMaxAge)
	stopExpiry := scheduler.Start(context.Background())
	defer stopExpiry()

	chatHandler := handlers.NewChatHandler(messageRepo, groupRepo, convoRepo, router, audit)
	statusHandler := handlers.NewStatusHandler(statusRepo, router, cfg.StatusTTL, audit)
	groupHandler := handlers.NewGroupHandler(groupRepo, router, audit)

	engine := gin.Default()
	engine.Use(gin.Recovery())
	engine.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	engine.POST("/chats/:chat_key/messages", authMiddleware, chatHandler.PostMessage)
	engine.GET("/chats/:chat_key/messages", authMiddleware, chatHandler.GetMessages)
	engine.POST("/messages/:message_id/read", authMiddleware, chatHandler.MarkMessageRead)
	engine.GET("/conversations", authMiddleware, chatHandler.ListConversations)

	engine.POST("/groups", authMiddleware, groupHandler.CreateGroup)
	engine.GET("/groups/:group_id/members", authMiddleware, groupHandler.ListMembers)
	engine.POST("/groups/:group_id/members", authMiddleware, groupHandler.AddMember)
	engine.PATCH("/groups/:group_id/members/:user_id", authMiddleware, groupHandler.UpdateMember)

	engine.POST("/statuses", authMiddleware, statusHandler.CreateStatus)
	engine.GET("/statuses", authMiddleware, statusHandler.ListStatuses)
	engine.POST("/statuses/:status_id/view", authMiddleware, statusHandler.ViewStatus)

	engine.GET("/ws", wsHandler.Handle)
	engine.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(engine, audit, cfg.DebugRoutes)

	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
