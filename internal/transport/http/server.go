package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "localchat/internal/app"
	"localchat/internal/bootstrap"
	"localchat/internal/cache"
	"localchat/internal/extract"
	"localchat/internal/platform/rabbitmq"
	"localchat/internal/rag"
	"localchat/internal/repository"
	"localchat/internal/transport/http/handler"
	"localchat/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)
	documentRepo := repository.NewDocumentRepository(app.MySQL)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	historyProvider := appsvc.NewHistoryProvider(messageRepo, historyCache)

	retriever := rag.NewRetriever(documentRepo, app.Config.Chat.TopK)
	composer := rag.NewComposer(retriever, historyProvider)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	var tika extract.TikaExtractor
	if app.Config.Tika.ServerURL != "" {
		tika = extract.NewTikaClient(app.Config.Tika.ServerURL)
	}
	extractor := extract.New(tika)

	jwtExpiration := time.Duration(app.Config.Auth.JWTExpireMinute) * time.Minute
	authService := appsvc.NewAuthService(userRepo, app.Config.Auth.JWTSecret, jwtExpiration)
	chatService := appsvc.NewChatService(
		conversationRepo,
		historyProvider,
		publisher,
		composer,
		app.Ollama,
		app.Settings,
		app.Config.Ollama.DefaultModel,
	)
	documentService := appsvc.NewDocumentService(documentRepo, extractor, retriever, app.Settings)
	adminService := appsvc.NewAdminService(userRepo, conversationRepo, messageRepo, app.Config.Admin.Key)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	conversationHandler := handler.NewConversationHandler(chatService)
	documentHandler := handler.NewDocumentHandler(documentService)
	configHandler := handler.NewConfigHandler(app.Settings)
	modelsHandler := handler.NewModelsHandler(app.Ollama, app.Settings)
	adminHandler := handler.NewAdminHandler(adminService, app.Config.Auth.JWTSecret, jwtExpiration)

	authed := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authed, authHandler.Me)

	v1.POST("/messages", authed, chatHandler.SendMessage)
	v1.GET("/messages", authed, chatHandler.GetHistory)

	conversationGroup := v1.Group("/conversations")
	conversationGroup.Use(authed)
	conversationGroup.POST("", conversationHandler.Create)
	conversationGroup.GET("", conversationHandler.List)
	conversationGroup.GET("/:id", conversationHandler.Get)
	conversationGroup.PATCH("/:id", conversationHandler.Rename)
	conversationGroup.DELETE("/:id", conversationHandler.Delete)

	documentGroup := v1.Group("/documents")
	documentGroup.Use(authed)
	documentGroup.POST("/upload", documentHandler.Upload)
	documentGroup.GET("", documentHandler.List)
	documentGroup.POST("/search", documentHandler.Search)
	documentGroup.DELETE("/:id", documentHandler.Delete)

	v1.GET("/config", configHandler.Get)
	v1.PUT("/config", authed, configHandler.Update)
	v1.GET("/models", authed, modelsHandler.List)

	adminGroup := v1.Group("/admin")
	adminGroup.POST("/login", adminHandler.Login)
	adminGroup.GET("/dashboard", authed, middleware.AdminOnly(authService), adminHandler.Dashboard)

	return router
}
