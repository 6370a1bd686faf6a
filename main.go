// File: staybot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybot/config"
	"staybot/cron"
	"staybot/database"
	historyRepo "staybot/database/repository/history"
	"staybot/handlers"
	"staybot/middleware"
	"staybot/routes"
	"staybot/services/availability"
	"staybot/services/chat"
	"staybot/services/nlu"
	"staybot/services/responder"
	"staybot/services/session"
	"staybot/services/tasks"
	"staybot/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.InitIdempotencyCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	chatHistoryRepo := historyRepo.NewMongoHistoryRepo()

	// background worker and task queue.
	cron.InitArchiveWorker(chatHistoryRepo)
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// services.
	sessionStore := session.NewRedisStore(utils.GetSessionCacheClient())
	idemStore := chat.NewRedisIdempotencyStore(utils.GetIdempotencyCacheClient())
	provider := availability.NewHTTPProvider(config.AppConfig.BackendURL)

	var gen responder.Generator
	if config.AppConfig.GeminiAPIKey != "" {
		g, err := responder.NewGeminiGenerator(config.AppConfig.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize response generator: %v", err)
		}
		gen = g
	} else {
		logger.Warn("GEMINI_API_KEY not set, replies fall back to a generic message")
	}

	chatService := chat.NewDefaultChatService(chat.Deps{
		Extractor:    nlu.NewExtractor(),
		Classifier:   nlu.NewClassifier(),
		Availability: provider,
		Sessions:     sessionStore,
		Guard:        chat.NewIdempotencyGuard(idemStore),
		Responder:    gen,
		History:      chatHistoryRepo,
		Archiver:     tasks.NewArchiver(queueClient),
		FrontendURL:  config.AppConfig.FrontendURL,
	})

	chatHandler := handlers.NewChatHandler(chatService)
	historyHandler := handlers.NewHistoryHandler(chatService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ProcessMessageHandler: chatHandler.ProcessMessageHandler,
		GetUserHistoryHandler: historyHandler.GetUserHistoryHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
