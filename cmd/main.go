package main

import (
	"fmt"
	"os"

	"github.com/yungbote/gigpost-backend/internal/bus"
	"github.com/yungbote/gigpost-backend/internal/clients/scheduler"
	"github.com/yungbote/gigpost-backend/internal/handlers"
	"github.com/yungbote/gigpost-backend/internal/logger"
	"github.com/yungbote/gigpost-backend/internal/middleware"
	"github.com/yungbote/gigpost-backend/internal/server"
	"github.com/yungbote/gigpost-backend/internal/services"
	"github.com/yungbote/gigpost-backend/internal/store"
	"github.com/yungbote/gigpost-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	redisAddr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	selfURL := utils.GetEnv("SELF_URL", "http://localhost:8080", log)
	schedulerURL := utils.GetEnv("SCHEDULER_URL", "", log)
	maxUpdateRetry := utils.GetEnvAsInt("MAX_UPDATE_RETRY", 3, log)
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)
	topics := services.Topics{
		Updates:           utils.GetEnv("TOPIC_UPDATES", services.DefaultUpdatesTopic, log),
		TTL:               utils.GetEnv("TOPIC_TTL", services.DefaultTTLTopic, log),
		UserNotifications: utils.GetEnv("TOPIC_USER_NOTIFICATIONS", services.DefaultUserNotificationsTopic, log),
	}

	// Store
	log.Info("Setting up request store from main...")
	var requestStore store.RequestStore
	redisStore, err := store.NewRedisStore(log, redisAddr)
	if err != nil {
		log.Warn("Redis store init failed, falling back to in-memory store", "error", err)
		requestStore = store.NewMemoryStore()
	} else {
		requestStore = redisStore
	}

	// Bus
	log.Info("Setting up event bus from main...")
	publisher, err := bus.NewRedisBus(log, redisAddr)
	if err != nil {
		log.Warn("Redis bus init failed, fan-out disabled", "error", err)
		publisher = nil
	}
	if publisher != nil {
		defer publisher.Close()
	}

	// Scheduler client
	var schedulerClient scheduler.Client
	if schedulerURL != "" {
		schedulerClient, err = scheduler.NewClient(log, schedulerURL)
		if err != nil {
			log.Warn("Scheduler client init failed, scheduled creates disabled", "error", err)
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	runner := services.NewCommandRunner(log, publisher, topics, maxUpdateRetry)
	requestService := services.NewRequestService(log, requestStore, runner, schedulerClient, selfURL, jwtSecretKey)
	providerService := services.NewProviderService(log, requestStore, runner, selfURL)
	bargainService := services.NewBargainService(log, requestStore, runner)

	// Handlers
	requestHandler := handlers.NewRequestHandler(requestService)
	providerHandler := handlers.NewProviderHandler(providerService)
	bargainHandler := handlers.NewBargainHandler(bargainService)
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:  authMiddleware,
		RequestHandler:  requestHandler,
		ProviderHandler: providerHandler,
		BargainHandler:  bargainHandler,
	})
	log.Info("Starting server...", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
