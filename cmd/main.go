package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/disaster_response_hub/internal/ai"
	"github.com/shenikar/disaster_response_hub/internal/broadcast"
	"github.com/shenikar/disaster_response_hub/internal/config"
	v1 "github.com/shenikar/disaster_response_hub/internal/handler/http/v1"
	"github.com/shenikar/disaster_response_hub/internal/repository"
	"github.com/shenikar/disaster_response_hub/internal/service"
	"github.com/shenikar/disaster_response_hub/pkg/logger"
	"github.com/shenikar/disaster_response_hub/pkg/mongodb"
	redisclient "github.com/shenikar/disaster_response_hub/pkg/redis"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Подключение к MongoDB
	mongoClient, err := mongodb.NewMongoClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to disconnect from MongoDB")
		}
	}()
	log.Info("Successfully connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Info("Successfully connected to Redis")

	// Каналы доставки событий: WebSocket-хаб и ретрансляция в вебхуки через Redis
	hub := broadcast.NewHub(log)
	relay := broadcast.NewRedisRelay(redisClient, log)
	dispatcher := broadcast.NewDispatcher(log, hub, relay)

	relayWorker := broadcast.NewRelayWorker(redisClient, log, cfg)
	relayWorker.Start(ctx)

	// Инициализация репозиториев
	incidentRepo := repository.NewIncidentRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	volunteerRepo := repository.NewVolunteerRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	if err := missionRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create mission indexes: %v", err)
	}

	// Инициализация AI-клиента
	aiClient := ai.NewClient(cfg, log)

	// Инициализация сервисов
	missionAgent := service.NewMissionAgent(missionRepo, aiClient, dispatcher, log)
	incidentService := service.NewIncidentService(incidentRepo, aiClient, missionAgent, dispatcher, log)
	missionService := service.NewMissionService(missionRepo, dispatcher, log)
	volunteerService := service.NewVolunteerService(volunteerRepo, dispatcher, log)
	inventoryService := service.NewInventoryService(inventoryRepo, dispatcher, log)

	// Фоновый агент досоздания миссий
	sweeper := service.NewSweeper(incidentRepo, missionRepo, missionAgent, log)
	sweeper.Start(cfg.SweepInterval)

	// Инициализация хэндлеров
	handler := v1.NewHandler(incidentService, missionService, volunteerService, inventoryService, sweeper, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	api.Use(v1.APIKeyAuthMiddleware(cfg, log))
	handler.RegisterRoutes(api)

	// WebSocket-подписка на события, без API-ключа
	router.GET("/ws", gin.WrapH(hub))

	// Запуск HTTP-сервера
	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)

	srv := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	sweeper.Stop()
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
