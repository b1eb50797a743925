package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/ws"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level)

	// Подключение к PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	// Проверка подключения к БД
	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	// Подключение к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	// Проверка подключения к Redis
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	// Инициализация репозиториев
	repos := repository.NewRepositories(dbPool, rdb, appLogger)

	// Инициализация сервисов
	services := service.NewServices(repos, cfg, appLogger)

	// Контекст фоновых задач живет до сигнала завершения
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()

	// Реестр комнат чата: redis для нескольких процессов, memory для одного
	var registry ws.Registry
	switch cfg.Chat.Broadcast {
	case "memory":
		registry = ws.NewMemoryRegistry(appLogger)
		appLogger.Info("Chat broadcast backend: memory")
	default:
		redisRegistry := ws.NewRedisRegistry(rdb, appLogger)
		go func() {
			if err := redisRegistry.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				appLogger.Error("Chat subscriber stopped", "error", err)
			}
		}()
		registry = redisRegistry
		appLogger.Info("Chat broadcast backend: redis")
	}

	// Инициализация middleware
	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	// Инициализация handlers
	handlers := handler.NewHandlers(services, registry, cfg, appLogger)

	// Настройка роутера
	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg)

	// Запуск HTTP сервера
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Ожидание сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancelRun()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.ErrorHandler())

	// Health check
	router.GET("/health", handlers.Health.Check)

	// Server info - для получения настроек сервера клиентами
	router.GET("/server-info", handlers.Health.ServerInfo)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Публичные endpoints
		public := v1.Group("/auth")
		{
			public.POST("/register", rateLimitMiddleware.Limit(10, 60), handlers.Auth.Register)
			public.POST("/login", rateLimitMiddleware.Limit(10, 60), handlers.Auth.Login)
			public.POST("/refresh", handlers.Auth.RefreshToken)
			public.POST("/logout", handlers.Auth.Logout)
		}

		// Защищенные endpoints
		protected := v1.Group("")
		protected.Use(authMiddleware.RequireAuth())
		{
			// Пользователи
			users := protected.Group("/users")
			{
				users.GET("/me", handlers.User.GetMe)
			}

			// Дашборд
			protected.GET("/dashboard", handlers.Stats.Dashboard)

			// Проекты
			projects := protected.Group("/projects")
			{
				projects.POST("", handlers.Project.Create)
				projects.GET("", handlers.Project.List)
				projects.GET("/:id", handlers.Project.Get)
				projects.GET("/:id/board", handlers.Project.Board)
				projects.PUT("/:id", handlers.Project.Update)
				projects.DELETE("/:id", handlers.Project.Delete)
				projects.POST("/:id/columns", handlers.Project.CreateColumn)
				projects.POST("/:id/labels", handlers.Project.CreateLabel)
				projects.POST("/:id/tasks", handlers.Task.Create)
			}

			// Колонки и метки
			protected.PUT("/columns/:id", handlers.Project.UpdateColumn)
			protected.DELETE("/columns/:id", handlers.Project.DeleteColumn)
			protected.DELETE("/labels/:id", handlers.Project.DeleteLabel)

			// Задачи
			tasks := protected.Group("/tasks")
			{
				tasks.GET("/:id", handlers.Task.Get)
				tasks.PUT("/:id", handlers.Task.Update)
				tasks.DELETE("/:id", handlers.Task.Delete)
				tasks.POST("/:id/move", handlers.Task.Move)
				tasks.POST("/:id/checklist", handlers.Task.AddChecklistItem)
				tasks.POST("/:id/checklist/:itemId/toggle", handlers.Task.ToggleChecklistItem)
				tasks.DELETE("/:id/checklist/:itemId", handlers.Task.DeleteChecklistItem)
				tasks.GET("/:id/messages", handlers.Chat.RecentMessages)
			}
		}
	}

	// WebSocket endpoint чата задачи: аутентификация внутри handler,
	// токен может прийти query-параметром
	router.GET("/ws/task/:id/chat", handlers.WebSocket.HandleTaskChat)

	return router
}
