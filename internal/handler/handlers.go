package handler

import (
	"taskboard/internal/config"
	"taskboard/internal/domain"
	"taskboard/internal/service"
	"taskboard/internal/ws"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	User      *UserHandler
	Project   *ProjectHandler
	Task      *TaskHandler
	Chat      *ChatHandler
	Stats     *StatsHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, registry ws.Registry, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Auth:      NewAuthHandler(services.Auth, log),
		User:      NewUserHandler(services.User, log),
		Project:   NewProjectHandler(services.Project, log),
		Task:      NewTaskHandler(services.Task, log),
		Chat:      NewChatHandler(services.Chat, log),
		Stats:     NewStatsHandler(services.Stats, log),
		WebSocket: NewWebSocketHandler(services.Auth, services.Chat, registry, cfg.Chat.SendBuffer, log),
	}
}

// userFromContext достает пользователя, положенного auth-middleware
func userFromContext(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
