package handler

import (
	"net/http"

	"taskboard/internal/config"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	chatBroadcast string
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		chatBroadcast: cfg.Chat.Broadcast,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "taskboard",
	})
}

// ServerInfo возвращает информацию о сервере для клиентов
func (h *HealthHandler) ServerInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_base":       "/api/v1",
		"chat_broadcast": h.chatBroadcast,
		"chat_ws_path":   "/ws/task/:id/chat",
	})
}
