package handler

import (
	"net/http"
	"strings"

	"taskboard/internal/service"
	"taskboard/internal/ws"
	"taskboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	authService service.AuthService
	chatService service.ChatService
	registry    ws.Registry
	sendBuffer  int
	log         logger.Logger
}

func NewWebSocketHandler(authService service.AuthService, chatService service.ChatService, registry ws.Registry, sendBuffer int, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		authService: authService,
		chatService: chatService,
		registry:    registry,
		sendBuffer:  sendBuffer,
		log:         log,
	}
}

// HandleTaskChat — точка входа чата задачи.
// Все проверки выполняются до upgrade: ошибки отдаются HTTP-статусом,
// подключение без полезной нагрузки не устанавливается.
func (h *WebSocketHandler) HandleTaskChat(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task ID"})
		return
	}

	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	user, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	exists, err := h.chatService.TaskExists(c.Request.Context(), taskID)
	if err != nil {
		h.log.Error("Task existence check failed", "error", err, "task_id", taskID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err, "task_id", taskID)
		return
	}

	h.log.Info("Chat session started", "task_id", taskID, "user_id", user.ID)
	session := ws.NewSession(user, taskID, conn, h.registry, h.chatService, h.sendBuffer, h.log)
	session.Run(c.Request.Context())
	h.log.Info("Chat session ended", "task_id", taskID, "user_id", user.ID)
}

// bearerToken берет токен из заголовка Authorization или из query-параметра:
// браузерный WebSocket API не умеет выставлять заголовки
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	return c.Query("token")
}
