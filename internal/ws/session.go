package ws

import (
	"context"
	"encoding/json"
	"errors"

	"taskboard/internal/domain"
	"taskboard/internal/service"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session — одно websocket-подключение к чату задачи.
// Жизненный цикл: вход в комнату → отправка истории → цикл чтения
// (сохранить, затем разослать) → выход из комнаты на любом пути завершения.
type Session struct {
	id       uuid.UUID
	user     *domain.User
	taskID   uuid.UUID
	room     string
	conn     *websocket.Conn
	registry Registry
	chat     service.ChatService
	events   chan *domain.ChatEvent
	log      logger.Logger
}

func NewSession(user *domain.User, taskID uuid.UUID, conn *websocket.Conn, registry Registry, chat service.ChatService, sendBuffer int, log logger.Logger) *Session {
	if sendBuffer <= 0 {
		sendBuffer = 32
	}
	return &Session{
		id:       uuid.New(),
		user:     user,
		taskID:   taskID,
		room:     domain.ChatRoomID(taskID),
		conn:     conn,
		registry: registry,
		chat:     chat,
		events:   make(chan *domain.ChatEvent, sendBuffer),
		log:      log,
	}
}

// Run обслуживает подключение до разрыва или отмены контекста.
// Выход из комнаты выполняется ровно один раз на всех путях завершения.
func (s *Session) Run(ctx context.Context) {
	// Вход до выборки истории: сообщения, пришедшие во время выборки,
	// не теряются (возможен дубль в кадре истории, клиент это переживает)
	s.registry.Join(s.room, s.id, s.events)

	writerDone := make(chan struct{})
	writerStarted := false
	defer func() {
		s.registry.Leave(s.room, s.id)
		close(s.events)
		if writerStarted {
			<-writerDone
		}
		s.conn.Close()
	}()

	// При отмене контекста рвем соединение, чтобы разблокировать цикл чтения
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			s.conn.Close()
		case <-stop:
		}
	}()

	history, err := s.chat.History(ctx, s.taskID, s.user)
	if err != nil {
		s.log.Error("Failed to load chat history", "error", err, "task_id", s.taskID, "user_id", s.user.ID)
		return
	}
	if err := s.conn.WriteJSON(domain.NewHistoryEvent(history)); err != nil {
		s.log.Warn("Failed to send chat history", "error", err, "task_id", s.taskID)
		return
	}

	go s.writeLoop(writerDone)
	writerStarted = true

	s.readLoop(ctx)
}

// readLoop читает входящие кадры до ошибки чтения.
// Некорректные и пустые сообщения молча отбрасываются.
func (s *Session) readLoop(ctx context.Context) {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("Chat connection closed", "error", err, "task_id", s.taskID, "user_id", s.user.ID)
			}
			return
		}

		var inbound domain.InboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			continue
		}

		payload, err := s.chat.SendMessage(ctx, s.taskID, s.user, inbound.Message)
		if err != nil {
			if errors.Is(err, apperrors.ErrEmptyMessage) {
				continue
			}
			if errors.Is(err, apperrors.ErrTaskNotFound) {
				// Задача удалена после подключения
				s.log.Info("Message dropped, task deleted", "task_id", s.taskID, "user_id", s.user.ID)
				continue
			}
			s.log.Error("Failed to save chat message", "error", err, "task_id", s.taskID, "user_id", s.user.ID)
			continue
		}

		if err := s.registry.Broadcast(ctx, s.room, domain.NewMessageEvent(payload)); err != nil {
			s.log.Error("Failed to broadcast chat message", "error", err, "room_id", s.room)
		}
	}
}

// writeLoop переносит события комнаты в сокет; завершается после close(events)
func (s *Session) writeLoop(done chan<- struct{}) {
	defer close(done)
	for event := range s.events {
		if err := s.conn.WriteJSON(event); err != nil {
			s.log.Debug("Failed to write chat event", "error", err, "task_id", s.taskID)
			return
		}
	}
}
