package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Message — сообщение чата задачи. Идентификатор и created_at назначаются
// хранилищем, после записи сообщение неизменяемо.
type Message struct {
	ID        int64     `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageTimeFormat — формат времени в wire-протоколе чата (день.месяц час:минута)
const MessageTimeFormat = "02.01 15:04"

// ChatRoomID возвращает идентификатор комнаты чата для задачи
func ChatRoomID(taskID uuid.UUID) string {
	return "chat_task_" + taskID.String()
}

type MessagePayload struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt string    `json:"created_at"`
}

// HistoryMessage — элемент истории; is_own вычисляется относительно
// подключившегося пользователя и не хранится
type HistoryMessage struct {
	MessagePayload
	IsOwn bool `json:"is_own"`
}

func (m *Message) Payload() MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		User:      m.Username,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt.Format(MessageTimeFormat),
	}
}

const (
	ChatEventHistory = "history"
	ChatEventMessage = "message"
)

// ChatEvent — серверный конверт чата, ровно два варианта: history и message
type ChatEvent struct {
	Type     string           `json:"type"`
	Messages []HistoryMessage `json:"messages,omitempty"`
	Message  *MessagePayload  `json:"message,omitempty"`
}

// MarshalJSON сериализует только поля активного варианта; у history
// поле messages присутствует всегда, даже пустым списком
func (e *ChatEvent) MarshalJSON() ([]byte, error) {
	if e.Type == ChatEventHistory {
		messages := e.Messages
		if messages == nil {
			messages = []HistoryMessage{}
		}
		return json.Marshal(struct {
			Type     string           `json:"type"`
			Messages []HistoryMessage `json:"messages"`
		}{e.Type, messages})
	}
	return json.Marshal(struct {
		Type    string          `json:"type"`
		Message *MessagePayload `json:"message"`
	}{e.Type, e.Message})
}

func NewHistoryEvent(messages []HistoryMessage) *ChatEvent {
	if messages == nil {
		messages = []HistoryMessage{}
	}
	return &ChatEvent{Type: ChatEventHistory, Messages: messages}
}

func NewMessageEvent(message *MessagePayload) *ChatEvent {
	return &ChatEvent{Type: ChatEventMessage, Message: message}
}

// InboundMessage — клиентский конверт чата
type InboundMessage struct {
	Message string `json:"message"`
}
