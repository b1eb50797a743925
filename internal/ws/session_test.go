package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"taskboard/internal/domain"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type fakeChatService struct {
	mu      sync.Mutex
	history []domain.HistoryMessage
	saved   []string
}

func (f *fakeChatService) TaskExists(ctx context.Context, taskID uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeChatService) History(ctx context.Context, taskID uuid.UUID, viewer *domain.User) ([]domain.HistoryMessage, error) {
	return f.history, nil
}

func (f *fakeChatService) SendMessage(ctx context.Context, taskID uuid.UUID, author *domain.User, text string) (*domain.MessagePayload, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyMessage
	}
	f.mu.Lock()
	f.saved = append(f.saved, text)
	f.mu.Unlock()
	return &domain.MessagePayload{User: author.Username, UserID: author.ID, Text: text}, nil
}

func (f *fakeChatService) RecentMessages(ctx context.Context, taskID uuid.UUID, limit int) ([]domain.MessagePayload, error) {
	return nil, nil
}

func (f *fakeChatService) savedMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...)
}

var testUpgrader = websocket.Upgrader{}

// startChatServer поднимает httptest-сервер, который на каждое подключение
// запускает Session поверх общего реестра
func startChatServer(t *testing.T, registry Registry, chat *fakeChatService, taskID uuid.UUID) *httptest.Server {
	t.Helper()
	user := &domain.User{ID: uuid.New(), Username: "tester"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		session := NewSession(user, taskID, conn, registry, chat, 8, logger.New("error"))
		session.Run(r.Context())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *domain.ChatEvent {
	t.Helper()
	event := &domain.ChatEvent{}
	if err := conn.ReadJSON(event); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return event
}

func TestSessionSendsHistoryFirst(t *testing.T) {
	chat := &fakeChatService{
		history: []domain.HistoryMessage{
			{MessagePayload: domain.MessagePayload{Text: "first"}, IsOwn: true},
			{MessagePayload: domain.MessagePayload{Text: "second"}},
		},
	}
	srv := startChatServer(t, newTestRegistry(), chat, uuid.New())
	conn := dial(t, srv)

	event := readEvent(t, conn)
	if event.Type != domain.ChatEventHistory {
		t.Fatalf("first frame type = %q, want %q", event.Type, domain.ChatEventHistory)
	}
	if len(event.Messages) != 2 {
		t.Fatalf("history length = %d, want 2", len(event.Messages))
	}
	if event.Messages[0].Text != "first" || !event.Messages[0].IsOwn {
		t.Fatalf("unexpected first history entry: %+v", event.Messages[0])
	}
}

func TestSessionEmptyHistoryFrame(t *testing.T) {
	srv := startChatServer(t, newTestRegistry(), &fakeChatService{}, uuid.New())
	conn := dial(t, srv)

	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	// Пустая история — это всегда присутствующий пустой массив, не null
	if !strings.Contains(string(raw), `"messages":[]`) {
		t.Fatalf("empty history frame = %s, want messages:[]", raw)
	}
}

func TestSessionPersistsAndEchoesMessage(t *testing.T) {
	chat := &fakeChatService{}
	srv := startChatServer(t, newTestRegistry(), chat, uuid.New())
	conn := dial(t, srv)
	readEvent(t, conn) // history

	if err := conn.WriteJSON(map[string]string{"message": "hello room"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	event := readEvent(t, conn)
	if event.Type != domain.ChatEventMessage {
		t.Fatalf("event type = %q, want %q", event.Type, domain.ChatEventMessage)
	}
	if event.Message == nil || event.Message.Text != "hello room" {
		t.Fatalf("unexpected message event: %+v", event.Message)
	}

	saved := chat.savedMessages()
	if len(saved) != 1 || saved[0] != "hello room" {
		t.Fatalf("saved = %v, want [hello room]", saved)
	}
}

func TestSessionBroadcastsToOtherMembers(t *testing.T) {
	registry := newTestRegistry()
	taskID := uuid.New()
	srv := startChatServer(t, registry, &fakeChatService{}, taskID)

	sender := dial(t, srv)
	receiver := dial(t, srv)
	readEvent(t, sender)
	readEvent(t, receiver)

	if err := sender.WriteJSON(map[string]string{"message": "to everyone"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	for _, conn := range []*websocket.Conn{sender, receiver} {
		event := readEvent(t, conn)
		if event.Message == nil || event.Message.Text != "to everyone" {
			t.Fatalf("unexpected event: %+v", event)
		}
	}
}

func TestSessionDropsEmptyAndMalformedFrames(t *testing.T) {
	chat := &fakeChatService{}
	srv := startChatServer(t, newTestRegistry(), chat, uuid.New())
	conn := dial(t, srv)
	readEvent(t, conn) // history

	conn.WriteMessage(websocket.TextMessage, []byte("not json at all"))
	conn.WriteJSON(map[string]string{"message": "   "})
	conn.WriteJSON(map[string]string{"other_field": "x"})
	conn.WriteJSON(map[string]string{"message": "survivor"})

	event := readEvent(t, conn)
	if event.Message == nil || event.Message.Text != "survivor" {
		t.Fatalf("got %+v, want only the valid message", event)
	}

	saved := chat.savedMessages()
	if len(saved) != 1 || saved[0] != "survivor" {
		t.Fatalf("saved = %v, want [survivor]", saved)
	}
}

func TestSessionLeavesRoomOnDisconnect(t *testing.T) {
	registry := newTestRegistry()
	taskID := uuid.New()
	room := domain.ChatRoomID(taskID)
	srv := startChatServer(t, registry, &fakeChatService{}, taskID)

	conn := dial(t, srv)
	readEvent(t, conn)

	if got := registry.MemberCount(room); got != 1 {
		t.Fatalf("MemberCount() = %d, want 1", got)
	}

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for registry.MemberCount(room) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("member not removed from room after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
