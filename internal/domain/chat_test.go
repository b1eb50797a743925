package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestChatRoomID(t *testing.T) {
	taskID := uuid.MustParse("b6b8cd7e-4f4f-4d0a-9f2e-111111111111")
	want := "chat_task_b6b8cd7e-4f4f-4d0a-9f2e-111111111111"
	if got := ChatRoomID(taskID); got != want {
		t.Fatalf("ChatRoomID() = %q, want %q", got, want)
	}
}

func TestMessagePayloadTimeFormat(t *testing.T) {
	message := &Message{
		ID:        7,
		UserID:    uuid.New(),
		Username:  "alice",
		Text:      "hi",
		CreatedAt: time.Date(2026, 12, 31, 9, 5, 0, 0, time.UTC),
	}

	payload := message.Payload()
	if payload.CreatedAt != "31.12 09:05" {
		t.Fatalf("created_at = %q, want %q", payload.CreatedAt, "31.12 09:05")
	}
	if payload.User != "alice" || payload.ID != 7 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestHistoryEventJSON(t *testing.T) {
	event := NewHistoryEvent([]HistoryMessage{
		{MessagePayload: MessagePayload{ID: 1, User: "alice", Text: "hi", CreatedAt: "01.02 10:00"}, IsOwn: true},
	})

	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"type":"history"`) {
		t.Fatalf("missing type in %s", s)
	}
	if !strings.Contains(s, `"is_own":true`) {
		t.Fatalf("missing is_own in %s", s)
	}
	if strings.Contains(s, `"message"`) && !strings.Contains(s, `"messages"`) {
		t.Fatalf("history frame carries a message field: %s", s)
	}
}

func TestEmptyHistoryEventJSON(t *testing.T) {
	raw, err := json.Marshal(NewHistoryEvent(nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	// Пустая история — пустой массив, не null и не отсутствие поля
	if !strings.Contains(string(raw), `"messages":[]`) {
		t.Fatalf("empty history = %s, want messages:[]", raw)
	}
}

func TestMessageEventJSON(t *testing.T) {
	raw, err := json.Marshal(NewMessageEvent(&MessagePayload{ID: 2, User: "bob", Text: "yo", CreatedAt: "01.02 10:01"}))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(raw)
	if !strings.Contains(s, `"type":"message"`) {
		t.Fatalf("missing type in %s", s)
	}
	if strings.Contains(s, `"messages"`) {
		t.Fatalf("message frame carries a history field: %s", s)
	}
	if strings.Contains(s, `"is_own"`) {
		t.Fatalf("live message carries is_own: %s", s)
	}
}

func TestIsOverdue(t *testing.T) {
	past := time.Now().AddDate(0, 0, -1)
	future := time.Now().AddDate(0, 0, 1)

	overdue := &Task{DueDate: &past}
	if !overdue.IsOverdue() {
		t.Fatal("task with yesterday's due date not overdue")
	}

	upcoming := &Task{DueDate: &future}
	if upcoming.IsOverdue() {
		t.Fatal("task with tomorrow's due date marked overdue")
	}

	if (&Task{}).IsOverdue() {
		t.Fatal("task without due date marked overdue")
	}
}
