package service

import (
	"context"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

type fakeChatRepo struct {
	messages []*domain.Message
	nextID   int64
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, message *domain.Message) error {
	f.nextID++
	message.ID = f.nextID
	message.CreatedAt = time.Date(2026, 3, 14, 15, 4, 0, 0, time.UTC)
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeChatRepo) GetRecentMessages(ctx context.Context, taskID uuid.UUID, limit int) ([]*domain.Message, error) {
	messages := f.messages
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

type fakeTaskRepo struct {
	repository.TaskRepository
	exists bool
}

func (f *fakeTaskRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.exists, nil
}

func TestChatServiceSendMessageTrims(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &fakeTaskRepo{exists: true}, 100, logger.New("error"))
	author := &domain.User{ID: uuid.New(), Username: "alice"}

	payload, err := svc.SendMessage(context.Background(), uuid.New(), author, "  hello  ")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if payload.Text != "hello" {
		t.Fatalf("payload text = %q, want %q", payload.Text, "hello")
	}
	if payload.User != "alice" || payload.UserID != author.ID {
		t.Fatalf("payload author = %q/%s, want alice/%s", payload.User, payload.UserID, author.ID)
	}
	if payload.CreatedAt != "14.03 15:04" {
		t.Fatalf("payload created_at = %q, want %q", payload.CreatedAt, "14.03 15:04")
	}
}

func TestChatServiceSendMessageRejectsEmpty(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &fakeTaskRepo{exists: true}, 100, logger.New("error"))
	author := &domain.User{ID: uuid.New(), Username: "alice"}

	for _, text := range []string{"", "   ", "\n\t "} {
		if _, err := svc.SendMessage(context.Background(), uuid.New(), author, text); err != apperrors.ErrEmptyMessage {
			t.Fatalf("SendMessage(%q) error = %v, want ErrEmptyMessage", text, err)
		}
	}
	if len(repo.messages) != 0 {
		t.Fatalf("persisted %d messages, want 0", len(repo.messages))
	}
}

func TestChatServiceHistoryMarksOwnMessages(t *testing.T) {
	repo := &fakeChatRepo{}
	svc := NewChatService(repo, &fakeTaskRepo{exists: true}, 100, logger.New("error"))
	taskID := uuid.New()
	alice := &domain.User{ID: uuid.New(), Username: "alice"}
	bob := &domain.User{ID: uuid.New(), Username: "bob"}

	svc.SendMessage(context.Background(), taskID, alice, "from alice")
	svc.SendMessage(context.Background(), taskID, bob, "from bob")

	history, err := svc.History(context.Background(), taskID, alice)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if !history[0].IsOwn {
		t.Fatal("alice's message not marked is_own for alice")
	}
	if history[1].IsOwn {
		t.Fatal("bob's message marked is_own for alice")
	}
}

func TestChatServiceHistoryLimitClamped(t *testing.T) {
	repo := &fakeChatRepo{}
	// Запрошенный лимит больше максимального должен быть ужат
	svc := NewChatService(repo, &fakeTaskRepo{exists: true}, 10000, logger.New("error"))
	taskID := uuid.New()
	author := &domain.User{ID: uuid.New(), Username: "alice"}

	for i := 0; i < repository.MaxHistoryLimit+20; i++ {
		svc.SendMessage(context.Background(), taskID, author, "msg")
	}

	history, err := svc.History(context.Background(), taskID, author)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != repository.MaxHistoryLimit {
		t.Fatalf("history length = %d, want %d", len(history), repository.MaxHistoryLimit)
	}
}

func TestChatServiceRecentMessagesUnknownTask(t *testing.T) {
	svc := NewChatService(&fakeChatRepo{}, &fakeTaskRepo{exists: false}, 100, logger.New("error"))

	if _, err := svc.RecentMessages(context.Background(), uuid.New(), 50); err != apperrors.ErrTaskNotFound {
		t.Fatalf("RecentMessages() error = %v, want ErrTaskNotFound", err)
	}
}
