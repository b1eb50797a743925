package ws

import (
	"context"
	"testing"

	"taskboard/internal/domain"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

func newTestRegistry() *MemoryRegistry {
	return NewMemoryRegistry(logger.New("error"))
}

func TestMemoryRegistryBroadcastDelivers(t *testing.T) {
	registry := newTestRegistry()
	room := "chat_task_test"
	member := uuid.New()
	events := make(chan *domain.ChatEvent, 4)

	registry.Join(room, member, events)

	event := domain.NewMessageEvent(&domain.MessagePayload{Text: "hello"})
	if err := registry.Broadcast(context.Background(), room, event); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	select {
	case got := <-events:
		if got.Message == nil || got.Message.Text != "hello" {
			t.Fatalf("got event %+v, want message %q", got, "hello")
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestMemoryRegistryBroadcastReachesAllMembers(t *testing.T) {
	registry := newTestRegistry()
	room := "chat_task_test"

	first := make(chan *domain.ChatEvent, 1)
	second := make(chan *domain.ChatEvent, 1)
	registry.Join(room, uuid.New(), first)
	registry.Join(room, uuid.New(), second)

	registry.Broadcast(context.Background(), room, domain.NewMessageEvent(&domain.MessagePayload{Text: "hi"}))

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("delivered to %d/%d members, want 1/1", len(first), len(second))
	}
}

func TestMemoryRegistryJoinIdempotent(t *testing.T) {
	registry := newTestRegistry()
	room := "chat_task_test"
	member := uuid.New()
	events := make(chan *domain.ChatEvent, 4)

	registry.Join(room, member, events)
	registry.Join(room, member, events)

	if got := registry.MemberCount(room); got != 1 {
		t.Fatalf("MemberCount() = %d, want 1", got)
	}

	registry.Broadcast(context.Background(), room, domain.NewMessageEvent(&domain.MessagePayload{Text: "once"}))
	if got := len(events); got != 1 {
		t.Fatalf("got %d events, want 1", got)
	}
}

func TestMemoryRegistryLeave(t *testing.T) {
	registry := newTestRegistry()
	room := "chat_task_test"
	member := uuid.New()
	events := make(chan *domain.ChatEvent, 1)

	registry.Join(room, member, events)
	registry.Leave(room, member)
	// Повторный Leave не должен паниковать или менять состояние
	registry.Leave(room, member)

	if got := registry.MemberCount(room); got != 0 {
		t.Fatalf("MemberCount() = %d, want 0", got)
	}

	registry.Broadcast(context.Background(), room, domain.NewMessageEvent(&domain.MessagePayload{Text: "late"}))
	if len(events) != 0 {
		t.Fatal("event delivered after Leave")
	}
}

func TestMemoryRegistryRoomsAreIsolated(t *testing.T) {
	registry := newTestRegistry()

	a := make(chan *domain.ChatEvent, 1)
	b := make(chan *domain.ChatEvent, 1)
	registry.Join("chat_task_a", uuid.New(), a)
	registry.Join("chat_task_b", uuid.New(), b)

	registry.Broadcast(context.Background(), "chat_task_a", domain.NewMessageEvent(&domain.MessagePayload{Text: "for a"}))

	if len(a) != 1 {
		t.Fatalf("room a got %d events, want 1", len(a))
	}
	if len(b) != 0 {
		t.Fatalf("room b got %d events, want 0", len(b))
	}
}

func TestMemoryRegistryFullBufferDoesNotBlock(t *testing.T) {
	registry := newTestRegistry()
	room := "chat_task_test"
	full := make(chan *domain.ChatEvent) // без буфера и без читателя
	healthy := make(chan *domain.ChatEvent, 2)

	registry.Join(room, uuid.New(), full)
	registry.Join(room, uuid.New(), healthy)

	// Должно вернуться сразу: отправка зависшему участнику отбрасывается
	if err := registry.Broadcast(context.Background(), room, domain.NewMessageEvent(&domain.MessagePayload{Text: "x"})); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}

	if len(healthy) != 1 {
		t.Fatalf("healthy member got %d events, want 1", len(healthy))
	}
}

func TestMemoryRegistryBroadcastOrder(t *testing.T) {
	registry := newTestRegistry()
	room := "chat_task_test"
	events := make(chan *domain.ChatEvent, 16)
	registry.Join(room, uuid.New(), events)

	texts := []string{"one", "two", "three", "four"}
	for _, text := range texts {
		registry.Broadcast(context.Background(), room, domain.NewMessageEvent(&domain.MessagePayload{Text: text}))
	}

	for i, want := range texts {
		got := <-events
		if got.Message.Text != want {
			t.Fatalf("event %d = %q, want %q", i, got.Message.Text, want)
		}
	}
}
