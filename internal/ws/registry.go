package ws

import (
	"context"
	"sync"

	"taskboard/internal/domain"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

// Registry отслеживает, какие сессии подписаны на какие комнаты,
// и рассылает события всем участникам комнаты.
type Registry interface {
	Join(roomID string, member uuid.UUID, events chan<- *domain.ChatEvent)
	Leave(roomID string, member uuid.UUID)
	Broadcast(ctx context.Context, roomID string, event *domain.ChatEvent) error
}

type MemoryRegistry struct {
	mu    sync.Mutex
	rooms map[string]map[uuid.UUID]chan<- *domain.ChatEvent
	log   logger.Logger
}

func NewMemoryRegistry(log logger.Logger) *MemoryRegistry {
	return &MemoryRegistry{
		rooms: make(map[string]map[uuid.UUID]chan<- *domain.ChatEvent),
		log:   log,
	}
}

// Join идемпотентен: повторная регистрация того же участника ничего не меняет
func (r *MemoryRegistry) Join(roomID string, member uuid.UUID, events chan<- *domain.ChatEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		// Комната создается неявно при первом входе
		room = make(map[uuid.UUID]chan<- *domain.ChatEvent)
		r.rooms[roomID] = room
	}
	if _, ok := room[member]; ok {
		return
	}
	room[member] = events
}

// Leave идемпотентен; пустая комната удаляется из реестра
func (r *MemoryRegistry) Leave(roomID string, member uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(room, member)
	if len(room) == 0 {
		delete(r.rooms, roomID)
	}
}

// Broadcast доставляет событие всем участникам комнаты на момент вызова.
// Мьютекс удерживается на время рассылки: отправки неблокирующие, а порядок
// событий внутри комнаты получается одинаковым для всех участников.
// Переполненный буфер участника — локальный сбой доставки: событие для него
// теряется, остальных это не касается.
func (r *MemoryRegistry) Broadcast(ctx context.Context, roomID string, event *domain.ChatEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for member, events := range r.rooms[roomID] {
		select {
		case events <- event:
		default:
			r.log.Warn("Chat event dropped, member buffer full", "room_id", roomID, "member", member)
		}
	}

	return nil
}

// MemberCount возвращает число участников комнаты
func (r *MemoryRegistry) MemberCount(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}
