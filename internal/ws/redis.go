package ws

import (
	"context"
	"encoding/json"
	"strings"

	"taskboard/internal/domain"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Префикс каналов Redis для событий чата
const chatChannelPrefix = "chat:room:"

// RedisRegistry — реестр комнат для нескольких процессов: членство хранится
// локально, а рассылка идет через Redis pub/sub, поэтому broadcast из одного
// процесса достигает сессий, живущих в других. Redis доставляет publish и
// самому публикующему процессу, так что echo отправителю работает одинаково
// для локальных и удаленных участников.
type RedisRegistry struct {
	rdb   *redis.Client
	local *MemoryRegistry
	log   logger.Logger
}

func NewRedisRegistry(rdb *redis.Client, log logger.Logger) *RedisRegistry {
	return &RedisRegistry{
		rdb:   rdb,
		local: NewMemoryRegistry(log),
		log:   log,
	}
}

func (r *RedisRegistry) Join(roomID string, member uuid.UUID, events chan<- *domain.ChatEvent) {
	r.local.Join(roomID, member, events)
}

func (r *RedisRegistry) Leave(roomID string, member uuid.UUID) {
	r.local.Leave(roomID, member)
}

func (r *RedisRegistry) Broadcast(ctx context.Context, roomID string, event *domain.ChatEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.rdb.Publish(ctx, chatChannelPrefix+roomID, payload).Err()
}

// Run подписывается на каналы чата и доставляет входящие события локальным
// участникам. Блокируется до отмены контекста; единственная горутина
// подписки сохраняет FIFO-порядок событий внутри комнаты.
func (r *RedisRegistry) Run(ctx context.Context) error {
	pubsub := r.rdb.PSubscribe(ctx, chatChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			roomID := strings.TrimPrefix(msg.Channel, chatChannelPrefix)
			event := &domain.ChatEvent{}
			if err := json.Unmarshal([]byte(msg.Payload), event); err != nil {
				r.log.Warn("Failed to decode chat event", "error", err, "channel", msg.Channel)
				continue
			}

			r.local.Broadcast(ctx, roomID, event)
		}
	}
}
