package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"taskboard/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Project   ProjectRepository
	Task      TaskRepository
	Chat      ChatRepository
	Stats     StatsRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, log),
		Project:   NewProjectRepository(db, log),
		Task:      NewTaskRepository(db, log),
		Chat:      NewChatRepository(db, log),
		Stats:     NewStatsRepository(db, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
