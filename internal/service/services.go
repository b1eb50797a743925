package service

import (
	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"
)

type Services struct {
	Auth      AuthService
	User      UserService
	Project   ProjectService
	Task      TaskService
	Chat      ChatService
	Stats     StatsService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(repos.User, cfg.JWT, log),
		User:      NewUserService(repos.User, log),
		Project:   NewProjectService(repos.Project, repos.Task, log),
		Task:      NewTaskService(repos.Task, repos.Project, log),
		Chat:      NewChatService(repos.Chat, repos.Task, cfg.Chat.HistoryLimit, log),
		Stats:     NewStatsService(repos.Stats, repos.Project, log),
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
