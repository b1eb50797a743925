package service

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

const (
	recentMessagesLimit = 10
	tasksByDayWindow    = 7
)

type StatsService interface {
	GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardStats, error)
}

type statsService struct {
	statsRepo   repository.StatsRepository
	projectRepo repository.ProjectRepository
	log         logger.Logger
}

func NewStatsService(statsRepo repository.StatsRepository, projectRepo repository.ProjectRepository, log logger.Logger) StatsService {
	return &statsService{
		statsRepo:   statsRepo,
		projectRepo: projectRepo,
		log:         log,
	}
}

func (s *statsService) GetDashboard(ctx context.Context, userID uuid.UUID) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	var err error
	if stats.TotalTasks, err = s.statsRepo.CountTasks(ctx); err != nil {
		return nil, err
	}
	if stats.MyTasks, err = s.statsRepo.CountTasksByUser(ctx, userID); err != nil {
		return nil, err
	}
	if stats.OverdueTasks, err = s.statsRepo.CountOverdueTasks(ctx); err != nil {
		return nil, err
	}
	if stats.TasksByPriority, err = s.statsRepo.CountTasksByPriority(ctx); err != nil {
		return nil, err
	}

	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, project := range projects {
		columns, err := s.projectRepo.ListColumns(ctx, project.ID)
		if err != nil {
			return nil, err
		}
		counts, err := s.statsRepo.CountTasksByColumn(ctx, project.ID)
		if err != nil {
			return nil, err
		}

		projectStats := &domain.ProjectStats{Project: project}
		for _, column := range columns {
			projectStats.TaskCount += counts[column.ID]
			projectStats.Columns = append(projectStats.Columns, domain.ColumnStats{
				Name:  column.Name,
				Color: column.Color,
				Count: counts[column.ID],
			})
		}
		stats.Projects = append(stats.Projects, projectStats)
	}

	if stats.RecentMessages, err = s.statsRepo.RecentMessages(ctx, recentMessagesLimit); err != nil {
		return nil, err
	}

	// Созданные задачи по дням за последнюю неделю
	today := time.Now()
	for i := tasksByDayWindow - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		count, err := s.statsRepo.CountTasksCreatedOn(ctx, day)
		if err != nil {
			return nil, err
		}
		stats.TasksByDay = append(stats.TasksByDay, domain.DayCount{
			Date:  day.Format("02.01"),
			Count: count,
		})
	}

	return stats, nil
}
