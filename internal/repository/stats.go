package repository

import (
	"context"
	"time"

	"taskboard/internal/domain"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository interface {
	CountTasks(ctx context.Context) (int, error)
	CountTasksByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountOverdueTasks(ctx context.Context) (int, error)
	CountTasksByPriority(ctx context.Context) (map[string]int, error)
	CountTasksByColumn(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int, error)
	CountTasksCreatedOn(ctx context.Context, day time.Time) (int, error)
	RecentMessages(ctx context.Context, limit int) ([]*domain.RecentMessage, error)
}

type statsRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewStatsRepository(db *pgxpool.Pool, log logger.Logger) StatsRepository {
	return &statsRepository{db: db, log: log}
}

func (r *statsRepository) CountTasks(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM tasks`)
}

func (r *statsRepository) CountTasksByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM tasks WHERE created_by = $1`, userID)
}

func (r *statsRepository) CountOverdueTasks(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM tasks WHERE due_date < current_date`)
}

func (r *statsRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count", "error", err)
		return 0, err
	}
	return count, nil
}

func (r *statsRepository) CountTasksByPriority(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT priority, count(*) FROM tasks GROUP BY priority`)
	if err != nil {
		r.log.Error("Failed to count tasks by priority", "error", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var priority string
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		counts[priority] = count
	}

	return counts, rows.Err()
}

func (r *statsRepository) CountTasksByColumn(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]int, error) {
	query := `SELECT column_id, count(*) FROM tasks WHERE project_id = $1 GROUP BY column_id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.log.Error("Failed to count tasks by column", "error", err, "project_id", projectID)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var columnID uuid.UUID
		var count int
		if err := rows.Scan(&columnID, &count); err != nil {
			return nil, err
		}
		counts[columnID] = count
	}

	return counts, rows.Err()
}

func (r *statsRepository) CountTasksCreatedOn(ctx context.Context, day time.Time) (int, error) {
	return r.count(ctx, `SELECT count(*) FROM tasks WHERE created_at::date = $1::date`, day)
}

func (r *statsRepository) RecentMessages(ctx context.Context, limit int) ([]*domain.RecentMessage, error) {
	query := `
		SELECT m.id, m.task_id, t.title, p.slug, u.username, m.text, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		JOIN tasks t ON t.id = m.task_id
		JOIN projects p ON p.id = t.project_id
		ORDER BY m.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to get recent messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.RecentMessage
	for rows.Next() {
		message := &domain.RecentMessage{}
		var createdAt time.Time
		err := rows.Scan(
			&message.ID, &message.TaskID, &message.TaskTitle,
			&message.ProjectSlug, &message.User, &message.Text, &createdAt,
		)
		if err != nil {
			r.log.Error("Failed to scan recent message", "error", err)
			return nil, err
		}
		message.CreatedAt = createdAt.Format(domain.MessageTimeFormat)
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
