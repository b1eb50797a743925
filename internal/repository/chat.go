package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"taskboard/internal/domain"
)

// MaxHistoryLimit — серверный предел выборки истории, применяется
// независимо от запрошенного лимита
const MaxHistoryLimit = 100

type ChatRepository interface {
	CreateMessage(ctx context.Context, message *domain.Message) error
	GetRecentMessages(ctx context.Context, taskID uuid.UUID, limit int) ([]*domain.Message, error)
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

// CreateMessage записывает сообщение. Идентификатор и created_at назначает
// БД в том же запросе, существование задачи проверяется тем же INSERT:
// если задача удалена между подключением и отправкой, вернется ErrTaskNotFound.
func (r *chatRepository) CreateMessage(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (task_id, user_id, text, created_at)
		SELECT $1, $2, $3, now()
		WHERE EXISTS (SELECT 1 FROM tasks WHERE id = $1)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, message.TaskID, message.UserID, message.Text).
		Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTaskNotFound
		}
		r.log.Error("Failed to create message", "error", err, "task_id", message.TaskID)
		return err
	}

	return nil
}

func (r *chatRepository) GetRecentMessages(ctx context.Context, taskID uuid.UUID, limit int) ([]*domain.Message, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := `
		SELECT m.id, m.task_id, m.user_id, u.username, m.text, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.task_id = $1
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, taskID, limit)
	if err != nil {
		r.log.Error("Failed to get messages", "error", err, "task_id", taskID)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.TaskID, &message.UserID,
			&message.Username, &message.Text, &message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Разворачиваем массив, чтобы получить хронологический порядок (от старых к новым)
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
