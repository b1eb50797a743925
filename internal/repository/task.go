package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	Move(ctx context.Context, id, columnID uuid.UUID, order int) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)
	CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error)
	MoveColumnTasks(ctx context.Context, fromColumnID, toColumnID uuid.UUID) error
	SetLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error

	CreateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error
	GetChecklistItem(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error
	DeleteChecklistItem(ctx context.Context, id uuid.UUID) error
	ListChecklist(ctx context.Context, taskID uuid.UUID) ([]*domain.ChecklistItem, error)
	CountChecklist(ctx context.Context, taskID uuid.UUID) (int, error)
}

type taskRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewTaskRepository(db *pgxpool.Pool, log logger.Logger) TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, column_id, title, description, priority, due_date, "order", created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		task.ID, task.ProjectID, task.ColumnID, task.Title, task.Description,
		task.Priority, task.DueDate, task.Order, task.CreatedBy,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create task", "error", err)
		return err
	}

	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, project_id, column_id, title, description, priority, due_date, "order", created_by, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task := &domain.Task{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.ProjectID, &task.ColumnID, &task.Title, &task.Description,
		&task.Priority, &task.DueDate, &task.Order, &task.CreatedBy,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTaskNotFound
		}
		r.log.Error("Failed to get task", "error", err, "task_id", id)
		return nil, err
	}

	if err := r.attachLabels(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}
	if err := r.attachChecklistCounts(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// Exists — единственная предпосылка, которую чат проверяет перед входом в комнату
func (r *taskRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check task existence", "error", err, "task_id", id)
		return false, err
	}
	return exists, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, priority = $4, due_date = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		task.ID, task.Title, task.Description, task.Priority, task.DueDate,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTaskNotFound
		}
		r.log.Error("Failed to update task", "error", err, "task_id", task.ID)
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete task", "error", err, "task_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) Move(ctx context.Context, id, columnID uuid.UUID, order int) error {
	query := `UPDATE tasks SET column_id = $2, "order" = $3, updated_at = now() WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, columnID, order)
	if err != nil {
		r.log.Error("Failed to move task", "error", err, "task_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, project_id, column_id, title, description, priority, due_date, "order", created_by, created_at, updated_at
		FROM tasks
		WHERE project_id = $1
		ORDER BY "order", updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.log.Error("Failed to list tasks", "error", err, "project_id", projectID)
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task := &domain.Task{}
		err := rows.Scan(
			&task.ID, &task.ProjectID, &task.ColumnID, &task.Title, &task.Description,
			&task.Priority, &task.DueDate, &task.Order, &task.CreatedBy,
			&task.CreatedAt, &task.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan task", "error", err)
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLabels(ctx, tasks); err != nil {
		return nil, err
	}
	if err := r.attachChecklistCounts(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) attachLabels(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(tasks))
	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
		byID[task.ID] = task
	}

	query := `
		SELECT tl.task_id, l.id, l.project_id, l.name, l.color
		FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id = ANY($1)
		ORDER BY l.name
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to load task labels", "error", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID uuid.UUID
		label := &domain.Label{}
		if err := rows.Scan(&taskID, &label.ID, &label.ProjectID, &label.Name, &label.Color); err != nil {
			r.log.Error("Failed to scan task label", "error", err)
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.Labels = append(task.Labels, label)
		}
	}

	return rows.Err()
}

func (r *taskRepository) attachChecklistCounts(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(tasks))
	byID := make(map[uuid.UUID]*domain.Task, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
		byID[task.ID] = task
	}

	query := `
		SELECT task_id, count(*), count(*) FILTER (WHERE is_completed)
		FROM checklist_items
		WHERE task_id = ANY($1)
		GROUP BY task_id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to load checklist counts", "error", err)
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID uuid.UUID
		var total, done int
		if err := rows.Scan(&taskID, &total, &done); err != nil {
			r.log.Error("Failed to scan checklist counts", "error", err)
			return err
		}
		if task, ok := byID[taskID]; ok {
			task.ChecklistTotal = total
			task.ChecklistDone = done
		}
	}

	return rows.Err()
}

func (r *taskRepository) CountByColumn(ctx context.Context, columnID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM tasks WHERE column_id = $1`, columnID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count tasks", "error", err, "column_id", columnID)
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) MoveColumnTasks(ctx context.Context, fromColumnID, toColumnID uuid.UUID) error {
	query := `UPDATE tasks SET column_id = $2, updated_at = now() WHERE column_id = $1`

	_, err := r.db.Exec(ctx, query, fromColumnID, toColumnID)
	if err != nil {
		r.log.Error("Failed to move column tasks", "error", err, "column_id", fromColumnID)
		return err
	}

	return nil
}

func (r *taskRepository) SetLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM task_labels WHERE task_id = $1`, taskID); err != nil {
		r.log.Error("Failed to clear task labels", "error", err, "task_id", taskID)
		return err
	}

	for _, labelID := range labelIDs {
		if _, err := tx.Exec(ctx, `INSERT INTO task_labels (task_id, label_id) VALUES ($1, $2)`, taskID, labelID); err != nil {
			r.log.Error("Failed to set task label", "error", err, "task_id", taskID, "label_id", labelID)
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *taskRepository) CreateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error {
	query := `INSERT INTO checklist_items (id, task_id, text, is_completed, "order") VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query, item.ID, item.TaskID, item.Text, item.IsCompleted, item.Order)
	if err != nil {
		r.log.Error("Failed to create checklist item", "error", err)
		return err
	}

	return nil
}

func (r *taskRepository) GetChecklistItem(ctx context.Context, id uuid.UUID) (*domain.ChecklistItem, error) {
	query := `SELECT id, task_id, text, is_completed, "order" FROM checklist_items WHERE id = $1`

	item := &domain.ChecklistItem{}
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.TaskID, &item.Text, &item.IsCompleted, &item.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.log.Error("Failed to get checklist item", "error", err)
		return nil, err
	}

	return item, nil
}

func (r *taskRepository) UpdateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error {
	query := `UPDATE checklist_items SET text = $2, is_completed = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, item.ID, item.Text, item.IsCompleted)
	if err != nil {
		r.log.Error("Failed to update checklist item", "error", err, "item_id", item.ID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *taskRepository) DeleteChecklistItem(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM checklist_items WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete checklist item", "error", err, "item_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *taskRepository) ListChecklist(ctx context.Context, taskID uuid.UUID) ([]*domain.ChecklistItem, error) {
	query := `SELECT id, task_id, text, is_completed, "order" FROM checklist_items WHERE task_id = $1 ORDER BY "order", id`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		r.log.Error("Failed to list checklist", "error", err, "task_id", taskID)
		return nil, err
	}
	defer rows.Close()

	var items []*domain.ChecklistItem
	for rows.Next() {
		item := &domain.ChecklistItem{}
		if err := rows.Scan(&item.ID, &item.TaskID, &item.Text, &item.IsCompleted, &item.Order); err != nil {
			r.log.Error("Failed to scan checklist item", "error", err)
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *taskRepository) CountChecklist(ctx context.Context, taskID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM checklist_items WHERE task_id = $1`, taskID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count checklist items", "error", err, "task_id", taskID)
		return 0, err
	}
	return count, nil
}
