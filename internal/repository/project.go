package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateColumn(ctx context.Context, column *domain.Column) error
	GetColumn(ctx context.Context, id uuid.UUID) (*domain.Column, error)
	ListColumns(ctx context.Context, projectID uuid.UUID) ([]*domain.Column, error)
	CountColumns(ctx context.Context, projectID uuid.UUID) (int, error)
	UpdateColumn(ctx context.Context, column *domain.Column) error
	DeleteColumn(ctx context.Context, id uuid.UUID) error

	CreateLabel(ctx context.Context, label *domain.Label) error
	GetLabel(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	ListLabels(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error)
	DeleteLabel(ctx context.Context, id uuid.UUID) error
}

type projectRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewProjectRepository(db *pgxpool.Pool, log logger.Logger) ProjectRepository {
	return &projectRepository{db: db, log: log}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (id, name, slug, icon, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		project.ID, project.Name, project.Slug, project.Icon, project.Color, project.CreatedAt,
	).Scan(&project.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrBadRequest
		}
		r.log.Error("Failed to create project", "error", err)
		return err
	}

	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return r.getBy(ctx, "slug = $1", slug)
}

func (r *projectRepository) getBy(ctx context.Context, where string, arg any) (*domain.Project, error) {
	query := `SELECT id, name, slug, icon, color, created_at FROM projects WHERE ` + where

	project := &domain.Project{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&project.ID, &project.Name, &project.Slug, &project.Icon, &project.Color, &project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		r.log.Error("Failed to get project", "error", err)
		return nil, err
	}

	return project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT id, name, slug, icon, color, created_at FROM projects ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list projects", "error", err)
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project := &domain.Project{}
		if err := rows.Scan(&project.ID, &project.Name, &project.Slug, &project.Icon, &project.Color, &project.CreatedAt); err != nil {
			r.log.Error("Failed to scan project", "error", err)
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	query := `UPDATE projects SET name = $2, icon = $3, color = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, project.ID, project.Name, project.Icon, project.Color)
	if err != nil {
		r.log.Error("Failed to update project", "error", err, "project_id", project.ID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete project", "error", err, "project_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}

	return nil
}

func (r *projectRepository) CreateColumn(ctx context.Context, column *domain.Column) error {
	query := `
		INSERT INTO columns (id, project_id, name, color, "order")
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, column.ID, column.ProjectID, column.Name, column.Color, column.Order)
	if err != nil {
		r.log.Error("Failed to create column", "error", err)
		return err
	}

	return nil
}

func (r *projectRepository) GetColumn(ctx context.Context, id uuid.UUID) (*domain.Column, error) {
	query := `SELECT id, project_id, name, color, "order" FROM columns WHERE id = $1`

	column := &domain.Column{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&column.ID, &column.ProjectID, &column.Name, &column.Color, &column.Order,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrColumnNotFound
		}
		r.log.Error("Failed to get column", "error", err)
		return nil, err
	}

	return column, nil
}

func (r *projectRepository) ListColumns(ctx context.Context, projectID uuid.UUID) ([]*domain.Column, error) {
	query := `SELECT id, project_id, name, color, "order" FROM columns WHERE project_id = $1 ORDER BY "order", id`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.log.Error("Failed to list columns", "error", err)
		return nil, err
	}
	defer rows.Close()

	var columns []*domain.Column
	for rows.Next() {
		column := &domain.Column{}
		if err := rows.Scan(&column.ID, &column.ProjectID, &column.Name, &column.Color, &column.Order); err != nil {
			r.log.Error("Failed to scan column", "error", err)
			return nil, err
		}
		columns = append(columns, column)
	}

	return columns, rows.Err()
}

func (r *projectRepository) CountColumns(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM columns WHERE project_id = $1`, projectID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count columns", "error", err)
		return 0, err
	}
	return count, nil
}

func (r *projectRepository) UpdateColumn(ctx context.Context, column *domain.Column) error {
	query := `UPDATE columns SET name = $2, color = $3, "order" = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, column.ID, column.Name, column.Color, column.Order)
	if err != nil {
		r.log.Error("Failed to update column", "error", err, "column_id", column.ID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrColumnNotFound
	}

	return nil
}

func (r *projectRepository) DeleteColumn(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete column", "error", err, "column_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrColumnNotFound
	}

	return nil
}

func (r *projectRepository) CreateLabel(ctx context.Context, label *domain.Label) error {
	query := `INSERT INTO labels (id, project_id, name, color) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, label.ID, label.ProjectID, label.Name, label.Color)
	if err != nil {
		r.log.Error("Failed to create label", "error", err)
		return err
	}

	return nil
}

func (r *projectRepository) GetLabel(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	query := `SELECT id, project_id, name, color FROM labels WHERE id = $1`

	label := &domain.Label{}
	err := r.db.QueryRow(ctx, query, id).Scan(&label.ID, &label.ProjectID, &label.Name, &label.Color)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLabelNotFound
		}
		r.log.Error("Failed to get label", "error", err)
		return nil, err
	}

	return label, nil
}

func (r *projectRepository) ListLabels(ctx context.Context, projectID uuid.UUID) ([]*domain.Label, error) {
	query := `SELECT id, project_id, name, color FROM labels WHERE project_id = $1 ORDER BY name`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		r.log.Error("Failed to list labels", "error", err)
		return nil, err
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		label := &domain.Label{}
		if err := rows.Scan(&label.ID, &label.ProjectID, &label.Name, &label.Color); err != nil {
			r.log.Error("Failed to scan label", "error", err)
			return nil, err
		}
		labels = append(labels, label)
	}

	return labels, rows.Err()
}

func (r *projectRepository) DeleteLabel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete label", "error", err, "label_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrLabelNotFound
	}

	return nil
}
