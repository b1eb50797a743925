package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

type ProjectService interface {
	Create(ctx context.Context, name, icon, color string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	Update(ctx context.Context, id uuid.UUID, name, icon, color string) (*domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetBoard(ctx context.Context, slug string, filters BoardFilters) (*Board, error)

	CreateColumn(ctx context.Context, projectID uuid.UUID, name, color string) (*domain.Column, error)
	UpdateColumn(ctx context.Context, id uuid.UUID, name, color string) (*domain.Column, error)
	DeleteColumn(ctx context.Context, id uuid.UUID) error

	CreateLabel(ctx context.Context, projectID uuid.UUID, name, color string) (*domain.Label, error)
	DeleteLabel(ctx context.Context, id uuid.UUID) error
}

// BoardFilters — фильтры доски, соответствуют query-параметрам
type BoardFilters struct {
	Search   string
	Priority string
	LabelID  *uuid.UUID
	Due      string // none, overdue, today, week
	MyTasks  bool
	UserID   uuid.UUID
}

type Board struct {
	Project *domain.Project `json:"project"`
	Columns []*BoardColumn  `json:"columns"`
	Labels  []*domain.Label `json:"labels"`
}

type BoardColumn struct {
	*domain.Column
	Tasks []*domain.Task `json:"tasks"`
}

type projectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	log         logger.Logger
}

func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, log logger.Logger) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		log:         log,
	}
}

func (s *projectService) Create(ctx context.Context, name, icon, color string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("project name is required")
	}
	if len(name) > 120 {
		return nil, errors.New("project name is too long (max 120 characters)")
	}
	if icon == "" {
		icon = domain.DefaultProjectIcon
	}
	if color == "" {
		color = domain.DefaultProjectColor
	}
	if !domain.ValidProjectIcon(icon) {
		return nil, errors.New("unknown project icon")
	}
	if !domain.ValidProjectColor(color) {
		return nil, errors.New("unknown project color")
	}

	slug, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		ID:        uuid.New(),
		Name:      name,
		Slug:      slug,
		Icon:      icon,
		Color:     color,
		CreatedAt: time.Now(),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	// Стандартные колонки нового проекта
	for _, def := range domain.DefaultColumns {
		column := &domain.Column{
			ID:        uuid.New(),
			ProjectID: project.ID,
			Name:      def.Name,
			Color:     def.Color,
			Order:     def.Order,
		}
		if err := s.projectRepo.CreateColumn(ctx, column); err != nil {
			return nil, err
		}
	}

	return project, nil
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projectRepo.List(ctx)
}

func (s *projectService) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	return s.projectRepo.GetBySlug(ctx, slug)
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, name, icon, color string) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name != "" {
		project.Name = name
	}
	if icon != "" {
		if !domain.ValidProjectIcon(icon) {
			return nil, errors.New("unknown project icon")
		}
		project.Icon = icon
	}
	if color != "" {
		if !domain.ValidProjectColor(color) {
			return nil, errors.New("unknown project color")
		}
		project.Color = color
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.projectRepo.Delete(ctx, id)
}

func (s *projectService) GetBoard(ctx context.Context, slug string, filters BoardFilters) (*Board, error) {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	columns, err := s.projectRepo.ListColumns(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	labels, err := s.projectRepo.ListLabels(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	byColumn := make(map[uuid.UUID][]*domain.Task)
	for _, task := range tasks {
		if !matchesFilters(task, filters) {
			continue
		}
		byColumn[task.ColumnID] = append(byColumn[task.ColumnID], task)
	}

	board := &Board{Project: project, Labels: labels}
	for _, column := range columns {
		columnTasks := byColumn[column.ID]
		if columnTasks == nil {
			columnTasks = []*domain.Task{}
		}
		board.Columns = append(board.Columns, &BoardColumn{Column: column, Tasks: columnTasks})
	}

	return board, nil
}

func matchesFilters(task *domain.Task, filters BoardFilters) bool {
	if filters.Search != "" && !strings.Contains(strings.ToLower(task.Title), strings.ToLower(filters.Search)) {
		return false
	}
	if filters.Priority != "" && task.Priority != filters.Priority {
		return false
	}
	if filters.LabelID != nil {
		found := false
		for _, label := range task.Labels {
			if label.ID == *filters.LabelID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.MyTasks && task.CreatedBy != filters.UserID {
		return false
	}

	switch filters.Due {
	case "none":
		return task.DueDate == nil
	case "overdue":
		return task.IsOverdue()
	case "today":
		if task.DueDate == nil {
			return false
		}
		now := time.Now()
		return sameDay(*task.DueDate, now)
	case "week":
		if task.DueDate == nil {
			return false
		}
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		weekEnd := today.AddDate(0, 0, 7)
		return !task.DueDate.Before(today) && !task.DueDate.After(weekEnd)
	}

	return true
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func (s *projectService) CreateColumn(ctx context.Context, projectID uuid.UUID, name, color string) (*domain.Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("column name is required")
	}
	if len(name) > 50 {
		return nil, errors.New("column name is too long (max 50 characters)")
	}
	if color == "" {
		color = domain.DefaultColumnColor
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	// Новая колонка добавляется в конец
	count, err := s.projectRepo.CountColumns(ctx, projectID)
	if err != nil {
		return nil, err
	}

	column := &domain.Column{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      name,
		Color:     color,
		Order:     count,
	}

	if err := s.projectRepo.CreateColumn(ctx, column); err != nil {
		return nil, err
	}

	return column, nil
}

func (s *projectService) UpdateColumn(ctx context.Context, id uuid.UUID, name, color string) (*domain.Column, error) {
	column, err := s.projectRepo.GetColumn(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name != "" {
		column.Name = name
	}
	if color != "" {
		column.Color = color
	}

	if err := s.projectRepo.UpdateColumn(ctx, column); err != nil {
		return nil, err
	}

	return column, nil
}

func (s *projectService) DeleteColumn(ctx context.Context, id uuid.UUID) error {
	column, err := s.projectRepo.GetColumn(ctx, id)
	if err != nil {
		return err
	}

	// Нельзя удалить последнюю колонку
	count, err := s.projectRepo.CountColumns(ctx, column.ProjectID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return apperrors.ErrLastColumn
	}

	// Задачи переезжают в первую из оставшихся колонок
	columns, err := s.projectRepo.ListColumns(ctx, column.ProjectID)
	if err != nil {
		return err
	}
	for _, other := range columns {
		if other.ID != column.ID {
			if err := s.taskRepo.MoveColumnTasks(ctx, column.ID, other.ID); err != nil {
				return err
			}
			break
		}
	}

	return s.projectRepo.DeleteColumn(ctx, id)
}

func (s *projectService) CreateLabel(ctx context.Context, projectID uuid.UUID, name, color string) (*domain.Label, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("label name is required")
	}
	if len(name) > 50 {
		return nil, errors.New("label name is too long (max 50 characters)")
	}
	if color == "" {
		color = domain.DefaultLabelColor
	}
	if !domain.ValidLabelColor(color) {
		return nil, errors.New("unknown label color")
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	label := &domain.Label{
		ID:        uuid.New(),
		ProjectID: projectID,
		Name:      name,
		Color:     color,
	}

	if err := s.projectRepo.CreateLabel(ctx, label); err != nil {
		return nil, err
	}

	return label, nil
}

func (s *projectService) DeleteLabel(ctx context.Context, id uuid.UUID) error {
	return s.projectRepo.DeleteLabel(ctx, id)
}

// uniqueSlug строит slug из имени и разрешает коллизии числовым суффиксом
func (s *projectService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slugify(name)
	if base == "" {
		base = "project"
	}

	slug := base
	for i := 2; ; i++ {
		_, err := s.projectRepo.GetBySlug(ctx, slug)
		if errors.Is(err, apperrors.ErrProjectNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugify(name string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case !prevDash:
			b.WriteRune('-')
			prevDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
