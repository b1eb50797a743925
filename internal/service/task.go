package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
	apperrors "taskboard/pkg/errors"
	"taskboard/pkg/logger"

	"github.com/google/uuid"
)

type TaskService interface {
	Create(ctx context.Context, projectID uuid.UUID, input TaskInput, createdBy uuid.UUID) (*domain.Task, error)
	Get(ctx context.Context, id uuid.UUID) (*TaskDetail, error)
	Update(ctx context.Context, id uuid.UUID, input TaskInput) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID, requestedBy *domain.User) error
	Move(ctx context.Context, id, columnID uuid.UUID, order int) error

	AddChecklistItem(ctx context.Context, taskID uuid.UUID, text string) (*domain.ChecklistItem, error)
	ToggleChecklistItem(ctx context.Context, itemID uuid.UUID) (*domain.ChecklistItem, error)
	DeleteChecklistItem(ctx context.Context, itemID uuid.UUID) error
}

type TaskInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     *time.Time  `json:"due_date"`
	ColumnID    *uuid.UUID  `json:"column_id"`
	LabelIDs    []uuid.UUID `json:"label_ids"`
}

type TaskDetail struct {
	*domain.Task
	Checklist []*domain.ChecklistItem `json:"checklist"`
	IsOverdue bool                    `json:"is_overdue"`
}

type taskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	log         logger.Logger
}

func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, log logger.Logger) TaskService {
	return &taskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		log:         log,
	}
}

func (s *taskService) Create(ctx context.Context, projectID uuid.UUID, input TaskInput, createdBy uuid.UUID) (*domain.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, errors.New("task title is required")
	}
	if len(input.Title) > 200 {
		return nil, errors.New("task title is too long (max 200 characters)")
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if !domain.ValidTaskPriority(input.Priority) {
		return nil, errors.New("unknown task priority")
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	// Колонка по умолчанию — первая колонка проекта
	var column *domain.Column
	if input.ColumnID != nil {
		c, err := s.projectRepo.GetColumn(ctx, *input.ColumnID)
		if err != nil {
			return nil, err
		}
		if c.ProjectID != projectID {
			return nil, apperrors.ErrColumnNotFound
		}
		column = c
	} else {
		columns, err := s.projectRepo.ListColumns(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			return nil, apperrors.ErrColumnNotFound
		}
		column = columns[0]
	}

	// Новая задача добавляется в конец колонки
	order, err := s.taskRepo.CountByColumn(ctx, column.ID)
	if err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		ColumnID:    column.ID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Order:       order,
		CreatedBy:   createdBy,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	if len(input.LabelIDs) > 0 {
		if err := s.setLabels(ctx, task, input.LabelIDs); err != nil {
			return nil, err
		}
	}

	return task, nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*TaskDetail, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	checklist, err := s.taskRepo.ListChecklist(ctx, id)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		checklist = []*domain.ChecklistItem{}
	}

	return &TaskDetail{Task: task, Checklist: checklist, IsOverdue: task.IsOverdue()}, nil
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, input TaskInput) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title != "" {
		if len(input.Title) > 200 {
			return nil, errors.New("task title is too long (max 200 characters)")
		}
		task.Title = input.Title
	}
	task.Description = input.Description
	if input.Priority != "" {
		if !domain.ValidTaskPriority(input.Priority) {
			return nil, errors.New("unknown task priority")
		}
		task.Priority = input.Priority
	}
	task.DueDate = input.DueDate

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	if input.LabelIDs != nil {
		if err := s.setLabels(ctx, task, input.LabelIDs); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// setLabels проверяет, что все метки принадлежат проекту задачи
func (s *taskService) setLabels(ctx context.Context, task *domain.Task, labelIDs []uuid.UUID) error {
	labels := make([]*domain.Label, 0, len(labelIDs))
	for _, labelID := range labelIDs {
		label, err := s.projectRepo.GetLabel(ctx, labelID)
		if err != nil {
			return err
		}
		if label.ProjectID != task.ProjectID {
			return apperrors.ErrLabelNotFound
		}
		labels = append(labels, label)
	}

	if err := s.taskRepo.SetLabels(ctx, task.ID, labelIDs); err != nil {
		return err
	}

	task.Labels = labels
	return nil
}

// Delete — удалить задачу может только ее автор
func (s *taskService) Delete(ctx context.Context, id uuid.UUID, requestedBy *domain.User) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if task.CreatedBy != requestedBy.ID {
		return apperrors.ErrForbidden
	}

	return s.taskRepo.Delete(ctx, id)
}

func (s *taskService) Move(ctx context.Context, id, columnID uuid.UUID, order int) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	column, err := s.projectRepo.GetColumn(ctx, columnID)
	if err != nil {
		return err
	}
	if column.ProjectID != task.ProjectID {
		return apperrors.ErrColumnNotFound
	}
	if order < 0 {
		order = 0
	}

	return s.taskRepo.Move(ctx, id, columnID, order)
}

func (s *taskService) AddChecklistItem(ctx context.Context, taskID uuid.UUID, text string) (*domain.ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("checklist item text is required")
	}
	if len(text) > 200 {
		return nil, errors.New("checklist item text is too long (max 200 characters)")
	}

	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	order, err := s.taskRepo.CountChecklist(ctx, taskID)
	if err != nil {
		return nil, err
	}

	item := &domain.ChecklistItem{
		ID:     uuid.New(),
		TaskID: taskID,
		Text:   text,
		Order:  order,
	}

	if err := s.taskRepo.CreateChecklistItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *taskService) ToggleChecklistItem(ctx context.Context, itemID uuid.UUID) (*domain.ChecklistItem, error) {
	item, err := s.taskRepo.GetChecklistItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.IsCompleted = !item.IsCompleted
	if err := s.taskRepo.UpdateChecklistItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *taskService) DeleteChecklistItem(ctx context.Context, itemID uuid.UUID) error {
	return s.taskRepo.DeleteChecklistItem(ctx, itemID)
}
