package domain

import "github.com/google/uuid"

// DashboardStats — сводка для главного экрана
type DashboardStats struct {
	TotalTasks      int              `json:"total_tasks"`
	MyTasks         int              `json:"my_tasks"`
	OverdueTasks    int              `json:"overdue_tasks"`
	TasksByPriority map[string]int   `json:"tasks_by_priority"`
	Projects        []*ProjectStats  `json:"projects"`
	RecentMessages  []*RecentMessage `json:"recent_messages"`
	TasksByDay      []DayCount       `json:"tasks_by_day"`
}

type ProjectStats struct {
	Project   *Project      `json:"project"`
	TaskCount int           `json:"task_count"`
	Columns   []ColumnStats `json:"columns"`
}

type ColumnStats struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type RecentMessage struct {
	ID          int64     `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	TaskTitle   string    `json:"task_title"`
	ProjectSlug string    `json:"project_slug"`
	User        string    `json:"user"`
	Text        string    `json:"text"`
	CreatedAt   string    `json:"created_at"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}
