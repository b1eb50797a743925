package domain

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type Column struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Order     int       `json:"order"`
}

type Label struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
}

var ProjectIcons = []string{
	"folder", "briefcase", "rocket", "star", "heart", "lightning",
	"gear", "code", "palette", "music", "camera", "book",
}

var ProjectColors = []string{
	"purple", "blue", "cyan", "green", "yellow", "orange", "red", "pink",
}

var LabelColors = []string{
	"gray", "red", "orange", "yellow", "green", "blue", "purple", "pink",
}

const (
	DefaultProjectIcon  = "folder"
	DefaultProjectColor = "purple"
	DefaultLabelColor   = "blue"
	DefaultColumnColor  = "#64748b"
)

// DefaultColumns — стандартные колонки нового проекта
var DefaultColumns = []Column{
	{Name: "К выполнению", Color: "#64748b", Order: 0},
	{Name: "В работе", Color: "#f59e0b", Order: 1},
	{Name: "Готово", Color: "#10b981", Order: 2},
}

func ValidProjectIcon(icon string) bool {
	return contains(ProjectIcons, icon)
}

func ValidProjectColor(color string) bool {
	return contains(ProjectColors, color)
}

func ValidLabelColor(color string) bool {
	return contains(LabelColors, color)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
