package models

import (
	"time"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'Medium'" json:"priority"`
	Completed   bool         `gorm:"not null;default:false" json:"completed"`
	Deadline    *time.Time   `json:"deadline"`
	OwnerID     uint64       `gorm:"index;not null" json:"owner_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Owner         User               `gorm:"foreignKey:OwnerID" json:"-"`
	Subtasks      []Subtask          `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
	Tags          []TaskTag          `gorm:"foreignKey:TaskID" json:"tags,omitempty"`
	Collaborators []TaskCollaborator `gorm:"foreignKey:TaskID" json:"collaborators,omitempty"`
}

type Subtask struct {
	ID        uint64 `gorm:"primarykey" json:"id"`
	TaskID    uint64 `gorm:"index;not null" json:"task_id"`
	Position  int    `gorm:"not null" json:"position"`
	Title     string `gorm:"not null" json:"title"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`
}

type TaskTag struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	TaskID   uint64 `gorm:"index;not null" json:"task_id"`
	Position int    `gorm:"not null" json:"position"`
	Name     string `gorm:"type:varchar(30);not null" json:"name"`
}

// TaskCollaborator records a user attached to a task. Collaborators are
// stored but do not grant any access to the task.
type TaskCollaborator struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	TaskID   uint64 `gorm:"index;not null" json:"task_id"`
	Position int    `gorm:"not null" json:"position"`
	UserID   uint64 `gorm:"not null" json:"user_id"`
}
