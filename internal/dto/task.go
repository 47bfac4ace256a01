package dto

import (
	"time"

	"github.com/mkrajewski/task-manager-api/internal/models"
)

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Priority      models.TaskPriority `json:"priority"`
	Completed     bool                `json:"completed"`
	Deadline      *time.Time          `json:"deadline"`
	Subtasks      []SubtaskDTO        `json:"subtasks"`
	Tags          []string            `json:"tags"`
	Collaborators []uint64            `json:"collaborators"`
	OwnerID       uint64              `json:"owner_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	subtasks := make([]SubtaskDTO, len(task.Subtasks))
	for i, st := range task.Subtasks {
		subtasks[i] = SubtaskDTO{
			ID:        st.ID,
			Title:     st.Title,
			Completed: st.Completed,
		}
	}

	tags := make([]string, len(task.Tags))
	for i, tag := range task.Tags {
		tags[i] = tag.Name
	}

	collaborators := make([]uint64, len(task.Collaborators))
	for i, collaborator := range task.Collaborators {
		collaborators[i] = collaborator.UserID
	}

	return TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Priority:      task.Priority,
		Completed:     task.Completed,
		Deadline:      task.Deadline,
		Subtasks:      subtasks,
		Tags:          tags,
		Collaborators: collaborators,
		OwnerID:       task.OwnerID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
