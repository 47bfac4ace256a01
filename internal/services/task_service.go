package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mkrajewski/task-manager-api/internal/models"
	"github.com/mkrajewski/task-manager-api/internal/repository"
	"gorm.io/gorm"
)

const maxTagLength = 30

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionTooShort = errors.New("the task description must be at least 10 characters long")
	ErrDeadlineInPast      = errors.New("the deadline must not be in the past")
	ErrTagTooLong          = errors.New("tags must be at most 30 characters long")
	ErrInvalidPriority     = errors.New("priority must be one of Low, Medium, High")
	ErrSubtaskTitleMissing = errors.New("subtask title is required")
)

// sortColumns whitelists the JSON field names a client may sort by and maps
// them to columns. An unknown field degrades to no sort.
var sortColumns = map[string]string{
	"title":     "title",
	"completed": "completed",
	"deadline":  "deadline",
	"priority":  "priority",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// TaskService handles task business logic. Every operation is scoped to the
// owner passed in; a caller can never see or touch another owner's tasks.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// SubtaskInput represents one subtask in a create request
type SubtaskInput struct {
	Title     string
	Completed bool
}

// CreateTaskInput represents input for creating a task. The owner is never
// part of it; it always comes from the authenticated identity.
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      string
	Completed     bool
	Deadline      *time.Time
	Tags          []string
	Subtasks      []SubtaskInput
	Collaborators []uint64
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Completed *bool
	Tag       string
	SortField string
	SortDesc  bool
	Limit     int
	Skip      int
}

// UpdateTaskInput represents an allow-listed partial update. Nil pointers
// leave the field untouched; ClearDeadline distinguishes an explicit null
// deadline from an absent one.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Completed     *bool
	Deadline      *time.Time
	ClearDeadline bool
	Tags          *[]string
}

// Create validates and persists a new task owned by ownerID.
func (s *TaskService) Create(ownerID uint64, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	description := strings.TrimSpace(input.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if err := validateDeadline(input.Deadline); err != nil {
		return nil, err
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		p := models.TaskPriority(input.Priority)
		if p != models.PriorityLow && p != models.PriorityMedium && p != models.PriorityHigh {
			return nil, ErrInvalidPriority
		}
		priority = p
	}

	tags, err := buildTags(input.Tags)
	if err != nil {
		return nil, err
	}

	subtasks := make([]models.Subtask, 0, len(input.Subtasks))
	for i, st := range input.Subtasks {
		stTitle := strings.TrimSpace(st.Title)
		if stTitle == "" {
			return nil, ErrSubtaskTitleMissing
		}
		subtasks = append(subtasks, models.Subtask{
			Position:  i,
			Title:     stTitle,
			Completed: st.Completed,
		})
	}

	collaborators := make([]models.TaskCollaborator, 0, len(input.Collaborators))
	for i, userID := range input.Collaborators {
		collaborators = append(collaborators, models.TaskCollaborator{
			Position: i,
			UserID:   userID,
		})
	}

	task := &models.Task{
		Title:         title,
		Description:   description,
		Priority:      priority,
		Completed:     input.Completed,
		Deadline:      input.Deadline,
		OwnerID:       ownerID,
		Subtasks:      subtasks,
		Tags:          tags,
		Collaborators: collaborators,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindOwned(ownerID, task.ID)
}

// List returns the owner's tasks matching the filters.
func (s *TaskService) List(ownerID uint64, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		OwnerID:   ownerID,
		Completed: input.Completed,
		Tag:       input.Tag,
		Limit:     input.Limit,
		Skip:      input.Skip,
	}

	if column, ok := sortColumns[input.SortField]; ok {
		filter.SortColumn = column
		filter.SortDesc = input.SortDesc
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get returns an owned task. A task that exists but belongs to someone else
// is reported exactly like a missing one.
func (s *TaskService) Get(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// Update applies an allow-listed partial update to an owned task and
// re-validates the task invariants before saving.
func (s *TaskService) Update(ownerID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := validateDescription(description); err != nil {
			return nil, err
		}
		task.Description = description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		if err := validateDeadline(input.Deadline); err != nil {
			return nil, err
		}
		task.Deadline = input.Deadline
	}

	replaceTags := false
	if input.Tags != nil {
		tags, err := buildTags(*input.Tags)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
		replaceTags = true
	}

	if err := s.taskRepo.Update(task, replaceTags); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindOwned(ownerID, task.ID)
}

// Delete atomically finds and deletes an owned task, returning it.
func (s *TaskService) Delete(ownerID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.DeleteOwned(ownerID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	return task, nil
}

func validateDescription(description string) error {
	if description != "" && utf8.RuneCountInString(description) < 10 {
		return ErrDescriptionTooShort
	}
	return nil
}

func validateDeadline(deadline *time.Time) error {
	if deadline != nil && deadline.Before(time.Now()) {
		return ErrDeadlineInPast
	}
	return nil
}

func buildTags(names []string) ([]models.TaskTag, error) {
	tags := make([]models.TaskTag, 0, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if utf8.RuneCountInString(name) > maxTagLength {
			return nil, ErrTagTooLong
		}
		tags = append(tags, models.TaskTag{
			Position: i,
			Name:     name,
		})
	}
	return tags, nil
}
