package services

import (
	"strings"
	"testing"
	"time"

	"github.com/mkrajewski/task-manager-api/internal/models"
	"github.com/mkrajewski/task-manager-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTaskService(t *testing.T) *TaskService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Subtask{},
		&models.TaskTag{},
		&models.TaskCollaborator{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return NewTaskService(repository.NewTaskRepository(db))
}

func TestTaskService_Create_Defaults(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "  New Task  "})
	require.NoError(t, err)
	require.Equal(t, "New Task", task.Title)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.False(t, task.Completed)
	require.Equal(t, uint64(1), task.OwnerID)
	require.Nil(t, task.Deadline)
}

func TestTaskService_Create_Full(t *testing.T) {
	svc := setupTaskService(t)

	deadline := time.Now().Add(48 * time.Hour)
	task, err := svc.Create(1, CreateTaskInput{
		Title:       "Plan release",
		Description: "Write up and publish the release notes",
		Priority:    "High",
		Deadline:    &deadline,
		Tags:        []string{"work", "urgent"},
		Subtasks: []SubtaskInput{
			{Title: "Draft notes"},
			{Title: "Review", Completed: true},
		},
		Collaborators: []uint64{5, 9},
	})
	require.NoError(t, err)
	require.Equal(t, models.PriorityHigh, task.Priority)
	require.Len(t, task.Tags, 2)
	require.Equal(t, "work", task.Tags[0].Name)
	require.Equal(t, "urgent", task.Tags[1].Name)
	require.Len(t, task.Subtasks, 2)
	require.Equal(t, "Draft notes", task.Subtasks[0].Title)
	require.True(t, task.Subtasks[1].Completed)
	require.Len(t, task.Collaborators, 2)
	require.Equal(t, uint64(5), task.Collaborators[0].UserID)
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc := setupTaskService(t)

	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name    string
		input   CreateTaskInput
		wantErr error
	}{
		{"missing title", CreateTaskInput{Description: "Missing title entirely"}, ErrTitleRequired},
		{"blank title", CreateTaskInput{Title: "   "}, ErrTitleRequired},
		{"short description", CreateTaskInput{Title: "Task", Description: "too short"}, ErrDescriptionTooShort},
		{"short multibyte description", CreateTaskInput{Title: "Task", Description: "ąąąąąąąąą"}, ErrDescriptionTooShort},
		{"past deadline", CreateTaskInput{Title: "Task", Deadline: &past}, ErrDeadlineInPast},
		{"long tag", CreateTaskInput{Title: "Task", Tags: []string{"this-tag-is-way-too-long-to-be-accepted"}}, ErrTagTooLong},
		{"bad priority", CreateTaskInput{Title: "Task", Priority: "Urgent"}, ErrInvalidPriority},
		{"blank subtask title", CreateTaskInput{Title: "Task", Subtasks: []SubtaskInput{{Title: " "}}}, ErrSubtaskTitleMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(1, tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTaskService_Create_MultibyteLengths(t *testing.T) {
	svc := setupTaskService(t)

	// Limits count characters, not bytes: ten multibyte characters satisfy
	// the description minimum, and a sixteen-character multibyte tag stays
	// well under the tag maximum despite its byte length.
	task, err := svc.Create(1, CreateTaskInput{
		Title:       "Task",
		Description: strings.Repeat("ą", 10),
		Tags:        []string{strings.Repeat("ą", 16)},
	})
	require.NoError(t, err)
	require.Len(t, task.Tags, 1)

	_, err = svc.Create(1, CreateTaskInput{
		Title: "Task",
		Tags:  []string{strings.Repeat("ą", 31)},
	})
	require.ErrorIs(t, err, ErrTagTooLong)
}

func TestTaskService_Get_OwnershipIsolation(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "Owner one's task"})
	require.NoError(t, err)

	// Another owner sees the task exactly as if it did not exist.
	_, err = svc.Get(2, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	got, err := svc.Get(1, task.ID)
	require.NoError(t, err)
	require.Equal(t, task.ID, got.ID)
}

func TestTaskService_Update(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "Before", Tags: []string{"old"}})
	require.NoError(t, err)

	title := "After"
	completed := true
	tags := []string{"new", "fresh"}
	updated, err := svc.Update(1, task.ID, UpdateTaskInput{
		Title:     &title,
		Completed: &completed,
		Tags:      &tags,
	})
	require.NoError(t, err)
	require.Equal(t, "After", updated.Title)
	require.True(t, updated.Completed)
	require.Len(t, updated.Tags, 2)
	require.Equal(t, "new", updated.Tags[0].Name)
	require.Equal(t, "fresh", updated.Tags[1].Name)
}

func TestTaskService_Update_RevalidatesInvariants(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "Task"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	_, err = svc.Update(1, task.ID, UpdateTaskInput{Deadline: &past})
	require.ErrorIs(t, err, ErrDeadlineInPast)

	short := "too short"
	_, err = svc.Update(1, task.ID, UpdateTaskInput{Description: &short})
	require.ErrorIs(t, err, ErrDescriptionTooShort)

	blank := "  "
	_, err = svc.Update(1, task.ID, UpdateTaskInput{Title: &blank})
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestTaskService_Update_ClearDeadline(t *testing.T) {
	svc := setupTaskService(t)

	deadline := time.Now().Add(24 * time.Hour)
	task, err := svc.Create(1, CreateTaskInput{Title: "Task", Deadline: &deadline})
	require.NoError(t, err)
	require.NotNil(t, task.Deadline)

	updated, err := svc.Update(1, task.ID, UpdateTaskInput{ClearDeadline: true})
	require.NoError(t, err)
	require.Nil(t, updated.Deadline)
}

func TestTaskService_Update_OtherOwner(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "Task"})
	require.NoError(t, err)

	title := "Hijacked"
	_, err = svc.Update(2, task.ID, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_Delete(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "Doomed"})
	require.NoError(t, err)

	deleted, err := svc.Delete(1, task.ID)
	require.NoError(t, err)
	require.Equal(t, "Doomed", deleted.Title)

	_, err = svc.Get(1, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.Delete(1, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_Delete_OtherOwner(t *testing.T) {
	svc := setupTaskService(t)

	task, err := svc.Create(1, CreateTaskInput{Title: "Task"})
	require.NoError(t, err)

	_, err = svc.Delete(2, task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)

	// Still there for the real owner.
	_, err = svc.Get(1, task.ID)
	require.NoError(t, err)
}

func TestTaskService_List(t *testing.T) {
	svc := setupTaskService(t)

	_, err := svc.Create(1, CreateTaskInput{Title: "b task", Completed: true, Tags: []string{"work"}})
	require.NoError(t, err)
	_, err = svc.Create(1, CreateTaskInput{Title: "a task", Tags: []string{"work", "urgent"}})
	require.NoError(t, err)
	_, err = svc.Create(1, CreateTaskInput{Title: "c task"})
	require.NoError(t, err)
	_, err = svc.Create(2, CreateTaskInput{Title: "other owner's task", Tags: []string{"work"}})
	require.NoError(t, err)

	// Owner scope only
	tasks, err := svc.List(1, ListTasksInput{Limit: -1, Skip: -1})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// Completed filter
	completed := true
	tasks, err = svc.List(1, ListTasksInput{Completed: &completed, Limit: -1, Skip: -1})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "b task", tasks[0].Title)

	// Tag membership
	tasks, err = svc.List(1, ListTasksInput{Tag: "work", Limit: -1, Skip: -1})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	// Sorting
	tasks, err = svc.List(1, ListTasksInput{SortField: "title", SortDesc: true, Limit: -1, Skip: -1})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, "c task", tasks[0].Title)

	// Unknown sort field degrades to no sort instead of failing
	tasks, err = svc.List(1, ListTasksInput{SortField: "nonexistent", Limit: -1, Skip: -1})
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// Pagination
	tasks, err = svc.List(1, ListTasksInput{SortField: "title", Limit: 1, Skip: 1})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "b task", tasks[0].Title)
}
