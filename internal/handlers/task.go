package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkrajewski/task-manager-api/internal/dto"
	apierrors "github.com/mkrajewski/task-manager-api/internal/errors"
	"github.com/mkrajewski/task-manager-api/internal/middleware"
	"github.com/mkrajewski/task-manager-api/internal/services"
	"github.com/mkrajewski/task-manager-api/internal/utils"
)

// allowedUpdateFields is the full set of fields a PATCH may touch. A request
// containing any other key is rejected wholesale, never partially applied.
var allowedUpdateFields = map[string]struct{}{
	"title":       {},
	"description": {},
	"completed":   {},
	"deadline":    {},
	"tags":        {},
}

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a task owned by the caller. An owner field in the body
// is ignored; ownership always comes from the authenticated identity.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type SubtaskRequest struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	type CreateTaskRequest struct {
		Title         string           `json:"title"`
		Description   string           `json:"description"`
		Priority      string           `json:"priority"`
		Completed     bool             `json:"completed"`
		Deadline      *time.Time       `json:"deadline"`
		Tags          []string         `json:"tags"`
		Subtasks      []SubtaskRequest `json:"subtasks"`
		Collaborators []uint64         `json:"collaborators"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	subtasks := make([]services.SubtaskInput, len(req.Subtasks))
	for i, st := range req.Subtasks {
		subtasks[i] = services.SubtaskInput{
			Title:     st.Title,
			Completed: st.Completed,
		}
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Completed:     req.Completed,
		Deadline:      req.Deadline,
		Tags:          req.Tags,
		Subtasks:      subtasks,
		Collaborators: req.Collaborators,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the caller's tasks. Query params: completed, tag,
// sortBy=field:asc|desc, limit, skip.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{
		Tag: c.Query("tag"),
	}

	// Any value other than "true" filters for incomplete tasks.
	if completed := c.Query("completed"); completed != "" {
		v := completed == "true"
		input.Completed = &v
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		parts := strings.SplitN(sortBy, ":", 2)
		input.SortField = parts[0]
		input.SortDesc = len(parts) == 2 && parts[1] == "desc"
	}

	params := utils.GetListParams(c)
	input.Limit = params.Limit
	input.Skip = params.Skip

	tasks, err := h.taskService.List(userID, input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask fetches one owned task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		apierrors.NotFound(c, "")
		return
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies an allow-listed partial update to an owned task.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		apierrors.NotFound(c, "")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	for field := range fields {
		if _, allowed := allowedUpdateFields[field]; !allowed {
			apierrors.BadRequestWithDetails(c, "Invalid updates", gin.H{"field": field})
			return
		}
	}

	type UpdateTaskRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Completed   *bool      `json:"completed"`
		Deadline    *time.Time `json:"deadline"`
		Tags        *[]string  `json:"tags"`
	}

	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Deadline:    req.Deadline,
		Tags:        req.Tags,
	}

	// "deadline": null clears the deadline; an absent key leaves it alone.
	if raw, present := fields["deadline"]; present && string(raw) == "null" {
		input.ClearDeadline = true
	}

	task, err := h.taskService.Update(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes an owned task and returns it.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		apierrors.NotFound(c, "")
		return
	}

	task, err := h.taskService.Delete(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrDescriptionTooShort),
		errors.Is(err, services.ErrDeadlineInPast),
		errors.Is(err, services.ErrTagTooLong),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrSubtaskTitleMissing):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
