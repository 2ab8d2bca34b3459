package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskmanager/internal/logging"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

type TaskHandler struct {
	taskRepo       repository.TaskRepositoryInterface
	assignmentRepo repository.AssignmentRepositoryInterface
}

func NewTaskHandler(
	taskRepo repository.TaskRepositoryInterface,
	assignmentRepo repository.AssignmentRepositoryInterface,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
	}
}

type taskCreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// UserSummaryResponse is one concretely-affected user in a task view.
type UserSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskResponse is the task projection returned by all task endpoints.
type TaskResponse struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Status        string                `json:"status"`
	CreatedBy     string                `json:"created_by"`
	CreatorName   string                `json:"creator_name,omitempty"`
	CreatedAt     string                `json:"created_at"`
	DeletedAt     *string               `json:"deleted_at,omitempty"`
	AssignedUsers []UserSummaryResponse `json:"assigned_users,omitempty"`
}

func toTaskResponse(task *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedBy:   task.CreatedBy.String(),
		CreatorName: task.Creator.Name,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
	}
	if task.Trashed() {
		deletedAt := task.DeletedAt.Time.Format(time.RFC3339)
		resp.DeletedAt = &deletedAt
	}
	return resp
}

func toUserSummaries(users []model.UserSummary) []UserSummaryResponse {
	summaries := make([]UserSummaryResponse, len(users))
	for i, u := range users {
		summaries[i] = UserSummaryResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email}
	}
	return summaries
}

// List returns a recency-ordered page of live tasks, each augmented with the
// de-duplicated set of users its assignments concretely reach.
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Security BearerAuth
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	page, perPage, offset := paginationParams(c)

	tasks, total, err := h.taskRepo.List(c.Request.Context(), perPage, offset)
	if err != nil {
		logging.Logger.Errorf("Task list error: %v", err)
		respondInternal(c)
		return
	}

	items := make([]TaskResponse, len(tasks))
	for i := range tasks {
		items[i] = toTaskResponse(&tasks[i])

		users, err := h.assignmentRepo.AssignedUsers(c.Request.Context(), tasks[i].ID)
		if err != nil {
			logging.Logger.Errorf("Task list aggregation error: %v", err)
			respondInternal(c)
			return
		}
		items[i].AssignedUsers = toUserSummaries(users)
	}

	respondSuccess(c, http.StatusOK, Page{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, "Task Data")
}

// GetByID returns a single live task with its affected users.
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, ok := h.resolveTask(c, false)
	if !ok {
		return
	}

	users, err := h.assignmentRepo.AssignedUsers(c.Request.Context(), task.ID)
	if err != nil {
		logging.Logger.Errorf("Task aggregation error: %v", err)
		respondInternal(c)
		return
	}

	resp := toTaskResponse(task)
	resp.AssignedUsers = toUserSummaries(users)
	respondSuccess(c, http.StatusOK, resp, "Single Task Data")
}

// Create stores a new task with status "created". Admin only.
func (h *TaskHandler) Create(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	task := &model.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusCreated,
		CreatedBy:   userID,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task); err != nil {
		logging.Logger.Errorf("Task store error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusCreated, toTaskResponse(task), "Task Create Success")
}

// Update changes task fields. Admin only. Task.Status stays an informational
// summary; per-assignee progress is updated through the assignment endpoints.
func (h *TaskHandler) Update(c *gin.Context) {
	task, ok := h.resolveTask(c, false)
	if !ok {
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			respondError(c, http.StatusBadRequest, "Invalid status value")
			return
		}
		task.Status = *req.Status
	}

	if err := h.taskRepo.Update(c.Request.Context(), task); err != nil {
		logging.Logger.Errorf("Task update error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, toTaskResponse(task), "Task Update Success")
}

// Delete soft-deletes a task. It disappears from normal listings but stays
// addressable for restore and force-delete. Admin only.
func (h *TaskHandler) Delete(c *gin.Context) {
	task, ok := h.resolveTask(c, false)
	if !ok {
		return
	}

	if err := h.taskRepo.SoftDelete(c.Request.Context(), task.ID); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
			return
		}
		logging.Logger.Errorf("Task delete error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Task Delete Success")
}

// Trashed lists soft-deleted tasks, most recently deleted first. Admin only.
func (h *TaskHandler) Trashed(c *gin.Context) {
	page, perPage, offset := paginationParams(c)

	tasks, total, err := h.taskRepo.ListTrashed(c.Request.Context(), perPage, offset)
	if err != nil {
		logging.Logger.Errorf("Trashed task fetch error: %v", err)
		respondInternal(c)
		return
	}

	items := make([]TaskResponse, len(tasks))
	for i := range tasks {
		items[i] = toTaskResponse(&tasks[i])
	}

	respondSuccess(c, http.StatusOK, Page{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, "Trashed Task Data")
}

// Restore brings a soft-deleted task back. A live task cannot be restored.
func (h *TaskHandler) Restore(c *gin.Context) {
	task, ok := h.resolveTask(c, true)
	if !ok {
		return
	}

	if !task.Trashed() {
		respondError(c, http.StatusBadRequest, "Task is not deleted")
		return
	}

	if err := h.taskRepo.Restore(c.Request.Context(), task.ID); err != nil {
		logging.Logger.Errorf("Task restore error: %v", err)
		respondInternal(c)
		return
	}

	task.DeletedAt.Valid = false
	respondSuccess(c, http.StatusOK, toTaskResponse(task), "Task restored successfully")
}

// ForceDelete permanently removes a soft-deleted task and its assignments.
func (h *TaskHandler) ForceDelete(c *gin.Context) {
	task, ok := h.resolveTask(c, true)
	if !ok {
		return
	}

	if !task.Trashed() {
		respondError(c, http.StatusBadRequest, "Task is not deleted, cannot force delete")
		return
	}

	if err := h.taskRepo.ForceDelete(c.Request.Context(), task.ID); err != nil {
		logging.Logger.Errorf("Task force delete error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Task permanently deleted")
}

// resolveTask parses the :id route param and loads the task, answering the
// error response itself on failure.
func (h *TaskHandler) resolveTask(c *gin.Context, includeTrashed bool) (*model.Task, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID format")
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID, includeTrashed)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			respondError(c, http.StatusNotFound, "Task not found")
			return nil, false
		}
		logging.Logger.Errorf("Task lookup error: %v", err)
		respondInternal(c)
		return nil, false
	}
	return task, true
}
