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

// danglingAssigneeName is shown when an assignment's user or group has been
// deleted out from under it.
const danglingAssigneeName = "N/A"

type AssignmentHandler struct {
	taskRepo       repository.TaskRepositoryInterface
	assignmentRepo repository.AssignmentRepositoryInterface
	groupRepo      repository.GroupRepositoryInterface
}

func NewAssignmentHandler(
	taskRepo repository.TaskRepositoryInterface,
	assignmentRepo repository.AssignmentRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
) *AssignmentHandler {
	return &AssignmentHandler{
		taskRepo:       taskRepo,
		assignmentRepo: assignmentRepo,
		groupRepo:      groupRepo,
	}
}

type assignmentCreateRequest struct {
	AssigneeType string `json:"assignee_type" binding:"required,oneof=user group"`
	AssigneeID   string `json:"assignee_id" binding:"required,uuid"`
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// AssignmentResponse is the assignment projection returned by all assignment
// endpoints.
type AssignmentResponse struct {
	ID           string  `json:"id"`
	TaskID       string  `json:"task_id"`
	AssigneeType string  `json:"assignee_type"`
	AssigneeID   string  `json:"assignee_id"`
	AssigneeName string  `json:"assignee_name"`
	AssignedBy   string  `json:"assigned_by"`
	AssignerName *string `json:"assigner_name,omitempty"`
	AssignedAt   string  `json:"assigned_at"`
	Status       string  `json:"status"`
}

func toAssignmentResponse(a *model.Assignment, assigneeName string) AssignmentResponse {
	resp := AssignmentResponse{
		ID:           a.ID.String(),
		TaskID:       a.TaskID.String(),
		AssigneeType: a.AssigneeType,
		AssigneeID:   a.AssigneeID.String(),
		AssigneeName: assigneeName,
		AssignedBy:   a.AssignedBy.String(),
		AssignedAt:   a.AssignedAt.Format(time.RFC3339),
		Status:       a.Status,
	}
	if a.Assigner.Name != "" {
		assignerName := a.Assigner.Name
		resp.AssignerName = &assignerName
	}
	return resp
}

// List returns a recency-ordered page of a task's assignments, each with its
// resolved assignee display name. Soft-deleted tasks are valid targets.
// @Summary  List task assignments
// @Tags     Assignments
// @Produce  json
// @Security BearerAuth
// @Router   /tasks/{id}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	task, ok := h.resolveTask(c)
	if !ok {
		return
	}

	page, perPage, offset := paginationParams(c)
	assignments, total, err := h.assignmentRepo.ListByTask(c.Request.Context(), task.ID, perPage, offset)
	if err != nil {
		logging.Logger.Errorf("Assignment list error: %v", err)
		respondInternal(c)
		return
	}

	items := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		name := danglingAssigneeName
		resolved, found, err := h.assignmentRepo.ResolveAssignee(
			c.Request.Context(), assignments[i].AssigneeType, assignments[i].AssigneeID)
		if err != nil {
			logging.Logger.Errorf("Assignment list error: %v", err)
			respondInternal(c)
			return
		}
		if found {
			name = resolved
		}
		items[i] = toAssignmentResponse(&assignments[i], name)
	}

	respondSuccess(c, http.StatusOK, Page{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, "Task assignments with status")
}

// Create assigns the task to a user or group. Admin only. The assignee must
// exist under the given type, and a task cannot be assigned twice to the same
// assignee.
// @Summary  Assign a task
// @Tags     Assignments
// @Produce  json
// @Security BearerAuth
// @Router   /tasks/{id}/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	adminID, _, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	task, ok := h.resolveTask(c)
	if !ok {
		return
	}

	var req assignmentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	assigneeID, err := uuid.Parse(req.AssigneeID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid assignee ID format")
		return
	}

	assigneeName, found, err := h.assignmentRepo.ResolveAssignee(c.Request.Context(), req.AssigneeType, assigneeID)
	if err != nil {
		logging.Logger.Errorf("Task assignment error: %v", err)
		respondInternal(c)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Assignee not found")
		return
	}

	assignment := &model.Assignment{
		ID:           uuid.New(),
		TaskID:       task.ID,
		AssigneeType: req.AssigneeType,
		AssigneeID:   assigneeID,
		AssignedBy:   adminID,
		AssignedAt:   time.Now(),
		Status:       model.StatusCreated,
	}

	if err := h.assignmentRepo.Create(c.Request.Context(), assignment); err != nil {
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			respondError(c, http.StatusConflict, "Task is already assigned to this assignee")
			return
		}
		logging.Logger.Errorf("Task assignment error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusCreated, toAssignmentResponse(assignment, assigneeName), "Assignment stored successfully")
}

// Delete removes an assignment. Admin only; the assignment must belong to the
// task named in the route.
func (h *AssignmentHandler) Delete(c *gin.Context) {
	task, ok := h.resolveTask(c)
	if !ok {
		return
	}

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	assignment, err := h.assignmentRepo.GetByID(c.Request.Context(), assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			respondError(c, http.StatusNotFound, "Assignment not found")
			return
		}
		logging.Logger.Errorf("Task assignment delete error: %v", err)
		respondInternal(c)
		return
	}

	if assignment.TaskID != task.ID {
		respondError(c, http.StatusBadRequest, "This assignment does not belong to the given task.")
		return
	}

	if err := h.assignmentRepo.Delete(c.Request.Context(), assignment.ID); err != nil {
		logging.Logger.Errorf("Task assignment delete error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Task assignment deleted successfully.")
}

// UpdateStatus moves an assignment through its lifecycle. Admins may set any
// status. Members may only move assignments that reach them — directly or
// through current membership of an assigned group — and only to progress,
// hold, or completed. Membership is re-checked on every call, so leaving a
// group revokes update rights immediately.
// @Summary  Update assignment status
// @Tags     Assignments
// @Produce  json
// @Security BearerAuth
// @Router   /tasks/{id}/assignments/{assignment_id}/status [patch]
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	callerID, role, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	task, ok := h.resolveTask(c)
	if !ok {
		return
	}

	assignmentID, err := uuid.Parse(c.Param("assignment_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}
	if !model.IsValidStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status value")
		return
	}

	assignment, err := h.assignmentRepo.Get(c.Request.Context(), task.ID, assignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			respondError(c, http.StatusNotFound, "Assignment not found for this task")
			return
		}
		logging.Logger.Errorf("Assignment status update error: %v", err)
		respondInternal(c)
		return
	}

	isAssignee, err := h.isAssignedTo(c, assignment, callerID)
	if err != nil {
		logging.Logger.Errorf("Assignment status update error: %v", err)
		respondInternal(c)
		return
	}

	allowed := model.AllowedStatuses(role, isAssignee)
	if !allowed[req.Status] {
		if role != model.RoleAdmin && !isAssignee {
			respondError(c, http.StatusForbidden, "You are not allowed to update this task status")
			return
		}
		respondError(c, http.StatusForbidden, "You can only change status to Progress, Hold, or Completed")
		return
	}

	updated, err := h.assignmentRepo.UpdateStatus(c.Request.Context(), assignment.ID, req.Status)
	if err != nil {
		logging.Logger.Errorf("Assignment status update error: %v", err)
		respondInternal(c)
		return
	}

	name := danglingAssigneeName
	if resolved, found, err := h.assignmentRepo.ResolveAssignee(
		c.Request.Context(), updated.AssigneeType, updated.AssigneeID); err == nil && found {
		name = resolved
	}

	message := "User updated assignment status successfully"
	if role == model.RoleAdmin {
		message = "Admin updated assignment status successfully"
	}
	respondSuccess(c, http.StatusOK, toAssignmentResponse(updated, name), message)
}

// isAssignedTo reports whether the assignment reaches the caller: a direct
// user assignment to them, or a group assignment to a group they are
// currently a member of. Group membership is always resolved live.
func (h *AssignmentHandler) isAssignedTo(c *gin.Context, assignment *model.Assignment, callerID uuid.UUID) (bool, error) {
	switch assignment.AssigneeType {
	case model.AssigneeTypeUser:
		return assignment.AssigneeID == callerID, nil
	case model.AssigneeTypeGroup:
		return h.groupRepo.IsMember(c.Request.Context(), assignment.AssigneeID, callerID)
	default:
		return false, nil
	}
}

// resolveTask loads the route task. Assignment endpoints address soft-deleted
// tasks too, so the lookup is trashed-inclusive.
func (h *AssignmentHandler) resolveTask(c *gin.Context) (*model.Task, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task ID format")
		return nil, false
	}

	task, err := h.taskRepo.GetByID(c.Request.Context(), taskID, true)
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
