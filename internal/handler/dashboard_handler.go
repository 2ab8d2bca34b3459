package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/logging"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

type DashboardHandler struct {
	userRepo       repository.UserRepositoryInterface
	taskRepo       repository.TaskRepositoryInterface
	groupRepo      repository.GroupRepositoryInterface
	assignmentRepo repository.AssignmentRepositoryInterface
}

func NewDashboardHandler(
	userRepo repository.UserRepositoryInterface,
	taskRepo repository.TaskRepositoryInterface,
	groupRepo repository.GroupRepositoryInterface,
	assignmentRepo repository.AssignmentRepositoryInterface,
) *DashboardHandler {
	return &DashboardHandler{
		userRepo:       userRepo,
		taskRepo:       taskRepo,
		groupRepo:      groupRepo,
		assignmentRepo: assignmentRepo,
	}
}

// AdminData aggregates system-wide counters for the admin dashboard.
func (h *DashboardHandler) AdminData(c *gin.Context) {
	ctx := c.Request.Context()

	totalUsers, err := h.userRepo.CountByRole(ctx, model.RoleMember)
	if err != nil {
		h.fail(c, err)
		return
	}
	totalTasks, err := h.taskRepo.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	totalAssignments, err := h.assignmentRepo.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	totalGroups, err := h.groupRepo.Count(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	statusCounts, err := h.countByStatuses(ctx,
		model.StatusAssigned, model.StatusProgress, model.StatusHold, model.StatusCompleted)
	if err != nil {
		h.fail(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"total_users":       totalUsers,
		"total_tasks":       totalTasks,
		"total_assignments": totalAssignments,
		"completed_tasks":   statusCounts[3],
		"total_groups":      totalGroups,
		"taskLabels":        []string{"Assigned", "In Progress", "On Hold", "Completed"},
		"taskCounts":        statusCounts,
	}, "Dashboard data loaded successfully")
}

// UserData aggregates the caller's own workload: assignments reaching them
// directly or through the groups they currently belong to.
func (h *DashboardHandler) UserData(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ctx := c.Request.Context()

	groupIDs, err := h.groupRepo.GroupIDsOf(ctx, userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	assigned, err := h.assignmentRepo.CountForAssignee(ctx, userID, groupIDs, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	counts := make([]int64, 0, 3)
	for _, status := range []string{model.StatusProgress, model.StatusHold, model.StatusCompleted} {
		n, err := h.assignmentRepo.CountForAssignee(ctx, userID, groupIDs, status)
		if err != nil {
			h.fail(c, err)
			return
		}
		counts = append(counts, n)
	}

	respondSuccess(c, http.StatusOK, gin.H{
		"assigned_tasks":  assigned,
		"completed_tasks": counts[2],
		"projectLabels":   []string{"In Progress", "On Hold", "Completed"},
		"projectCounts":   counts,
	}, "Dashboard data loaded successfully")
}

func (h *DashboardHandler) countByStatuses(ctx context.Context, statuses ...string) ([]int64, error) {
	counts := make([]int64, 0, len(statuses))
	for _, status := range statuses {
		n, err := h.assignmentRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func (h *DashboardHandler) fail(c *gin.Context, err error) {
	logging.Logger.Errorf("Dashboard data error: %v", err)
	respondInternal(c)
}
