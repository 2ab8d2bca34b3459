package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskmanager/internal/logging"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

type GroupHandler struct {
	groupRepo repository.GroupRepositoryInterface
}

func NewGroupHandler(groupRepo repository.GroupRepositoryInterface) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo}
}

type groupRequest struct {
	Name string `json:"name" binding:"required"`
}

// GroupResponse is the public projection of a group.
type GroupResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toGroupResponse(group *model.Group) GroupResponse {
	return GroupResponse{ID: group.ID.String(), Name: group.Name}
}

// Create stores a new group.
func (h *GroupHandler) Create(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	group := &model.Group{ID: uuid.New(), Name: req.Name}
	if err := h.groupRepo.Create(c.Request.Context(), group); err != nil {
		logging.Logger.Errorf("Group store error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusCreated, toGroupResponse(group), "Group Create Success")
}

// List returns a recency-ordered page of groups.
func (h *GroupHandler) List(c *gin.Context) {
	page, perPage, offset := paginationParams(c)

	groups, total, err := h.groupRepo.List(c.Request.Context(), perPage, offset)
	if err != nil {
		logging.Logger.Errorf("Group list error: %v", err)
		respondInternal(c)
		return
	}

	items := make([]GroupResponse, len(groups))
	for i := range groups {
		items[i] = toGroupResponse(&groups[i])
	}

	respondSuccess(c, http.StatusOK, Page{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, "Group Data")
}

// GetByID returns a single group.
func (h *GroupHandler) GetByID(c *gin.Context) {
	group, ok := h.resolveGroup(c)
	if !ok {
		return
	}
	respondSuccess(c, http.StatusOK, toGroupResponse(group), "Single Group Data")
}

// Update renames a group.
func (h *GroupHandler) Update(c *gin.Context) {
	group, ok := h.resolveGroup(c)
	if !ok {
		return
	}

	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	group.Name = req.Name
	if err := h.groupRepo.Update(c.Request.Context(), group); err != nil {
		logging.Logger.Errorf("Group update error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, toGroupResponse(group), "Group Update Success")
}

// Delete removes a group. Its assignments are left dangling and resolve to
// "N/A" in assignment views.
func (h *GroupHandler) Delete(c *gin.Context) {
	group, ok := h.resolveGroup(c)
	if !ok {
		return
	}

	if err := h.groupRepo.Delete(c.Request.Context(), group.ID); err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "Group not found")
			return
		}
		logging.Logger.Errorf("Group delete error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Group Delete Success")
}

// resolveGroup parses the :id route param and loads the group, answering the
// error response itself on failure.
func (h *GroupHandler) resolveGroup(c *gin.Context) (*model.Group, bool) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid group ID format")
		return nil, false
	}

	group, err := h.groupRepo.GetByID(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			respondError(c, http.StatusNotFound, "Group not found")
			return nil, false
		}
		logging.Logger.Errorf("Group lookup error: %v", err)
		respondInternal(c)
		return nil, false
	}
	return group, true
}
