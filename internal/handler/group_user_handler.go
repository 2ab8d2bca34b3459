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

type GroupUserHandler struct {
	groupRepo repository.GroupRepositoryInterface
	userRepo  repository.UserRepositoryInterface
}

func NewGroupUserHandler(
	groupRepo repository.GroupRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
) *GroupUserHandler {
	return &GroupUserHandler{groupRepo: groupRepo, userRepo: userRepo}
}

// MemberResponse is one member row of a group listing.
type MemberResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// List returns a page of the group's current members.
func (h *GroupUserHandler) List(c *gin.Context) {
	group, ok := h.resolveGroup(c)
	if !ok {
		return
	}

	page, perPage, offset := paginationParams(c)
	users, total, err := h.groupRepo.Members(c.Request.Context(), group.ID, perPage, offset)
	if err != nil {
		logging.Logger.Errorf("Group member list error: %v", err)
		respondInternal(c)
		return
	}

	members := make([]MemberResponse, len(users))
	for i, u := range users {
		members[i] = MemberResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email}
	}

	respondSuccess(c, http.StatusOK, Page{
		Items:   members,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, "Group users")
}

type addMembersRequest struct {
	UserID  *string  `json:"user_id"`
	UserIDs []string `json:"user_ids"`
}

// Store adds one or more users to the group. Candidates already in a
// different group fail the whole request with a Conflict naming them;
// candidates already in this group are skipped.
func (h *GroupUserHandler) Store(c *gin.Context) {
	group, ok := h.resolveGroup(c)
	if !ok {
		return
	}

	var req addMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	rawIDs := req.UserIDs
	if req.UserID != nil {
		rawIDs = append(rawIDs, *req.UserID)
	}
	if len(rawIDs) == 0 {
		respondError(c, http.StatusBadRequest, "user_id or user_ids is required")
		return
	}

	seen := make(map[uuid.UUID]bool, len(rawIDs))
	userIDs := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid user ID format")
			return
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		userIDs = append(userIDs, id)
	}

	// Every candidate must be an existing user.
	for _, id := range userIDs {
		user, err := h.userRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			logging.Logger.Errorf("Group member store error: %v", err)
			respondInternal(c)
			return
		}
		if user == nil {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
	}

	if err := h.groupRepo.AddMembers(c.Request.Context(), group.ID, userIDs); err != nil {
		var conflict *repository.UsersInAnotherGroupError
		if errors.As(err, &conflict) {
			respondError(c, http.StatusConflict, conflict.Error())
			return
		}
		logging.Logger.Errorf("Group member store error: %v", err)
		respondInternal(c)
		return
	}

	users, _, err := h.groupRepo.Members(c.Request.Context(), group.ID, maxPerPage, 0)
	if err != nil {
		logging.Logger.Errorf("Group member store error: %v", err)
		respondInternal(c)
		return
	}

	members := make([]MemberResponse, len(users))
	for i, u := range users {
		members[i] = MemberResponse{ID: u.ID.String(), Name: u.Name, Email: u.Email}
	}

	respondSuccess(c, http.StatusCreated, members, "Group User Create Success")
}

// Destroy removes a user from the group. Removal is idempotent.
func (h *GroupUserHandler) Destroy(c *gin.Context) {
	group, ok := h.resolveGroup(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	if err := h.groupRepo.RemoveMember(c.Request.Context(), group.ID, userID); err != nil {
		logging.Logger.Errorf("Group member delete error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Group user deleted")
}

func (h *GroupUserHandler) resolveGroup(c *gin.Context) (*model.Group, bool) {
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
