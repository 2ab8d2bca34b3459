package handler

import (
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskmanager/internal/logging"
	"taskmanager/internal/repository"
)

// profileTTL bounds how stale a cached profile may get; updates and logout
// invalidate eagerly.
const profileTTL = 24 * time.Hour

type cachedProfile struct {
	resp      UserResponse
	expiresAt time.Time
}

// ttlCache is a minimal per-user profile cache. Only profile reads use it;
// nothing in the assignment path ever does.
type ttlCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]cachedProfile
}

var profileCache = &ttlCache{entries: make(map[uuid.UUID]cachedProfile)}

func (tc *ttlCache) get(id uuid.UUID) (UserResponse, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	entry, ok := tc.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return UserResponse{}, false
	}
	return entry.resp, true
}

func (tc *ttlCache) put(id uuid.UUID, resp UserResponse) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.entries[id] = cachedProfile{resp: resp, expiresAt: time.Now().Add(profileTTL)}
}

func (tc *ttlCache) invalidate(id uuid.UUID) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	delete(tc.entries, id)
}

type UserHandler struct {
	userRepo  repository.UserRepositoryInterface
	uploadDir string
}

func NewUserHandler(userRepo repository.UserRepositoryInterface, uploadDir string) *UserHandler {
	return &UserHandler{userRepo: userRepo, uploadDir: uploadDir}
}

// Profile returns the caller's own profile, served from the TTL cache when
// fresh.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if resp, hit := profileCache.get(userID); hit {
		respondSuccess(c, http.StatusOK, resp, "User Profile")
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		logging.Logger.Errorf("Profile error: %v", err)
		respondInternal(c)
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	resp := toUserResponse(user)
	profileCache.put(userID, resp)
	respondSuccess(c, http.StatusOK, resp, "User Profile")
}

type profileUpdateRequest struct {
	Name string `form:"name" json:"name" binding:"required,min=2"`
}

// UpdateProfile changes the caller's name and optionally replaces the avatar
// (multipart field "profile_image"), then refreshes the cache.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		logging.Logger.Errorf("Profile update error: %v", err)
		respondInternal(c)
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	user.Name = req.Name
	if file, err := c.FormFile("profile_image"); err == nil {
		dest := filepath.Join(h.uploadDir, user.ID.String()+filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, dest); err != nil {
			logging.Logger.Errorf("Avatar upload error: %v", err)
		} else {
			user.AvatarPath = dest
		}
	}

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		logging.Logger.Errorf("Profile update error: %v", err)
		respondInternal(c)
		return
	}

	resp := toUserResponse(user)
	profileCache.put(userID, resp)
	respondSuccess(c, http.StatusOK, resp, "User Profile Updated")
}

// UserDirectoryResponse is one row of the admin user listing.
type UserDirectoryResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Role    string  `json:"role"`
	GroupID *string `json:"group_id"`
}

// Index lists every user with their group membership. Admin only.
func (h *UserHandler) Index(c *gin.Context) {
	entries, err := h.userRepo.List(c.Request.Context())
	if err != nil {
		logging.Logger.Errorf("User list error: %v", err)
		respondInternal(c)
		return
	}

	users := make([]UserDirectoryResponse, len(entries))
	for i, e := range entries {
		users[i] = UserDirectoryResponse{
			ID:    e.ID.String(),
			Name:  e.Name,
			Email: e.Email,
			Role:  e.Role,
		}
		if e.GroupID != nil {
			groupID := e.GroupID.String()
			users[i].GroupID = &groupID
		}
	}

	respondSuccess(c, http.StatusOK, users, "All Users")
}
