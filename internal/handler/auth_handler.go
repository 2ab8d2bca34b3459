package handler

import (
	"fmt"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskmanager/internal/auth"
	"taskmanager/internal/logging"
	"taskmanager/internal/mailer"
	"taskmanager/internal/model"
	"taskmanager/internal/repository"
)

const otpTTL = 10 * time.Minute

type AuthHandler struct {
	userRepo  repository.UserRepositoryInterface
	otpRepo   repository.OTPRepositoryInterface
	mailer    mailer.MailerInterface
	uploadDir string
}

func NewAuthHandler(
	userRepo repository.UserRepositoryInterface,
	otpRepo repository.OTPRepositoryInterface,
	m mailer.MailerInterface,
	uploadDir string,
) *AuthHandler {
	return &AuthHandler{
		userRepo:  userRepo,
		otpRepo:   otpRepo,
		mailer:    m,
		uploadDir: uploadDir,
	}
}

type RegisterRequest struct {
	Name     string `form:"name" json:"name" binding:"required,min=2"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	Role     string `form:"role" json:"role" binding:"omitempty,oneof=admin member"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"`
	AvatarPath *string `json:"avatar_path,omitempty"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(user *model.User) UserResponse {
	resp := UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	if user.AvatarPath != "" {
		resp.AvatarPath = &user.AvatarPath
	}
	return resp
}

// Register creates a new account. Role defaults to member; an avatar may be
// sent as the multipart file field "profile_image".
// @Summary  Register a new user
// @Tags     Auth
// @Accept   mpfd
// @Produce  json
// @Success  201 {object} AuthResponse
// @Router   /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	req.Email = strings.ToLower(req.Email)
	if req.Role == "" {
		req.Role = model.RoleMember
	}

	existing, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		logging.Logger.Errorf("Registration error: %v", err)
		respondInternal(c)
		return
	}
	if existing != nil {
		respondError(c, http.StatusConflict, "User with this email already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.Logger.Errorf("Registration error: %v", err)
		respondInternal(c)
		return
	}

	user := &model.User{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: string(hash),
		Role:           req.Role,
	}

	if avatarPath, ok := h.saveAvatar(c, user.ID); ok {
		user.AvatarPath = avatarPath
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		logging.Logger.Errorf("Registration error: %v", err)
		respondInternal(c)
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		logging.Logger.Errorf("Registration token error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusCreated, AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, "Registration successful")
}

// Login checks credentials and issues a JWT carrying the user's role.
// @Summary  Log in
// @Tags     Auth
// @Produce  json
// @Success  200 {object} AuthResponse
// @Router   /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if err != nil {
		logging.Logger.Errorf("Login error: %v", err)
		respondInternal(c)
		return
	}
	if user == nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), user.Role)
	if err != nil {
		logging.Logger.Errorf("Login token error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, AuthResponse{
		User:  toUserResponse(user),
		Token: token,
	}, "Login successful")
}

// Logout drops the caller's cached profile. Tokens are stateless; the client
// discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if ok {
		profileCache.invalidate(userID)
	}
	respondSuccess(c, http.StatusOK, nil, "Logout successful")
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// ForgotPassword stores a fresh 6-digit reset code and mails it out.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := strings.ToLower(req.Email)
	otp := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	if err := h.otpRepo.Upsert(c.Request.Context(), email, otp, time.Now().Add(otpTTL)); err != nil {
		logging.Logger.Errorf("Forgot password OTP store error: %v", err)
		respondInternal(c)
		return
	}

	body := fmt.Sprintf("Your password reset OTP is: %s. OTP expires in 10 minutes.", otp)
	if err := h.mailer.Send(email, "Password Reset OTP", body); err != nil {
		logging.Logger.Errorf("Forgot password OTP send error: %v", err)
		respondInternal(c)
		return
	}

	respondSuccess(c, http.StatusOK, nil, "Password reset OTP sent to your email.")
}

// VerifyOTP confirms a reset code without consuming it.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if !h.checkOTP(c, strings.ToLower(req.Email), req.OTP) {
		return
	}

	respondSuccess(c, http.StatusOK, nil, "OTP Verified.")
}

// ResetPassword consumes a valid reset code and rehashes the password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := strings.ToLower(req.Email)
	if !h.checkOTP(c, email, req.OTP) {
		return
	}

	user, err := h.userRepo.FindByEmail(c.Request.Context(), email)
	if err != nil {
		logging.Logger.Errorf("Reset password error: %v", err)
		respondInternal(c)
		return
	}
	if user == nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.Logger.Errorf("Reset password error: %v", err)
		respondInternal(c)
		return
	}
	user.HashedPassword = string(hash)

	if err := h.userRepo.Update(c.Request.Context(), user); err != nil {
		logging.Logger.Errorf("Reset password error: %v", err)
		respondInternal(c)
		return
	}

	if err := h.otpRepo.DeleteByEmail(c.Request.Context(), email); err != nil {
		logging.Logger.Errorf("Reset password OTP cleanup error: %v", err)
	}

	respondSuccess(c, http.StatusOK, nil, "Password has been reset successfully.")
}

// checkOTP validates an email/otp pair and writes the error response itself
// when the pair is rejected.
func (h *AuthHandler) checkOTP(c *gin.Context, email, otp string) bool {
	record, err := h.otpRepo.Find(c.Request.Context(), email, otp)
	if err == repository.ErrOTPNotFound {
		respondError(c, http.StatusUnprocessableEntity, "Invalid OTP")
		return false
	}
	if err != nil {
		logging.Logger.Errorf("OTP lookup error: %v", err)
		respondInternal(c)
		return false
	}
	if time.Now().After(record.ExpiresAt) {
		respondError(c, http.StatusUnprocessableEntity, "OTP has expired")
		return false
	}
	return true
}

// saveAvatar stores an optional "profile_image" upload and returns its path.
func (h *AuthHandler) saveAvatar(c *gin.Context, userID uuid.UUID) (string, bool) {
	file, err := c.FormFile("profile_image")
	if err != nil {
		return "", false
	}

	dest := filepath.Join(h.uploadDir, userID.String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dest); err != nil {
		logging.Logger.Errorf("Avatar upload error: %v", err)
		return "", false
	}
	return dest, true
}
