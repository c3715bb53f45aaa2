package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yusimeilanyy/intern-project/middleware"
	"github.com/yusimeilanyy/intern-project/model"
	"github.com/yusimeilanyy/intern-project/pkg/logger"
	"github.com/yusimeilanyy/intern-project/service"
)

// UserHandler exposes admin-only account management.
type UserHandler struct {
	users service.UserStore
}

func NewUserHandler(users service.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all accounts.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	TeamID   int64  `json:"team_id"`
}

// Register creates a new account.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	role := req.Role
	switch role {
	case "":
		role = model.RoleUser
	case model.RoleAdmin, model.RoleManager, model.RoleUser:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		TeamID:       req.TeamID,
		IsActive:     true,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
		return
	}

	logger.Info(c.Request.Context(), "user registered", "user_id", user.ID, "role", user.Role)
	c.JSON(http.StatusCreated, user)
}

// Delete removes an account. Deleting your own account is refused.
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == middleware.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	logger.Info(c.Request.Context(), "user deleted", "user_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
