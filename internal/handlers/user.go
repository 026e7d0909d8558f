package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"comall/internal/models"
	"comall/internal/repositories"
)

// UserHandler serves the user directory listing.
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers returns every user in the canonical public projection.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
