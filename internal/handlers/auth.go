package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"comall/internal/repositories"
	"comall/internal/telemetry"
)

// AuthHandler manages signup and login.
type AuthHandler struct {
	users repositories.UserRepository
	audit *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(users repositories.UserRepository, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{users: users, audit: audit}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// Signup registers a new user.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store user data"})
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Name, req.Username, req.Email, req.Mobile, string(hash))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store user data"})
		return
	}

	h.audit.Emit(c.Request.Context(), "user_signup", "user registered: "+user.Username, requestIDFromContext(c), &user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "user successfully registered",
		"userId":  user.ID,
	})
}

// Login verifies credentials against the directory.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both username/email and password are required"})
		return
	}

	user, err := h.users.GetByUsernameOrEmail(c.Request.Context(), req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login user"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.audit.Emit(c.Request.Context(), "user_login", "user logged in: "+user.Username, requestIDFromContext(c), &user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "login successful",
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}
