package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/altibbe/transparency-api/internal/service"
	"github.com/altibbe/transparency-api/internal/utils"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a new user and returns a signed token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Username (min 3) and password (min 8) are required")
		return
	}

	user, token, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrUsernameTaken) {
			utils.Error(c, 400, "USERNAME_TAKEN", "Username is already registered")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	utils.Success(c, 201, "User registered successfully", gin.H{
		"user":  gin.H{"id": user.ID, "username": user.Username},
		"token": token,
	})
}

// Login verifies credentials and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Username and password are required")
		return
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"user":  gin.H{"id": user.ID, "username": user.Username},
		"token": token,
	})
}
