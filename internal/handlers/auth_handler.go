package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lotterysystem/lottery-backend/internal/models"
	"github.com/lotterysystem/lottery-backend/internal/services"
)

// AuthHandler handles registration and login HTTP requests
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var request models.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, err)
		return
	}

	account, token, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"token":   token,
		"balance": account.Balance,
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var request models.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, err)
		return
	}

	account, token, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"balance": account.Balance,
	})
}

// AdminLogin handles POST /admin-login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var request models.AdminLoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, err)
		return
	}

	token, err := h.authService.AdminLogin(c.Request.Context(), &request)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Admin login successful",
		"token":   token,
	})
}

// GetAllUsers handles GET /users (admin)
func (h *AuthHandler) GetAllUsers(c *gin.Context) {
	accounts, err := h.authService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	users := make([]gin.H, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, gin.H{
			"username":    account.Username,
			"balance":     account.Balance,
			"ticketCount": len(account.TicketIDs),
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}
