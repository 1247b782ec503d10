package models

// RegisterRequest is the payload for POST /register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the payload for POST /login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginRequest is the payload for POST /admin-login.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}
