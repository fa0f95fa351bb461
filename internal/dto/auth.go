package dto

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response carrying the signed token
type LoginResponse struct {
	Token string `json:"token"`
}
