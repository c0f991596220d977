package dto

import "time"

// UserRegisterRequest payload. UserType may elevate to admin/agent.
type UserRegisterRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType,omitempty"`
}

// UserLoginRequest payload.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUpdateUserRequest payload; only these fields are updatable.
type AdminUpdateUserRequest struct {
	UserName *string `json:"userName,omitempty"`
	UserType *string `json:"userType,omitempty"`
}

// AuthResponse carries the issued token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
