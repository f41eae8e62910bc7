package dto

import "time"

// RegisterRequest entrada para registro: la cuenta nace sin empresa (onboarding pendiente).
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=200"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	CompanyID    string    `json:"company_id,omitempty"`
	DepartmentID string    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginResponse token JWT + usuario + estado de sesión resultante.
type LoginResponse struct {
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
	Session string       `json:"session"`
}
