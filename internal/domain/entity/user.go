package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa un miembro. CompanyID y DepartmentID quedan vacíos hasta el onboarding.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	DisplayName  string
	Role         string // admin, user
	CompanyID    string
	DepartmentID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin única verificación de rol de la aplicación.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// HasCompany indica si el usuario ya completó el paso "empresa" del onboarding.
func (u *User) HasCompany() bool { return u != nil && u.CompanyID != "" }
