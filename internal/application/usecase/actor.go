package usecase

import "github.com/jhoicas/logicielhub-api/internal/domain/entity"

// Límites de los listados (sin paginación: cada vista relee la lista completa).
const (
	ListLimit              = 500
	DashboardSoftwareLimit = 100
	DashboardRequestLimit  = 5
)

// Actor usuario autenticado que ejecuta un caso de uso (datos del JWT).
type Actor struct {
	UserID    string
	CompanyID string
	Role      string
}

// IsAdmin única verificación de rol.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// HasCompany indica si el token ya lleva empresa (onboarding hecho).
func (a Actor) HasCompany() bool { return a.CompanyID != "" }
