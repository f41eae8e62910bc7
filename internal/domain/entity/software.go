package entity

import "time"

// Estados de un software del catálogo.
const (
	SoftwareActive     = "active"
	SoftwareInactive   = "inactive"
	SoftwareDeprecated = "deprecated"
)

// SoftwareCategories categorías propuestas en el formulario de alta (el campo es libre).
var SoftwareCategories = []string{
	"CRM", "Comptabilité", "Marketing", "Communication", "Productivité",
	"Design", "Développement", "RH", "Sécurité", "Autre",
}

// Software herramienta utilizada por una empresa. Nombre y categoría son obligatorios.
type Software struct {
	ID           string
	Name         string
	Version      string
	Category     string
	Description  string
	Status       string
	CompanyID    string
	DepartmentID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidSoftwareStatus indica si s es un estado conocido.
func ValidSoftwareStatus(s string) bool {
	switch s {
	case SoftwareActive, SoftwareInactive, SoftwareDeprecated:
		return true
	}
	return false
}
