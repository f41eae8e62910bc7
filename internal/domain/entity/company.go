package entity

import "time"

// Company representa una organización/tenant del sistema.
// El ID se genera durante el onboarding y no cambia.
type Company struct {
	ID          string
	Name        string
	Domain      string // dominio de correo corporativo, opcional
	MultiEntity bool
	CreatedAt   time.Time
}

// DefaultDepartmentName nombre del departamento creado con cada empresa.
const DefaultDepartmentName = "Général"

// Department área interna de una empresa.
type Department struct {
	ID        string
	Name      string
	CompanyID string
	CreatedAt time.Time
}
