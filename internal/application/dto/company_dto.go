package dto

import "time"

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Domain      string    `json:"domain,omitempty"`
	MultiEntity bool      `json:"multi_entity"`
	CreatedAt   time.Time `json:"created_at"`
}

// DepartmentResponse salida de un departamento.
type DepartmentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CompanyID string    `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OnboardingCompanyRequest paso "empresa".
type OnboardingCompanyRequest struct {
	Name   string `json:"name" validate:"required,max=200"`
	Domain string `json:"domain" validate:"omitempty,fqdn"`
}

// OnboardingCompanyResponse nuevo token (con company_id) + entidades creadas.
type OnboardingCompanyResponse struct {
	Token      string             `json:"token"`
	Company    CompanyResponse    `json:"company"`
	Department DepartmentResponse `json:"department"`
	User       UserResponse       `json:"user"`
}

// OnboardingSoftwareRequest paso "primer software".
type OnboardingSoftwareRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Category string `json:"category" validate:"required,max=100"`
}

// OnboardingInviteRequest paso "invitaciones": emails separados por coma, espacio o salto de línea.
type OnboardingInviteRequest struct {
	Emails string `json:"emails"`
}

// OnboardingInviteResponse resultado del último paso.
type OnboardingInviteResponse struct {
	Invited []string `json:"invited"`
	Invalid []string `json:"invalid"`
	Session string   `json:"session"`
}

// CreateDepartmentRequest alta de departamento (admin).
type CreateDepartmentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// SettingsResponse vista de ajustes de la empresa.
type SettingsResponse struct {
	ViewMeta
	Company     *CompanyResponse     `json:"company"`
	Departments []DepartmentResponse `json:"departments"`
	Members     []UserResponse       `json:"members"`
}
