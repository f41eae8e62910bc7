package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// SettingsUseCase vista de ajustes: empresa, departamentos y miembros.
type SettingsUseCase struct {
	companies   repository.CompanyRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	log         zerolog.Logger
}

// NewSettingsUseCase construye el caso de uso con los puertos de persistencia.
func NewSettingsUseCase(
	companies repository.CompanyRepository,
	departments repository.DepartmentRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) *SettingsUseCase {
	return &SettingsUseCase{companies: companies, departments: departments, users: users, log: log}
}

// Get devuelve la vista de ajustes. Un fallo de lectura devuelve la vista vacía con Degraded.
func (uc *SettingsUseCase) Get(ctx context.Context, companyID string) *dto.SettingsResponse {
	out := &dto.SettingsResponse{Departments: []dto.DepartmentResponse{}, Members: []dto.UserResponse{}}
	degrade := func(err error) *dto.SettingsResponse {
		uc.log.Error().Err(err).Str("company_id", companyID).Msg("ajustes: error cargando datos")
		out.Degraded = true
		return out
	}

	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		return degrade(err)
	}
	if company == nil {
		return out
	}
	depts, err := uc.departments.ListByCompany(ctx, companyID)
	if err != nil {
		return degrade(err)
	}
	members, err := uc.users.ListByCompany(ctx, companyID, ListLimit)
	if err != nil {
		return degrade(err)
	}

	out.Company = dto.ToCompanyResponse(company)
	for _, d := range depts {
		out.Departments = append(out.Departments, dto.ToDepartmentResponse(d))
	}
	for _, m := range members {
		out.Members = append(out.Members, *dto.ToUserResponse(m))
	}
	return out
}

// CreateDepartment añade un departamento a la empresa del administrador.
func (uc *SettingsUseCase) CreateDepartment(ctx context.Context, actor Actor, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !actor.HasCompany() {
		return nil, domain.ErrOnboardingRequired
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	dept := &entity.Department{
		ID:        uuid.New().String(),
		Name:      name,
		CompanyID: actor.CompanyID,
		CreatedAt: time.Now(),
	}
	if err := uc.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	out := dto.ToDepartmentResponse(dept)
	return &out, nil
}
