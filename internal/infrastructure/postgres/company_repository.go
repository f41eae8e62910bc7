package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository    = (*CompanyRepo)(nil)
	_ repository.DepartmentRepository = (*DepartmentRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db DBTX
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db DBTX) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, domain, multi_entity, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5)`
	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.Domain, c.MultiEntity, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID; (nil, nil) si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `
		SELECT id, name, COALESCE(domain, ''), multi_entity, created_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Domain, &c.MultiEntity, &c.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List devuelve empresas con paginación (usado por las tareas programadas).
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `
		SELECT id, name, COALESCE(domain, ''), multi_entity, created_at
		FROM companies ORDER BY created_at ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return collect(rows, func(s rowScanner) (*entity.Company, error) {
		var c entity.Company
		if err := s.Scan(&c.ID, &c.Name, &c.Domain, &c.MultiEntity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		return &c, nil
	})
}

// DepartmentRepo implementación del puerto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	db DBTX
}

// NewDepartmentRepository construye el adaptador de persistencia para departamentos.
func NewDepartmentRepository(db DBTX) *DepartmentRepo {
	return &DepartmentRepo{db: db}
}

// Create persiste un departamento. Nombre duplicado en la empresa → domain.ErrDuplicate.
func (r *DepartmentRepo) Create(ctx context.Context, d *entity.Department) error {
	query := `
		INSERT INTO departments (id, name, company_id, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, d.ID, d.Name, d.CompanyID, d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicate
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// ListByCompany departamentos de una empresa ordenados por nombre.
func (r *DepartmentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Department, error) {
	query := `
		SELECT id, name, company_id, created_at
		FROM departments WHERE company_id = $1 ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return collect(rows, func(s rowScanner) (*entity.Department, error) {
		var d entity.Department
		if err := s.Scan(&d.ID, &d.Name, &d.CompanyID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		return &d, nil
	})
}
