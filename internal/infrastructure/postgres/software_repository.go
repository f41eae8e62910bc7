package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var _ repository.SoftwareRepository = (*SoftwareRepo)(nil)

const softwareColumns = `id, name, COALESCE(version, ''), category, COALESCE(description, ''), status,
	company_id, COALESCE(department_id, ''), created_at, updated_at`

// SoftwareRepo implementación del puerto SoftwareRepository sobre PostgreSQL.
type SoftwareRepo struct {
	db DBTX
}

// NewSoftwareRepository construye el adaptador de persistencia para el catálogo.
func NewSoftwareRepository(db DBTX) *SoftwareRepo {
	return &SoftwareRepo{db: db}
}

func scanSoftware(s rowScanner) (*entity.Software, error) {
	var sw entity.Software
	err := s.Scan(&sw.ID, &sw.Name, &sw.Version, &sw.Category, &sw.Description, &sw.Status,
		&sw.CompanyID, &sw.DepartmentID, &sw.CreatedAt, &sw.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sw, nil
}

// Create persiste un software.
func (r *SoftwareRepo) Create(ctx context.Context, sw *entity.Software) error {
	query := `
		INSERT INTO software (id, name, version, category, description, status, company_id, department_id, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10)`
	_, err := r.db.Exec(ctx, query,
		sw.ID, sw.Name, sw.Version, sw.Category, sw.Description, sw.Status,
		sw.CompanyID, sw.DepartmentID, sw.CreatedAt, sw.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert software: %w", err)
	}
	return nil
}

// GetByID obtiene un software por ID; (nil, nil) si no existe.
func (r *SoftwareRepo) GetByID(ctx context.Context, id string) (*entity.Software, error) {
	query := `SELECT ` + softwareColumns + ` FROM software WHERE id = $1`
	sw, err := scanSoftware(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get software: %w", err)
	}
	return sw, nil
}

// Update actualiza los campos editables del software.
func (r *SoftwareRepo) Update(ctx context.Context, sw *entity.Software) error {
	query := `
		UPDATE software
		SET name = $2, version = NULLIF($3, ''), category = $4, description = NULLIF($5, ''),
		    status = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, sw.ID, sw.Name, sw.Version, sw.Category, sw.Description, sw.Status, sw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update software: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany catálogo de la empresa; orderBy: repository.OrderByName o OrderByCreatedAtDesc.
func (r *SoftwareRepo) ListByCompany(ctx context.Context, companyID, orderBy string, limit int) ([]*entity.Software, error) {
	order := "name ASC"
	if orderBy == repository.OrderByCreatedAtDesc {
		order = "created_at DESC"
	}
	query := `SELECT ` + softwareColumns + ` FROM software WHERE company_id = $1 ORDER BY ` + order + ` LIMIT $2`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list software: %w", err)
	}
	return collect(rows, scanSoftware)
}
