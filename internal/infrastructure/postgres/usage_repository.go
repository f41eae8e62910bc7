package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var _ repository.UsageRepository = (*UsageRepo)(nil)

// UsageRepo implementación del puerto UsageRepository sobre PostgreSQL.
type UsageRepo struct {
	db DBTX
}

// NewUsageRepository construye el adaptador de persistencia para usos.
func NewUsageRepository(db DBTX) *UsageRepo {
	return &UsageRepo{db: db}
}

// Create registra que un usuario utiliza un software.
func (r *UsageRepo) Create(ctx context.Context, u *entity.Usage) error {
	query := `
		INSERT INTO usage (id, user_id, software_id, status, last_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, u.ID, u.UserID, u.SoftwareID, u.Status, u.LastUsed, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert usage: %w", err)
	}
	return nil
}

// ListByCompany usos sobre el catálogo de la empresa.
func (r *UsageRepo) ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.Usage, error) {
	query := `
		SELECT u.id, u.user_id, u.software_id, u.status, u.last_used, u.created_at
		FROM usage u
		JOIN software s ON s.id = u.software_id
		WHERE s.company_id = $1
		ORDER BY u.created_at ASC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return collect(rows, func(s rowScanner) (*entity.Usage, error) {
		var u entity.Usage
		if err := s.Scan(&u.ID, &u.UserID, &u.SoftwareID, &u.Status, &u.LastUsed, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		return &u, nil
	})
}
