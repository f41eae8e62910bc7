package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

const contractColumns = `c.id, c.software_id, c.cost_amount, c.currency, c.billing_period, c.license_count,
	c.start_date, c.end_date, c.notice_days, c.created_at`

// ContractRepo implementación del puerto ContractRepository sobre PostgreSQL.
type ContractRepo struct {
	db DBTX
}

// NewContractRepository construye el adaptador de persistencia para contratos.
func NewContractRepository(db DBTX) *ContractRepo {
	return &ContractRepo{db: db}
}

func scanContract(s rowScanner) (*entity.Contract, error) {
	var c entity.Contract
	err := s.Scan(&c.ID, &c.SoftwareID, &c.CostAmount, &c.Currency, &c.BillingPeriod, &c.LicenseCount,
		&c.StartDate, &c.EndDate, &c.NoticeDays, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un contrato.
func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	query := `
		INSERT INTO contracts (id, software_id, cost_amount, currency, billing_period, license_count,
		                       start_date, end_date, notice_days, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		c.ID, c.SoftwareID, c.CostAmount, c.Currency, c.BillingPeriod, c.LicenseCount,
		c.StartDate, c.EndDate, c.NoticeDays, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

// Update actualiza los datos económicos del contrato.
func (r *ContractRepo) Update(ctx context.Context, c *entity.Contract) error {
	query := `
		UPDATE contracts
		SET cost_amount = $2, currency = $3, billing_period = $4, license_count = $5,
		    start_date = $6, end_date = $7, notice_days = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		c.ID, c.CostAmount, c.Currency, c.BillingPeriod, c.LicenseCount, c.StartDate, c.EndDate, c.NoticeDays,
	)
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListBySoftware contratos de un software, el más antiguo primero.
func (r *ContractRepo) ListBySoftware(ctx context.Context, softwareID string) ([]*entity.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts c WHERE c.software_id = $1 ORDER BY c.created_at ASC`
	rows, err := r.db.Query(ctx, query, softwareID)
	if err != nil {
		return nil, fmt.Errorf("list contracts by software: %w", err)
	}
	return collect(rows, scanContract)
}

// ListByCompany contratos de todo el catálogo de la empresa, el más antiguo primero.
func (r *ContractRepo) ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.Contract, error) {
	query := `
		SELECT ` + contractColumns + `
		FROM contracts c
		JOIN software s ON s.id = c.software_id
		WHERE s.company_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list contracts by company: %w", err)
	}
	return collect(rows, scanContract)
}
