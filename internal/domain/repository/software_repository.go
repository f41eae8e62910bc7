package repository

import (
	"context"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// Orden de listados de software.
const (
	OrderByName          = "name"
	OrderByCreatedAtDesc = "created_at_desc"
)

// SoftwareRepository puerto de persistencia para Software.
type SoftwareRepository interface {
	Create(ctx context.Context, software *entity.Software) error
	GetByID(ctx context.Context, id string) (*entity.Software, error)
	Update(ctx context.Context, software *entity.Software) error
	ListByCompany(ctx context.Context, companyID, orderBy string, limit int) ([]*entity.Software, error)
}

// ContractRepository puerto de persistencia para Contract.
// Los listados van ordenados por created_at ascendente: el "primer contrato" de un
// software es el más antiguo.
type ContractRepository interface {
	Create(ctx context.Context, contract *entity.Contract) error
	Update(ctx context.Context, contract *entity.Contract) error
	ListBySoftware(ctx context.Context, softwareID string) ([]*entity.Contract, error)
	ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.Contract, error)
}

// ReviewRepository puerto de persistencia para Review.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	Update(ctx context.Context, review *entity.Review) error
	GetByUserAndSoftware(ctx context.Context, userID, softwareID string) (*entity.Review, error)
	ListBySoftware(ctx context.Context, softwareID string) ([]*entity.Review, error)
	ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.Review, error)
}

// UsageRepository puerto de persistencia para Usage.
type UsageRepository interface {
	Create(ctx context.Context, usage *entity.Usage) error
	ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.Usage, error)
}
