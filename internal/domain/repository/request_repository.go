package repository

import (
	"context"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// SoftwareRequestRepository puerto de persistencia para SoftwareRequest.
// ListByCompany ordena por created_at descendente.
type SoftwareRequestRepository interface {
	Create(ctx context.Context, request *entity.SoftwareRequest) error
	GetByID(ctx context.Context, id string) (*entity.SoftwareRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetVoteCount(ctx context.Context, id string, count int) error
	ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.SoftwareRequest, error)
}

// VoteRepository puerto de persistencia para Vote.
// Create es idempotente por (request_id, voter_id): devuelve false si el voto ya existía.
type VoteRepository interface {
	Create(ctx context.Context, vote *entity.Vote) (bool, error)
	Delete(ctx context.Context, id string) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.Vote, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Vote, error)
}
