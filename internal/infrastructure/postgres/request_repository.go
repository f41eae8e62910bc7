package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var (
	_ repository.SoftwareRequestRepository = (*SoftwareRequestRepo)(nil)
	_ repository.VoteRepository            = (*VoteRepo)(nil)
)

const requestColumns = `id, software_name, COALESCE(description, ''), urgency, estimated_budget, status,
	requester_id, COALESCE(department_id, ''), company_id, vote_count, created_at, updated_at`

// SoftwareRequestRepo implementación del puerto SoftwareRequestRepository sobre PostgreSQL.
type SoftwareRequestRepo struct {
	db DBTX
}

// NewSoftwareRequestRepository construye el adaptador de persistencia para solicitudes.
func NewSoftwareRequestRepository(db DBTX) *SoftwareRequestRepo {
	return &SoftwareRequestRepo{db: db}
}

func scanRequest(s rowScanner) (*entity.SoftwareRequest, error) {
	var req entity.SoftwareRequest
	err := s.Scan(&req.ID, &req.SoftwareName, &req.Description, &req.Urgency, &req.EstimatedBudget, &req.Status,
		&req.RequesterID, &req.DepartmentID, &req.CompanyID, &req.VoteCount, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create persiste una solicitud.
func (r *SoftwareRequestRepo) Create(ctx context.Context, req *entity.SoftwareRequest) error {
	query := `
		INSERT INTO software_requests (id, software_name, description, urgency, estimated_budget, status,
		                               requester_id, department_id, company_id, vote_count, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.SoftwareName, req.Description, req.Urgency, req.EstimatedBudget, req.Status,
		req.RequesterID, req.DepartmentID, req.CompanyID, req.VoteCount, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert software request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud; (nil, nil) si no existe.
func (r *SoftwareRequestRepo) GetByID(ctx context.Context, id string) (*entity.SoftwareRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM software_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get software request: %w", err)
	}
	return req, nil
}

// UpdateStatus cambia el estado de la solicitud.
func (r *SoftwareRequestRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE software_requests SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetVoteCount persiste el contador derivado de votos.
func (r *SoftwareRequestRepo) SetVoteCount(ctx context.Context, id string, count int) error {
	query := `UPDATE software_requests SET vote_count = $2 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, count)
	if err != nil {
		return fmt.Errorf("update vote count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany solicitudes de la empresa, la más reciente primero.
func (r *SoftwareRequestRepo) ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.SoftwareRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM software_requests WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list software requests: %w", err)
	}
	return collect(rows, scanRequest)
}

// VoteRepo implementación del puerto VoteRepository sobre PostgreSQL.
type VoteRepo struct {
	db DBTX
}

// NewVoteRepository construye el adaptador de persistencia para votos.
func NewVoteRepository(db DBTX) *VoteRepo {
	return &VoteRepo{db: db}
}

func scanVote(s rowScanner) (*entity.Vote, error) {
	var v entity.Vote
	if err := s.Scan(&v.ID, &v.RequestID, &v.VoterID, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserta el voto salvo que exista ya uno del mismo votante (UNIQUE request_id, voter_id).
func (r *VoteRepo) Create(ctx context.Context, v *entity.Vote) (bool, error) {
	query := `
		INSERT INTO votes (id, request_id, voter_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (request_id, voter_id) DO NOTHING`
	tag, err := r.db.Exec(ctx, query, v.ID, v.RequestID, v.VoterID, v.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert vote: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete elimina un voto; borrar uno inexistente no es error.
func (r *VoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM votes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

// ListByRequest votos de una solicitud.
func (r *VoteRepo) ListByRequest(ctx context.Context, requestID string) ([]*entity.Vote, error) {
	query := `SELECT id, request_id, voter_id, created_at FROM votes WHERE request_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list votes by request: %w", err)
	}
	return collect(rows, scanVote)
}

// ListByCompany votos sobre solicitudes de la empresa.
func (r *VoteRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Vote, error) {
	query := `
		SELECT v.id, v.request_id, v.voter_id, v.created_at
		FROM votes v
		JOIN software_requests sr ON sr.id = v.request_id
		WHERE sr.company_id = $1
		ORDER BY v.created_at ASC`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list votes by company: %w", err)
	}
	return collect(rows, scanVote)
}
