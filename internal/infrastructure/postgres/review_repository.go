package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

const reviewColumns = `r.id, r.user_id, r.software_id, r.rating, COALESCE(r.comment, ''), r.created_at, r.updated_at`

// ReviewRepo implementación del puerto ReviewRepository sobre PostgreSQL.
type ReviewRepo struct {
	db DBTX
}

// NewReviewRepository construye el adaptador de persistencia para reseñas.
func NewReviewRepository(db DBTX) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func scanReview(s rowScanner) (*entity.Review, error) {
	var rv entity.Review
	if err := s.Scan(&rv.ID, &rv.UserID, &rv.SoftwareID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

// Create persiste una reseña. Ya existe una del mismo usuario para el software → domain.ErrDuplicate.
func (r *ReviewRepo) Create(ctx context.Context, rv *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, software_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`
	_, err := r.db.Exec(ctx, query, rv.ID, rv.UserID, rv.SoftwareID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicate
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// Update reemplaza nota y comentario.
func (r *ReviewRepo) Update(ctx context.Context, rv *entity.Review) error {
	query := `UPDATE reviews SET rating = $2, comment = NULLIF($3, ''), updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, rv.ID, rv.Rating, rv.Comment, rv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByUserAndSoftware reseña del usuario para el software; (nil, nil) si no existe.
func (r *ReviewRepo) GetByUserAndSoftware(ctx context.Context, userID, softwareID string) (*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.user_id = $1 AND r.software_id = $2`
	rv, err := scanReview(r.db.QueryRow(ctx, query, userID, softwareID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

// ListBySoftware reseñas de un software, la más reciente primero.
func (r *ReviewRepo) ListBySoftware(ctx context.Context, softwareID string) ([]*entity.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews r WHERE r.software_id = $1 ORDER BY r.created_at DESC`
	rows, err := r.db.Query(ctx, query, softwareID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by software: %w", err)
	}
	return collect(rows, scanReview)
}

// ListByCompany reseñas sobre el catálogo de la empresa.
func (r *ReviewRepo) ListByCompany(ctx context.Context, companyID string, limit int) ([]*entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		JOIN software s ON s.id = r.software_id
		WHERE s.company_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2`
	rows, err := r.db.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews by company: %w", err)
	}
	return collect(rows, scanReview)
}
