// Package catalog contiene los casos de uso del catálogo de software:
// listado, ficha, alta, edición y reseñas.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// CatalogUseCase casos de uso del catálogo.
type CatalogUseCase struct {
	loader    *usecase.CatalogLoader
	software  repository.SoftwareRepository
	contracts repository.ContractRepository
	reviews   repository.ReviewRepository
	tx        repository.TxRunner
	log       zerolog.Logger
	now       func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	loader *usecase.CatalogLoader,
	software repository.SoftwareRepository,
	contracts repository.ContractRepository,
	reviews repository.ReviewRepository,
	tx repository.TxRunner,
	log zerolog.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		loader: loader, software: software, contracts: contracts, reviews: reviews,
		tx: tx, log: log, now: time.Now,
	}
}

// List catálogo ordenado por nombre, filtrado por texto y categoría.
func (uc *CatalogUseCase) List(ctx context.Context, companyID, term, category string) *dto.CatalogResponse {
	data, err := uc.loader.Load(ctx, companyID, repository.OrderByName, usecase.ListLimit)
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Msg("catálogo: error cargando datos")
		return &dto.CatalogResponse{
			ViewMeta:   dto.ViewMeta{Degraded: true},
			Software:   []dto.SoftwareResponse{},
			Categories: []string{aggregation.AllCategories},
		}
	}
	views := data.Views()
	filtered := aggregation.FilterCatalog(views, term, category)
	return &dto.CatalogResponse{
		Software:   dto.ToSoftwareList(filtered),
		Categories: aggregation.Categories(views),
		Total:      len(filtered),
	}
}

// Details ficha de un software: vista unida, reseñas y días hasta el vencimiento.
// ErrNotFound si no existe o pertenece a otra empresa.
func (uc *CatalogUseCase) Details(ctx context.Context, actor usecase.Actor, softwareID string) (*dto.SoftwareDetailsResponse, error) {
	sw, err := uc.software.GetByID(ctx, softwareID)
	if err != nil {
		uc.log.Error().Err(err).Str("software_id", softwareID).Msg("catálogo: error cargando software")
		return &dto.SoftwareDetailsResponse{ViewMeta: dto.ViewMeta{Degraded: true}, Reviews: []dto.ReviewResponse{}}, nil
	}
	if sw == nil || sw.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}

	contracts, err := uc.contracts.ListBySoftware(ctx, softwareID)
	if err == nil {
		var reviews []*entity.Review
		reviews, err = uc.reviews.ListBySoftware(ctx, softwareID)
		if err == nil {
			return uc.details(sw, contracts, reviews, actor.UserID), nil
		}
	}
	uc.log.Error().Err(err).Str("software_id", softwareID).Msg("catálogo: error cargando ficha")
	view := dto.ToSoftwareResponse(aggregation.SoftwareView{Software: sw})
	return &dto.SoftwareDetailsResponse{
		ViewMeta: dto.ViewMeta{Degraded: true},
		Software: &view,
		Reviews:  []dto.ReviewResponse{},
	}, nil
}

func (uc *CatalogUseCase) details(sw *entity.Software, contracts []*entity.Contract, reviews []*entity.Review, userID string) *dto.SoftwareDetailsResponse {
	views := aggregation.JoinSoftware([]*entity.Software{sw}, contracts, reviews, nil)
	view := dto.ToSoftwareResponse(views[0])
	out := &dto.SoftwareDetailsResponse{Software: &view, Reviews: make([]dto.ReviewResponse, 0, len(reviews))}
	for _, r := range reviews {
		rr := dto.ToReviewResponse(r)
		out.Reviews = append(out.Reviews, rr)
		if r.UserID == userID {
			out.UserReview = &rr
		}
	}
	if c := views[0].Contract; c != nil && c.EndDate != nil {
		days := aggregation.DaysUntil(*c.EndDate, uc.now())
		out.DaysUntilExpiry = &days
		// Un contrato ya vencido sigue marcado como próximo a vencer; Expired lo distingue.
		out.ExpiringSoon = days <= aggregation.ExpiringSoonDays
		out.Expired = days < 0
	}
	return out
}

// CreateSoftware alta de software con contrato opcional y el uso activo del creador,
// todo en una transacción.
func (uc *CatalogUseCase) CreateSoftware(ctx context.Context, actor usecase.Actor, form dto.SoftwareForm) (*dto.SoftwareResponse, error) {
	if !actor.HasCompany() {
		return nil, domain.ErrOnboardingRequired
	}
	name, category := strings.TrimSpace(form.Name), strings.TrimSpace(form.Category)
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: name y category son requeridos", domain.ErrInvalidInput)
	}
	now := uc.now()
	sw := &entity.Software{
		ID:           uuid.New().String(),
		Name:         name,
		Version:      strings.TrimSpace(form.Version),
		Category:     category,
		Description:  strings.TrimSpace(form.Description),
		Status:       entity.SoftwareActive,
		CompanyID:    actor.CompanyID,
		DepartmentID: form.DepartmentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var contract *entity.Contract
	if terms, ok := parseContractTerms(form); ok {
		contract = &entity.Contract{ID: uuid.New().String(), SoftwareID: sw.ID, StartDate: now, CreatedAt: now}
		terms.apply(contract)
	}
	usage := &entity.Usage{
		ID: uuid.New().String(), UserID: actor.UserID, SoftwareID: sw.ID,
		Status: entity.UsageActive, LastUsed: &now, CreatedAt: now,
	}

	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Software.Create(ctx, sw); err != nil {
			return err
		}
		if contract != nil {
			if err := repos.Contracts.Create(ctx, contract); err != nil {
				return err
			}
		}
		return repos.Usage.Create(ctx, usage)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", actor.CompanyID).Str("name", name).Msg("catálogo: alta de software revertida")
		return nil, err
	}

	var contracts []*entity.Contract
	if contract != nil {
		contracts = append(contracts, contract)
	}
	views := aggregation.JoinSoftware([]*entity.Software{sw}, contracts, nil, []*entity.Usage{usage})
	out := dto.ToSoftwareResponse(views[0])
	return &out, nil
}

// UpdateSoftware edita el software y su primer contrato; crea uno si llegan costes y no existía.
func (uc *CatalogUseCase) UpdateSoftware(ctx context.Context, actor usecase.Actor, softwareID string, in dto.UpdateSoftwareRequest) (*dto.SoftwareResponse, error) {
	sw, err := uc.software.GetByID(ctx, softwareID)
	if err != nil {
		return nil, err
	}
	if sw == nil || sw.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	name, category := strings.TrimSpace(in.Name), strings.TrimSpace(in.Category)
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: name y category son requeridos", domain.ErrInvalidInput)
	}
	if in.Status != "" && !entity.ValidSoftwareStatus(in.Status) {
		return nil, fmt.Errorf("%w: status desconocido", domain.ErrInvalidInput)
	}

	now := uc.now()
	sw.Name, sw.Category = name, category
	sw.Version = strings.TrimSpace(in.Version)
	sw.Description = strings.TrimSpace(in.Description)
	if in.Status != "" {
		sw.Status = in.Status
	}
	sw.UpdatedAt = now
	terms, hasTerms := parseContractTerms(in.SoftwareForm)

	var contracts []*entity.Contract
	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Software.Update(ctx, sw); err != nil {
			return err
		}
		existing, err := repos.Contracts.ListBySoftware(ctx, sw.ID)
		if err != nil {
			return err
		}
		contracts = existing
		if !hasTerms {
			return nil
		}
		if len(existing) > 0 {
			terms.apply(existing[0])
			return repos.Contracts.Update(ctx, existing[0])
		}
		c := &entity.Contract{ID: uuid.New().String(), SoftwareID: sw.ID, StartDate: now, CreatedAt: now}
		terms.apply(c)
		contracts = []*entity.Contract{c}
		return repos.Contracts.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	reviews, err := uc.reviews.ListBySoftware(ctx, sw.ID)
	if err != nil {
		uc.log.Warn().Err(err).Str("software_id", sw.ID).Msg("catálogo: reseñas no disponibles tras editar")
	}
	views := aggregation.JoinSoftware([]*entity.Software{sw}, contracts, reviews, nil)
	out := dto.ToSoftwareResponse(views[0])
	return &out, nil
}

// SaveReview crea o reemplaza la reseña del usuario sobre el software.
func (uc *CatalogUseCase) SaveReview(ctx context.Context, actor usecase.Actor, softwareID string, in dto.ReviewRequest) (*dto.ReviewResponse, error) {
	if !entity.ValidRating(in.Rating) {
		return nil, fmt.Errorf("%w: rating debe estar entre %d y %d", domain.ErrInvalidInput, entity.MinRating, entity.MaxRating)
	}
	sw, err := uc.software.GetByID(ctx, softwareID)
	if err != nil {
		return nil, err
	}
	if sw == nil || sw.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	comment := strings.TrimSpace(in.Comment)
	existing, err := uc.reviews.GetByUserAndSoftware(ctx, actor.UserID, softwareID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Rating = in.Rating
		existing.Comment = comment
		existing.UpdatedAt = now
		if err := uc.reviews.Update(ctx, existing); err != nil {
			return nil, err
		}
		out := dto.ToReviewResponse(existing)
		return &out, nil
	}

	review := &entity.Review{
		ID: uuid.New().String(), UserID: actor.UserID, SoftwareID: softwareID,
		Rating: in.Rating, Comment: comment, CreatedAt: now, UpdatedAt: now,
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	out := dto.ToReviewResponse(review)
	return &out, nil
}
