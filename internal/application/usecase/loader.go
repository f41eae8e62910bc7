package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// CatalogData listas crudas del catálogo de una empresa.
type CatalogData struct {
	Software  []*entity.Software
	Contracts []*entity.Contract
	Reviews   []*entity.Review
	Usage     []*entity.Usage
}

// Views une las listas en vistas por software.
func (d CatalogData) Views() []aggregation.SoftwareView {
	return aggregation.JoinSoftware(d.Software, d.Contracts, d.Reviews, d.Usage)
}

// CatalogLoader lee en paralelo las cuatro listas que necesita cualquier vista del catálogo.
type CatalogLoader struct {
	software  repository.SoftwareRepository
	contracts repository.ContractRepository
	reviews   repository.ReviewRepository
	usage     repository.UsageRepository
}

// NewCatalogLoader construye el loader.
func NewCatalogLoader(
	software repository.SoftwareRepository,
	contracts repository.ContractRepository,
	reviews repository.ReviewRepository,
	usage repository.UsageRepository,
) *CatalogLoader {
	return &CatalogLoader{software: software, contracts: contracts, reviews: reviews, usage: usage}
}

// Load lanza las cuatro lecturas en goroutines y devuelve el primer error encontrado.
// orderBy y softwareLimit aplican solo a la lista de software.
func (l *CatalogLoader) Load(ctx context.Context, companyID, orderBy string, softwareLimit int) (CatalogData, error) {
	type result[T any] struct {
		items []*T
		err   error
	}
	swCh := make(chan result[entity.Software], 1)
	ctCh := make(chan result[entity.Contract], 1)
	rvCh := make(chan result[entity.Review], 1)
	usCh := make(chan result[entity.Usage], 1)

	go func() {
		items, err := l.software.ListByCompany(ctx, companyID, orderBy, softwareLimit)
		swCh <- result[entity.Software]{items, err}
	}()
	go func() {
		items, err := l.contracts.ListByCompany(ctx, companyID, ListLimit)
		ctCh <- result[entity.Contract]{items, err}
	}()
	go func() {
		items, err := l.reviews.ListByCompany(ctx, companyID, ListLimit)
		rvCh <- result[entity.Review]{items, err}
	}()
	go func() {
		items, err := l.usage.ListByCompany(ctx, companyID, ListLimit)
		usCh <- result[entity.Usage]{items, err}
	}()

	sw, ct, rv, us := <-swCh, <-ctCh, <-rvCh, <-usCh
	switch {
	case sw.err != nil:
		return CatalogData{}, fmt.Errorf("cargar software: %w", sw.err)
	case ct.err != nil:
		return CatalogData{}, fmt.Errorf("cargar contratos: %w", ct.err)
	case rv.err != nil:
		return CatalogData{}, fmt.Errorf("cargar reseñas: %w", rv.err)
	case us.err != nil:
		return CatalogData{}, fmt.Errorf("cargar usos: %w", us.err)
	}
	return CatalogData{Software: sw.items, Contracts: ct.items, Reviews: rv.items, Usage: us.items}, nil
}
