package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/ports"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// AnalyticsUseCase informe de costes: totales, reparto por categoría, top por coste
// y contratos que vencen en 90 días.
type AnalyticsUseCase struct {
	loader    *usecase.CatalogLoader
	companies repository.CompanyRepository
	renderer  ports.ReportRenderer
	log       zerolog.Logger
	now       func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewAnalyticsUseCase(
	loader *usecase.CatalogLoader,
	companies repository.CompanyRepository,
	renderer ports.ReportRenderer,
	log zerolog.Logger,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{loader: loader, companies: companies, renderer: renderer, log: log, now: time.Now}
}

// GetReport construye el informe de la empresa.
func (uc *AnalyticsUseCase) GetReport(ctx context.Context, companyID string) *dto.AnalyticsReportDTO {
	now := uc.now()
	data, err := uc.loader.Load(ctx, companyID, repository.OrderByName, usecase.ListLimit)
	if err != nil {
		uc.log.Error().Err(err).Str("company_id", companyID).Msg("analítica: error cargando datos")
		return emptyReport(true, now)
	}

	views := data.Views()
	yearly, monthly := aggregation.TotalCost(views)
	out := emptyReport(false, now)
	out.TotalCost = yearly
	out.YearlyCost = yearly
	out.MonthlyCost = monthly.Round(2)
	out.SoftwareCount = len(data.Software)
	out.ActiveUsers = aggregation.DistinctActiveUsers(data.Usage)

	for _, c := range aggregation.CostByCategory(views) {
		out.CostByCategory = append(out.CostByCategory, dto.CategoryCostDTO{Name: c.Name, Value: c.Value, Color: c.Color})
	}
	for _, c := range aggregation.TopByCost(views, aggregation.AnalyticsTopN) {
		out.CostBySoftware = append(out.CostBySoftware, dto.SoftwareCostDTO{SoftwareID: c.SoftwareID, Name: c.Name, Cost: c.Cost})
	}
	for _, e := range aggregation.ExpiringWithin(views, now, aggregation.AnalyticsExpiryWindow) {
		out.ExpiringContracts = append(out.ExpiringContracts, dto.ExpiringContractDTO{
			SoftwareID: e.SoftwareID, ContractID: e.ContractID, Name: e.Name,
			EndDate: e.EndDate, Cost: e.Cost, DaysLeft: e.DaysLeft,
		})
	}

	// El nombre solo decora la cabecera del PDF.
	company, err := uc.companies.GetByID(ctx, companyID)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("analítica: empresa no disponible")
	} else if company != nil {
		out.CompanyName = company.Name
	}
	return out
}

// RenderPDF genera el informe en PDF. Si los datos no se pudieron cargar devuelve
// domain.ErrUnavailable en lugar de un documento vacío.
func (uc *AnalyticsUseCase) RenderPDF(ctx context.Context, companyID string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("%w: exportación PDF no configurada", domain.ErrUnavailable)
	}
	report := uc.GetReport(ctx, companyID)
	if report.Degraded {
		return nil, domain.ErrUnavailable
	}
	doc, err := uc.renderer.RenderAnalyticsReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("analítica: generar PDF: %w", err)
	}
	return doc, nil
}

func emptyReport(degraded bool, now time.Time) *dto.AnalyticsReportDTO {
	return &dto.AnalyticsReportDTO{
		ViewMeta:          dto.ViewMeta{Degraded: degraded},
		TotalCost:         decimal.Zero,
		MonthlyCost:       decimal.Zero,
		YearlyCost:        decimal.Zero,
		CostByCategory:    []dto.CategoryCostDTO{},
		CostBySoftware:    []dto.SoftwareCostDTO{},
		ExpiringContracts: []dto.ExpiringContractDTO{},
		GeneratedAt:       now,
	}
}
