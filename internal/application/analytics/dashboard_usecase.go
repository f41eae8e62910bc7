// Package analytics contiene los casos de uso del dashboard y del informe de
// costes de la empresa.
package analytics

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// Tamaño de los widgets "recientes" del dashboard.
const (
	dashboardRecentSoftware = 5
	dashboardRecentRequests = 3
)

// DashboardUseCase genera el resumen de la empresa para la página de inicio.
//
// Cuatro lecturas en paralelo: software (más recientes), contratos, solicitudes
// (últimas 5) y miembros. Ninguna escritura.
type DashboardUseCase struct {
	software  repository.SoftwareRepository
	contracts repository.ContractRepository
	requests  repository.SoftwareRequestRepository
	users     repository.UserRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	software repository.SoftwareRepository,
	contracts repository.ContractRepository,
	requests repository.SoftwareRequestRepository,
	users repository.UserRepository,
	log zerolog.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{software: software, contracts: contracts, requests: requests, users: users, log: log, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO. Un fallo de lectura devuelve la vista
// vacía con Degraded=true.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) *dto.DashboardSummaryDTO {
	type softwareResult struct {
		items []*entity.Software
		err   error
	}
	type contractsResult struct {
		items []*entity.Contract
		err   error
	}
	type requestsResult struct {
		items []*entity.SoftwareRequest
		err   error
	}
	type usersResult struct {
		items []*entity.User
		err   error
	}

	swCh := make(chan softwareResult, 1)
	ctCh := make(chan contractsResult, 1)
	rqCh := make(chan requestsResult, 1)
	usCh := make(chan usersResult, 1)

	go func() {
		items, err := uc.software.ListByCompany(ctx, companyID, repository.OrderByCreatedAtDesc, usecase.DashboardSoftwareLimit)
		swCh <- softwareResult{items, err}
	}()
	go func() {
		items, err := uc.contracts.ListByCompany(ctx, companyID, usecase.ListLimit)
		ctCh <- contractsResult{items, err}
	}()
	go func() {
		items, err := uc.requests.ListByCompany(ctx, companyID, usecase.DashboardRequestLimit)
		rqCh <- requestsResult{items, err}
	}()
	go func() {
		items, err := uc.users.ListByCompany(ctx, companyID, usecase.ListLimit)
		usCh <- usersResult{items, err}
	}()

	sw, ct, rq, us := <-swCh, <-ctCh, <-rqCh, <-usCh
	for _, err := range []error{sw.err, ct.err, rq.err, us.err} {
		if err != nil {
			uc.log.Error().Err(err).Str("company_id", companyID).Msg("dashboard: error cargando datos")
			return emptySummary(true)
		}
	}

	views := aggregation.JoinSoftware(sw.items, ct.items, nil, nil)
	total := aggregation.SumAnnualized(ct.items)
	members := len(us.items)

	out := emptySummary(false)
	out.TotalSoftware = len(sw.items)
	out.TotalCost = total
	out.ExpiringContracts = len(aggregation.ExpiringWithin(views, uc.now(), aggregation.DashboardExpiryWindow))
	out.PendingRequests = aggregation.PendingRequests(rq.items)
	out.CompletionRate = aggregation.CompletionRate(len(sw.items))
	out.ActiveUsers = members
	out.CostPerUser = total.Div(decimal.NewFromInt(int64(max(members, 1)))).Round(0)

	for _, v := range views[:min(len(views), dashboardRecentSoftware)] {
		out.RecentSoftware = append(out.RecentSoftware, dto.ToSoftwareResponse(v))
	}
	for _, r := range rq.items[:min(len(rq.items), dashboardRecentRequests)] {
		out.RecentRequests = append(out.RecentRequests, dto.ToRequestResponse(r, aggregation.VoteTally{Count: r.VoteCount}, ""))
	}
	return out
}

func emptySummary(degraded bool) *dto.DashboardSummaryDTO {
	return &dto.DashboardSummaryDTO{
		ViewMeta:       dto.ViewMeta{Degraded: degraded},
		TotalCost:      decimal.Zero,
		CostPerUser:    decimal.Zero,
		RecentSoftware: []dto.SoftwareResponse{},
		RecentRequests: []dto.RequestResponse{},
	}
}
