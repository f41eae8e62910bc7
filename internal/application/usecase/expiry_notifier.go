package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

const companyPageSize = 100

// ExpiryRunResult resumen de una pasada del aviso de vencimientos.
type ExpiryRunResult struct {
	Companies int
	Sent      int
	Skipped   int // ya avisado a ese administrador
	Failed    int
}

// ExpiryNotifier avisa a los administradores de los contratos que entran en su plazo de preaviso.
type ExpiryNotifier struct {
	companies repository.CompanyRepository
	software  repository.SoftwareRepository
	contracts repository.ContractRepository
	users     repository.UserRepository
	repo      repository.NotificationRepository
	notifier  Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewExpiryNotifier construye la tarea.
func NewExpiryNotifier(
	companies repository.CompanyRepository,
	software repository.SoftwareRepository,
	contracts repository.ContractRepository,
	users repository.UserRepository,
	repo repository.NotificationRepository,
	notifier Notifier,
	log zerolog.Logger,
) *ExpiryNotifier {
	return &ExpiryNotifier{
		companies: companies, software: software, contracts: contracts, users: users,
		repo: repo, notifier: notifier, log: log, now: time.Now,
	}
}

// Run recorre todas las empresas. Un aviso por (contrato, administrador): se omite si ya existe.
func (n *ExpiryNotifier) Run(ctx context.Context) (ExpiryRunResult, error) {
	var res ExpiryRunResult
	now := n.now()
	for offset := 0; ; offset += companyPageSize {
		page, err := n.companies.List(ctx, companyPageSize, offset)
		if err != nil {
			return res, fmt.Errorf("listar empresas: %w", err)
		}
		for _, c := range page {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.Companies++
			if err := n.runCompany(ctx, c, now, &res); err != nil {
				res.Failed++
				n.log.Error().Err(err).Str("company_id", c.ID).Msg("vencimientos: error procesando empresa")
			}
		}
		if len(page) < companyPageSize {
			return res, nil
		}
	}
}

func (n *ExpiryNotifier) runCompany(ctx context.Context, company *entity.Company, now time.Time, res *ExpiryRunResult) error {
	contracts, err := n.contracts.ListByCompany(ctx, company.ID, ListLimit)
	if err != nil {
		return err
	}
	var due []*entity.Contract
	for _, c := range contracts {
		if aggregation.WithinNotice(c.EndDate, c.NoticeDays, now) {
			due = append(due, c)
		}
	}
	if len(due) == 0 {
		return nil
	}

	software, err := n.software.ListByCompany(ctx, company.ID, repository.OrderByName, ListLimit)
	if err != nil {
		return err
	}
	names := make(map[string]string, len(software))
	for _, sw := range software {
		names[sw.ID] = sw.Name
	}
	admins, err := n.users.ListAdmins(ctx, company.ID)
	if err != nil {
		return err
	}

	for _, c := range due {
		days := aggregation.DaysUntil(*c.EndDate, now)
		name := names[c.SoftwareID]
		for _, admin := range admins {
			exists, err := n.repo.ExistsForContract(ctx, admin.ID, c.ID)
			if err != nil {
				res.Failed++
				n.log.Error().Err(err).Str("contract_id", c.ID).Msg("vencimientos: error consultando avisos previos")
				continue
			}
			if exists {
				res.Skipped++
				continue
			}
			err = n.notifier.Notify(ctx, admin.ID, entity.NotificationContractExpiry,
				"Contrat bientôt expiré",
				fmt.Sprintf("Le contrat de %s expire dans %d jour(s) (%s).", name, days, c.EndDate.Format("02/01/2006")),
				map[string]any{
					"contract_id": c.ID,
					"software_id": c.SoftwareID,
					"end_date":    c.EndDate.Format("2006-01-02"),
					"days_left":   days,
				})
			if err != nil {
				res.Failed++
				n.log.Error().Err(err).Str("contract_id", c.ID).Str("user_id", admin.ID).Msg("vencimientos: error creando aviso")
				continue
			}
			res.Sent++
		}
	}
	return nil
}
