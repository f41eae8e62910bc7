package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/memstore"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

type seed struct {
	t     *testing.T
	store *memstore.Store
}

func newSeed(t *testing.T) seed {
	return seed{t: t, store: memstore.New()}
}

func (s seed) company(id string) {
	require.NoError(s.t, s.store.Repos().Companies.Create(context.Background(),
		&entity.Company{ID: id, Name: "Empresa " + id, CreatedAt: t0}))
}

func (s seed) user(id, companyID, role string) {
	require.NoError(s.t, s.store.Repos().Users.Create(context.Background(),
		&entity.User{ID: id, Email: id + "@acme.fr", DisplayName: id, Role: role, CompanyID: companyID, CreatedAt: t0}))
}

func (s seed) software(id, companyID, name, category string) {
	require.NoError(s.t, s.store.Repos().Software.Create(context.Background(),
		&entity.Software{ID: id, Name: name, Category: category, Status: entity.SoftwareActive, CompanyID: companyID, CreatedAt: t0}))
}

func (s seed) contract(id, softwareID string, cost int64, end *time.Time, noticeDays int) {
	require.NoError(s.t, s.store.Repos().Contracts.Create(context.Background(), &entity.Contract{
		ID: id, SoftwareID: softwareID, CostAmount: decimal.NewFromInt(cost), Currency: "EUR",
		BillingPeriod: entity.BillingYearly, LicenseCount: 1, StartDate: t0, EndDate: end,
		NoticeDays: noticeDays, CreatedAt: t0,
	}))
}

func at(d time.Duration) *time.Time {
	v := t0.Add(d)
	return &v
}
