package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/memstore"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var ana = usecase.Actor{UserID: "u-ana", CompanyID: "co-1", Role: entity.RoleAdmin}

func newCatalog(t *testing.T) (*CatalogUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	repos := store.Repos()
	require.NoError(t, repos.Companies.Create(context.Background(), &entity.Company{ID: "co-1", Name: "Acme", CreatedAt: now}))
	require.NoError(t, repos.Companies.Create(context.Background(), &entity.Company{ID: "co-2", Name: "Globex", CreatedAt: now}))
	loader := usecase.NewCatalogLoader(repos.Software, repos.Contracts, repos.Reviews, repos.Usage)
	uc := NewCatalogUseCase(loader, repos.Software, repos.Contracts, repos.Reviews, store, zerolog.Nop())
	uc.now = func() time.Time { return now }
	return uc, store
}

func TestParseContractTerms(t *testing.T) {
	_, ok := parseContractTerms(dto.SoftwareForm{CostAmount: "abc"})
	assert.False(t, ok, "coste inválido: sin contrato")
	_, ok = parseContractTerms(dto.SoftwareForm{CostAmount: "0"})
	assert.False(t, ok, "coste cero: sin contrato")

	terms, ok := parseContractTerms(dto.SoftwareForm{
		CostAmount: "99,5", LicenseCount: "x", NoticeDays: "-3", BillingPeriod: "weekly", EndDate: "31/12/2025",
	})
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("99.5").Equal(terms.Cost))
	assert.Equal(t, entity.DefaultCurrency, terms.Currency)
	assert.Equal(t, entity.BillingYearly, terms.BillingPeriod)
	assert.Equal(t, 1, terms.LicenseCount)
	assert.Equal(t, 30, terms.NoticeDays)
	assert.Nil(t, terms.EndDate)

	terms, ok = parseContractTerms(dto.SoftwareForm{
		CostAmount: "20", Currency: "usd", BillingPeriod: entity.BillingMonthly, LicenseCount: "12", EndDate: "2025-12-31",
	})
	require.True(t, ok)
	assert.Equal(t, "USD", terms.Currency)
	assert.Equal(t, entity.BillingMonthly, terms.BillingPeriod)
	assert.Equal(t, 12, terms.LicenseCount)
	require.NotNil(t, terms.EndDate)
	assert.Equal(t, time.December, terms.EndDate.Month())
}

func TestCreateSoftware_ConContratoYUso(t *testing.T) {
	uc, store := newCatalog(t)
	ctx := context.Background()

	out, err := uc.CreateSoftware(ctx, ana, dto.SoftwareForm{Name: " Slack ", Category: "Communication", CostAmount: "480"})
	require.NoError(t, err)
	assert.Equal(t, "Slack", out.Name)
	assert.Equal(t, entity.SoftwareActive, out.Status)
	require.NotNil(t, out.Contract)
	assert.True(t, decimal.NewFromInt(480).Equal(out.Contract.CostAmount))
	assert.Equal(t, 1, out.UserCount, "el creador queda como usuario activo")
	assert.Nil(t, out.AverageRating)

	usage, err := store.Repos().Usage.ListByCompany(ctx, "co-1", 0)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, "u-ana", usage[0].UserID)
}

func TestCreateSoftware_CosteInvalidoSinContrato(t *testing.T) {
	uc, store := newCatalog(t)
	out, err := uc.CreateSoftware(context.Background(), ana, dto.SoftwareForm{Name: "Notion", Category: "Productivité", CostAmount: "gratuit"})
	require.NoError(t, err)
	assert.Nil(t, out.Contract)

	contracts, err := store.Repos().Contracts.ListByCompany(context.Background(), "co-1", 0)
	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestCreateSoftware_FalloRevierteTodo(t *testing.T) {
	uc, store := newCatalog(t)
	store.FailOn["usage.create"] = errors.New("disco lleno")

	_, err := uc.CreateSoftware(context.Background(), ana, dto.SoftwareForm{Name: "Slack", Category: "Communication", CostAmount: "480"})
	require.Error(t, err)

	sw, err := store.Repos().Software.ListByCompany(context.Background(), "co-1", "", 0)
	require.NoError(t, err)
	assert.Empty(t, sw, "el software no debe quedar sin su uso")
	contracts, err := store.Repos().Contracts.ListByCompany(context.Background(), "co-1", 0)
	require.NoError(t, err)
	assert.Empty(t, contracts)
}

func TestCreateSoftware_SinEmpresa(t *testing.T) {
	uc, _ := newCatalog(t)
	_, err := uc.CreateSoftware(context.Background(), usecase.Actor{UserID: "u-x"}, dto.SoftwareForm{Name: "Slack", Category: "Communication"})
	assert.ErrorIs(t, err, domain.ErrOnboardingRequired)
}

func TestList_FiltraYCategorias(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	for _, f := range []dto.SoftwareForm{
		{Name: "Slack", Category: "Communication"},
		{Name: "Figma", Category: "Design"},
		{Name: "Zoom", Category: "Communication"},
	} {
		_, err := uc.CreateSoftware(ctx, ana, f)
		require.NoError(t, err)
	}
	_, err := uc.CreateSoftware(ctx, usecase.Actor{UserID: "u-bob", CompanyID: "co-2"}, dto.SoftwareForm{Name: "Jira", Category: "Développement"})
	require.NoError(t, err)

	all := uc.List(ctx, "co-1", "", "")
	assert.False(t, all.Degraded)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, []string{"Figma", "Slack", "Zoom"}, names(all.Software))
	assert.Equal(t, []string{"all", "Design", "Communication"}, all.Categories)

	comm := uc.List(ctx, "co-1", "", "Communication")
	assert.Equal(t, []string{"Slack", "Zoom"}, names(comm.Software))

	search := uc.List(ctx, "co-1", "FIG", "all")
	assert.Equal(t, []string{"Figma"}, names(search.Software))
}

func TestList_Degradada(t *testing.T) {
	uc, store := newCatalog(t)
	store.ListErr = errors.New("conexión perdida")

	out := uc.List(context.Background(), "co-1", "", "")
	assert.True(t, out.Degraded)
	assert.Empty(t, out.Software)
	assert.NotNil(t, out.Software)
	assert.Equal(t, []string{"all"}, out.Categories)
}

func TestDetails_VencimientoYResenaPropia(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	sw, err := uc.CreateSoftware(ctx, ana, dto.SoftwareForm{
		Name: "Slack", Category: "Communication", CostAmount: "480", EndDate: "2025-03-21",
	})
	require.NoError(t, err)
	_, err = uc.SaveReview(ctx, ana, sw.ID, dto.ReviewRequest{Rating: 4, Comment: "Très utile"})
	require.NoError(t, err)
	_, err = uc.SaveReview(ctx, usecase.Actor{UserID: "u-leo", CompanyID: "co-1"}, sw.ID, dto.ReviewRequest{Rating: 5})
	require.NoError(t, err)

	out, err := uc.Details(ctx, ana, sw.ID)
	require.NoError(t, err)
	assert.False(t, out.Degraded)
	require.NotNil(t, out.DaysUntilExpiry)
	assert.Equal(t, 20, *out.DaysUntilExpiry)
	assert.True(t, out.ExpiringSoon)
	assert.False(t, out.Expired)
	assert.Len(t, out.Reviews, 2)
	require.NotNil(t, out.UserReview)
	assert.Equal(t, 4, out.UserReview.Rating)
	require.NotNil(t, out.Software.AverageRating)
	assert.InDelta(t, 4.5, *out.Software.AverageRating, 1e-9)
}

func TestDetails_ContratoVencido(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	sw, err := uc.CreateSoftware(ctx, ana, dto.SoftwareForm{
		Name: "Zoom", Category: "Communication", CostAmount: "15", EndDate: "2025-02-19",
	})
	require.NoError(t, err)

	out, err := uc.Details(ctx, ana, sw.ID)
	require.NoError(t, err)
	require.NotNil(t, out.DaysUntilExpiry)
	assert.Equal(t, -10, *out.DaysUntilExpiry)
	assert.True(t, out.ExpiringSoon, "un contrato vencido sigue pidiendo atención")
	assert.True(t, out.Expired)
}

func TestDetails_SinVencimientoCercano(t *testing.T) {
	uc, _ := newCatalog(t)
	ctx := context.Background()
	sw, err := uc.CreateSoftware(ctx, ana, dto.SoftwareForm{
		Name: "Figma", Category: "Design", CostAmount: "1200", EndDate: "2025-06-01",
	})
	require.NoError(t, err)

	out, err := uc.Details(ctx, ana, sw.ID)
	require.NoError(t, err)
	assert.False(t, out.ExpiringSoon)
	assert.False(t, out.Expired)
}

func TestDetails_OtraEmpresa(t *testing.T) {
	uc, _ := newCatalog(t)
	sw, err := uc.CreateSoftware(context.Background(), ana, dto.SoftwareForm{Name: "Slack", Category: "Communication"})
	require.NoError(t, err)

	_, err = uc.Details(context.Background(), usecase.Actor{UserID: "u-bob", CompanyID: "co-2"}, sw.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Details(context.Background(), ana, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateSoftware_CreaYLuegoActualizaContrato(t *testing.T) {
	uc, store := newCatalog(t)
	ctx := context.Background()
	sw, err := uc.CreateSoftware(ctx, ana, dto.SoftwareForm{Name: "Slack", Category: "Communication"})
	require.NoError(t, err)
	require.Nil(t, sw.Contract)

	out, err := uc.UpdateSoftware(ctx, ana, sw.ID, dto.UpdateSoftwareRequest{
		SoftwareForm: dto.SoftwareForm{Name: "Slack Pro", Category: "Communication", CostAmount: "100", BillingPeriod: entity.BillingMonthly},
	})
	require.NoError(t, err)
	assert.Equal(t, "Slack Pro", out.Name)
	require.NotNil(t, out.Contract)
	firstID := out.Contract.ID

	out, err = uc.UpdateSoftware(ctx, ana, sw.ID, dto.UpdateSoftwareRequest{
		SoftwareForm: dto.SoftwareForm{Name: "Slack Pro", Category: "Communication", CostAmount: "120"},
		Status:       entity.SoftwareDeprecated,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SoftwareDeprecated, out.Status)
	require.NotNil(t, out.Contract)
	assert.Equal(t, firstID, out.Contract.ID, "se edita el contrato existente")
	assert.True(t, decimal.NewFromInt(120).Equal(out.Contract.CostAmount))

	contracts, err := store.Repos().Contracts.ListBySoftware(ctx, sw.ID)
	require.NoError(t, err)
	assert.Len(t, contracts, 1)
}

func TestUpdateSoftware_OtraEmpresa(t *testing.T) {
	uc, _ := newCatalog(t)
	sw, err := uc.CreateSoftware(context.Background(), ana, dto.SoftwareForm{Name: "Slack", Category: "Communication"})
	require.NoError(t, err)

	_, err = uc.UpdateSoftware(context.Background(), usecase.Actor{UserID: "u-bob", CompanyID: "co-2"}, sw.ID,
		dto.UpdateSoftwareRequest{SoftwareForm: dto.SoftwareForm{Name: "X", Category: "Y"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSaveReview_ReemplazaLaExistente(t *testing.T) {
	uc, store := newCatalog(t)
	ctx := context.Background()
	sw, err := uc.CreateSoftware(ctx, ana, dto.SoftwareForm{Name: "Slack", Category: "Communication"})
	require.NoError(t, err)

	first, err := uc.SaveReview(ctx, ana, sw.ID, dto.ReviewRequest{Rating: 2})
	require.NoError(t, err)
	second, err := uc.SaveReview(ctx, ana, sw.ID, dto.ReviewRequest{Rating: 5, Comment: "Mieux"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)

	reviews, err := store.Repos().Reviews.ListBySoftware(ctx, sw.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	_, err = uc.SaveReview(ctx, ana, sw.ID, dto.ReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func names(list []dto.SoftwareResponse) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Name)
	}
	return out
}
