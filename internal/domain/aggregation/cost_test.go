package aggregation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

func TestAnnualize_PorPeriodo(t *testing.T) {
	cases := []struct {
		period string
		amount float64
		want   string
	}{
		{entity.BillingMonthly, 10.5, "126"},
		{entity.BillingYearly, 1200, "1200"},
		{entity.BillingOneTime, 499, "499"},
		{"desconocido", 80, "80"},
	}
	for _, tc := range cases {
		t.Run(tc.period, func(t *testing.T) {
			got := aggregation.Annualize(contract("c", "s", tc.amount, tc.period, nil))
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "got %s", got)
		})
	}
}

func TestAnnualize_SinContrato(t *testing.T) {
	assert.True(t, aggregation.Annualize(nil).IsZero())
}

func TestMonthlyEquivalent(t *testing.T) {
	got := aggregation.MonthlyEquivalent(contract("c", "s", 1200, entity.BillingYearly, nil))
	assert.True(t, got.Equal(decimal.NewFromInt(100)))

	got = aggregation.MonthlyEquivalent(contract("c", "s", 15, entity.BillingMonthly, nil))
	assert.True(t, got.Equal(decimal.NewFromInt(15)))
}

// La suma de las categorías es igual a la suma anualizada de los software con contrato.
func TestCostByCategory_SumaIgualAlTotal(t *testing.T) {
	software := []*entity.Software{
		sw("1", "Slack", "Communication"),
		sw("2", "HubSpot", "CRM"),
		sw("3", "Teams", "Communication"),
		sw("4", "Figma", "Design"),
		sw("5", "Sage", "Comptabilité"),
	}
	contracts := []*entity.Contract{
		contract("c1", "1", 8, entity.BillingMonthly, nil),
		contract("c2", "2", 5000, entity.BillingYearly, nil),
		contract("c3", "3", 300, entity.BillingOneTime, nil),
		contract("c5", "5", 49.99, entity.BillingMonthly, nil),
	}
	views := aggregation.JoinSoftware(software, contracts, nil, nil)

	byCategory := aggregation.CostByCategory(views)
	sum := decimal.Zero
	for _, c := range byCategory {
		sum = sum.Add(c.Value)
	}
	yearly, monthly := aggregation.TotalCost(views)

	assert.True(t, sum.Equal(yearly), "categorías=%s total=%s", sum, yearly)
	assert.True(t, monthly.Mul(decimal.NewFromInt(12)).Round(6).Equal(yearly.Round(6)))

	require.Len(t, byCategory, 3, "Design no tiene contrato y no aparece")
	assert.Equal(t, "Communication", byCategory[0].Name)
	assert.True(t, byCategory[0].Value.Equal(decimal.NewFromInt(96+300)))
	assert.Equal(t, aggregation.CategoryColors[0], byCategory[0].Color)
	assert.Equal(t, "CRM", byCategory[1].Name)
	assert.Equal(t, aggregation.CategoryColors[1], byCategory[1].Color)
}

func TestCostByCategory_ColoresCiclicos(t *testing.T) {
	var software []*entity.Software
	var contracts []*entity.Contract
	for i := 0; i < 9; i++ {
		id := string(rune('a' + i))
		software = append(software, sw(id, "sw"+id, "cat"+id))
		contracts = append(contracts, contract("c"+id, id, 1, entity.BillingYearly, nil))
	}
	out := aggregation.CostByCategory(aggregation.JoinSoftware(software, contracts, nil, nil))
	require.Len(t, out, 9)
	assert.Equal(t, out[0].Color, out[8].Color)
}

func TestTopByCost_OrdenYLimite(t *testing.T) {
	var software []*entity.Software
	var contracts []*entity.Contract
	for i := 1; i <= 12; i++ {
		id := string(rune('a' + i))
		software = append(software, sw(id, "sw"+id, "Autre"))
		contracts = append(contracts, contract("c"+id, id, float64(i), entity.BillingMonthly, nil))
	}
	software = append(software, sw("z", "sin contrato", "Autre"))

	top := aggregation.TopByCost(aggregation.JoinSoftware(software, contracts, nil, nil), aggregation.AnalyticsTopN)
	require.Len(t, top, 10)
	assert.True(t, top[0].Cost.Equal(decimal.NewFromInt(144)))
	for i := 1; i < len(top); i++ {
		assert.True(t, top[i-1].Cost.GreaterThanOrEqual(top[i].Cost))
	}
	for _, c := range top {
		assert.NotEqual(t, "z", c.SoftwareID)
	}
}

func TestSumAnnualized(t *testing.T) {
	got := aggregation.SumAnnualized([]*entity.Contract{
		contract("a", "1", 10, entity.BillingMonthly, nil),
		contract("b", "2", 100, entity.BillingYearly, nil),
	})
	assert.True(t, got.Equal(decimal.NewFromInt(220)))
}
