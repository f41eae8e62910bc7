package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
)

func TestMoney_FormatoFrances(t *testing.T) {
	g := NewMarotoReportRenderer()
	s := g.money(decimal.RequireFromString("1234.5"))
	assert.True(t, strings.HasSuffix(s, " €"), s)
	assert.Contains(t, s, "234,50")
	assert.NotContains(t, s, "\u202f")
	assert.Equal(t, "0,00 €", g.money(decimal.Zero))
}

func TestRenderAnalyticsReport_GeneraPDF(t *testing.T) {
	g := NewMarotoReportRenderer()
	report := &dto.AnalyticsReportDTO{
		CompanyName:       "Acme",
		TotalCost:         decimal.NewFromInt(840),
		YearlyCost:        decimal.NewFromInt(840),
		MonthlyCost:       decimal.NewFromInt(70),
		SoftwareCount:     2,
		ActiveUsers:       3,
		CostByCategory:    []dto.CategoryCostDTO{{Name: "Design", Value: decimal.NewFromInt(840), Color: "#2563EB"}},
		CostBySoftware:    []dto.SoftwareCostDTO{{SoftwareID: "s1", Name: "Figma", Cost: decimal.NewFromInt(600)}},
		ExpiringContracts: []dto.ExpiringContractDTO{{
			SoftwareID: "s1", ContractID: "c1", Name: "Figma",
			EndDate: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), Cost: decimal.NewFromInt(50), DaysLeft: 80,
		}},
		GeneratedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	doc, err := g.RenderAnalyticsReport(context.Background(), report)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRenderAnalyticsReport_SinDatos(t *testing.T) {
	g := NewMarotoReportRenderer()
	doc, err := g.RenderAnalyticsReport(context.Background(), &dto.AnalyticsReportDTO{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))

	_, err = g.RenderAnalyticsReport(context.Background(), nil)
	assert.Error(t, err)
}
