package aggregation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

const day = 24 * time.Hour

func TestExpiringWithin_Limites(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	software := []*entity.Software{
		sw("hoy", "Hoy", "Autre"),
		sw("90", "Noventa", "Autre"),
		sw("91", "NoventaYUno", "Autre"),
		sw("ayer", "Ayer", "Autre"),
		sw("10", "Diez", "Autre"),
		sw("sin", "SinFin", "Autre"),
	}
	contracts := []*entity.Contract{
		contract("c-hoy", "hoy", 1, entity.BillingYearly, at(now)),
		contract("c-90", "90", 2, entity.BillingYearly, at(now.Add(90*day))),
		contract("c-91", "91", 3, entity.BillingYearly, at(now.Add(91*day))),
		contract("c-ayer", "ayer", 4, entity.BillingYearly, at(now.Add(-day))),
		contract("c-10", "10", 5, entity.BillingMonthly, at(now.Add(10*day))),
		contract("c-sin", "sin", 6, entity.BillingYearly, nil),
	}
	views := aggregation.JoinSoftware(software, contracts, nil, nil)

	got := aggregation.ExpiringWithin(views, now, aggregation.AnalyticsExpiryWindow)
	require.Len(t, got, 3)
	assert.Equal(t, "Hoy", got[0].Name)
	assert.Equal(t, "Diez", got[1].Name)
	assert.Equal(t, "Noventa", got[2].Name)
	assert.Equal(t, 10, got[1].DaysLeft)
	assert.True(t, got[1].Cost.Equal(contracts[4].CostAmount), "se expone el monto sin anualizar")
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, aggregation.DaysUntil(now.Add(2*time.Hour), now))
	assert.Equal(t, 3, aggregation.DaysUntil(now.Add(3*day), now))
	assert.Equal(t, -1, aggregation.DaysUntil(now.Add(-day), now))
}

func TestWithinNotice(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, aggregation.WithinNotice(at(now.Add(30*day)), 0, now), "0 días usa el aviso por defecto de 30")
	assert.False(t, aggregation.WithinNotice(at(now.Add(31*day)), 30, now))
	assert.True(t, aggregation.WithinNotice(at(now.Add(60*day)), 60, now))
	assert.False(t, aggregation.WithinNotice(at(now.Add(-time.Minute)), 30, now))
	assert.False(t, aggregation.WithinNotice(nil, 30, now))
}
