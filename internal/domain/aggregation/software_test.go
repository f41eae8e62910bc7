package aggregation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

func TestJoinSoftware_PromedioExacto(t *testing.T) {
	views := aggregation.JoinSoftware(
		[]*entity.Software{sw("1", "Notion", "Productivité")},
		nil,
		[]*entity.Review{review("1", "u1", 4), review("1", "u2", 2)},
		nil,
	)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].AverageRating)
	assert.Equal(t, 3.0, *views[0].AverageRating)
	assert.Equal(t, 2, views[0].ReviewCount)
}

// Un software sin opiniones no tiene calificación (nunca 0/5).
func TestJoinSoftware_SinOpiniones(t *testing.T) {
	views := aggregation.JoinSoftware(
		[]*entity.Software{sw("1", "Slack", "Communication")},
		nil,
		[]*entity.Review{review("otro", "u1", 5)},
		nil,
	)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].AverageRating)
	assert.False(t, views[0].HasRating())
	assert.Zero(t, views[0].ReviewCount)
	assert.Nil(t, views[0].Contract)
}

func TestJoinSoftware_PrimerContratoYUsuariosActivos(t *testing.T) {
	first := contract("c1", "1", 10, entity.BillingMonthly, nil)
	second := contract("c2", "1", 99, entity.BillingYearly, nil)
	views := aggregation.JoinSoftware(
		[]*entity.Software{sw("1", "Slack", "Communication"), sw("2", "Zoom", "Communication")},
		[]*entity.Contract{first, second},
		nil,
		[]*entity.Usage{
			usage("1", "u1", entity.UsageActive),
			usage("1", "u2", entity.UsageInactive),
			usage("1", "u3", entity.UsageActive),
			usage("2", "u1", entity.UsageInactive),
		},
	)
	require.Len(t, views, 2)
	assert.Same(t, first, views[0].Contract)
	assert.Equal(t, 2, views[0].UserCount)
	assert.Zero(t, views[1].UserCount)
}

// Escenario: "Slack" creado sin costos aparece sin calificación y fuera de los totales por categoría.
func TestJoinSoftware_SlackSinCostos(t *testing.T) {
	views := aggregation.JoinSoftware(
		[]*entity.Software{sw("1", "Slack", "Communication"), sw("2", "HubSpot", "CRM")},
		[]*entity.Contract{contract("c2", "2", 100, entity.BillingYearly, nil)},
		nil,
		[]*entity.Usage{usage("1", "u1", entity.UsageActive)},
	)
	assert.Nil(t, views[0].AverageRating)
	for _, c := range aggregation.CostByCategory(views) {
		assert.NotEqual(t, "Communication", c.Name)
	}
}

func TestAverageRating(t *testing.T) {
	assert.Nil(t, aggregation.AverageRating(nil))
	avg := aggregation.AverageRating([]*entity.Review{review("1", "a", 5), review("1", "b", 4)})
	require.NotNil(t, avg)
	assert.Equal(t, 4.5, *avg)
}

func TestDistinctActiveUsers(t *testing.T) {
	n := aggregation.DistinctActiveUsers([]*entity.Usage{
		usage("1", "u1", entity.UsageActive),
		usage("2", "u1", entity.UsageActive),
		usage("2", "u2", entity.UsageActive),
		usage("3", "u3", entity.UsageInactive),
	})
	assert.Equal(t, 2, n)
}
