// Package aggregation contiene los cálculos derivados que cada vista recalcula
// después de cargar las listas completas: uniones software/contrato/opiniones/uso,
// costos anualizados, agrupaciones por categoría y ventanas de vencimiento.
//
// Funciones puras: sin acceso a red ni a base de datos, nunca devuelven error.
// Una fila relacionada ausente produce "sin contrato", "sin calificación" o 0 usuarios.
package aggregation

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

var twelve = decimal.NewFromInt(12)

// Annualize normaliza el costo de un contrato a un valor anual.
// yearly → costo; monthly → costo×12; one-time (o desconocido) → costo, sin anualizar.
func Annualize(c *entity.Contract) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	switch c.BillingPeriod {
	case entity.BillingYearly:
		return c.CostAmount
	case entity.BillingMonthly:
		return c.CostAmount.Mul(twelve)
	default:
		return c.CostAmount
	}
}

// MonthlyEquivalent equivalente mensual = anual / 12.
func MonthlyEquivalent(c *entity.Contract) decimal.Decimal {
	return Annualize(c).Div(twelve)
}

// SumAnnualized suma el costo anualizado de una lista de contratos.
func SumAnnualized(contracts []*entity.Contract) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		total = total.Add(Annualize(c))
	}
	return total
}

// TotalCost costo anual y mensual de los software que tienen contrato.
func TotalCost(views []SoftwareView) (yearly, monthly decimal.Decimal) {
	yearly = decimal.Zero
	for _, v := range views {
		if v.Contract != nil {
			yearly = yearly.Add(Annualize(v.Contract))
		}
	}
	return yearly, yearly.Div(twelve)
}

// CategoryColors paleta asignada cíclicamente a las categorías.
var CategoryColors = []string{
	"#2563EB", "#F59E0B", "#10B981", "#EF4444",
	"#8B5CF6", "#F97316", "#06B6D4", "#84CC16",
}

// CategoryCost total anualizado de una categoría.
type CategoryCost struct {
	Name  string
	Value decimal.Decimal
	Color string
}

// CostByCategory suma el costo anualizado por categoría. Los software sin contrato
// no aportan ni crean categoría. Orden: primera aparición en views.
func CostByCategory(views []SoftwareView) []CategoryCost {
	index := make(map[string]int)
	var out []CategoryCost
	for _, v := range views {
		if v.Contract == nil || v.Software == nil {
			continue
		}
		i, ok := index[v.Software.Category]
		if !ok {
			i = len(out)
			index[v.Software.Category] = i
			out = append(out, CategoryCost{
				Name:  v.Software.Category,
				Value: decimal.Zero,
				Color: CategoryColors[i%len(CategoryColors)],
			})
		}
		out[i].Value = out[i].Value.Add(Annualize(v.Contract))
	}
	return out
}

// SoftwareCost costo anualizado de un software.
type SoftwareCost struct {
	SoftwareID string
	Name       string
	Cost       decimal.Decimal
}

// AnalyticsTopN tamaño del ranking de costos en analítica.
const AnalyticsTopN = 10

// TopByCost ordena de mayor a menor costo anualizado y devuelve los n primeros.
// Empates conservan el orden de entrada.
func TopByCost(views []SoftwareView, n int) []SoftwareCost {
	var out []SoftwareCost
	for _, v := range views {
		if v.Contract == nil || v.Software == nil {
			continue
		}
		out = append(out, SoftwareCost{
			SoftwareID: v.Software.ID,
			Name:       v.Software.Name,
			Cost:       Annualize(v.Contract),
		})
	}
	sortStable(out, func(a, b SoftwareCost) bool { return a.Cost.GreaterThan(b.Cost) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
