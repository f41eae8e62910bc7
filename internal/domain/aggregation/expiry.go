package aggregation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Ventanas de vencimiento usadas por las vistas.
const (
	AnalyticsExpiryWindow = 90 * 24 * time.Hour
	DashboardExpiryWindow = 30 * 24 * time.Hour
	ExpiringSoonDays      = 30
)

// ExpiringContract contrato que vence dentro de la ventana.
type ExpiringContract struct {
	SoftwareID string
	ContractID string
	Name       string
	EndDate    time.Time
	Cost       decimal.Decimal // monto del contrato, sin anualizar
	DaysLeft   int
}

// ExpiringWithin selecciona los contratos con endDate ∈ [now, now+window] (ambos incluidos),
// ordenados por fecha de fin ascendente.
func ExpiringWithin(views []SoftwareView, now time.Time, window time.Duration) []ExpiringContract {
	limit := now.Add(window)
	var out []ExpiringContract
	for _, v := range views {
		if v.Contract == nil || v.Contract.EndDate == nil || v.Software == nil {
			continue
		}
		end := *v.Contract.EndDate
		if end.Before(now) || end.After(limit) {
			continue
		}
		out = append(out, ExpiringContract{
			SoftwareID: v.Software.ID,
			ContractID: v.Contract.ID,
			Name:       v.Software.Name,
			EndDate:    end,
			Cost:       v.Contract.CostAmount,
			DaysLeft:   DaysUntil(end, now),
		})
	}
	sortStable(out, func(a, b ExpiringContract) bool { return a.EndDate.Before(b.EndDate) })
	return out
}

// WithinNotice indica si end cae en [now, now+noticeDays]. noticeDays <= 0 usa 30.
func WithinNotice(end *time.Time, noticeDays int, now time.Time) bool {
	if end == nil {
		return false
	}
	if noticeDays <= 0 {
		noticeDays = ExpiringSoonDays
	}
	limit := now.Add(time.Duration(noticeDays) * 24 * time.Hour)
	return !end.Before(now) && !end.After(limit)
}

// DaysUntil días restantes hasta end, redondeando hacia arriba. Negativo si ya venció.
func DaysUntil(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}
