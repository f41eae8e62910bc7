package aggregation

import (
	"sort"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// SoftwareView software unido con su contrato, opiniones y uso.
// AverageRating es nil cuando no hay opiniones ("sin calificación", nunca 0).
type SoftwareView struct {
	Software      *entity.Software
	Contract      *entity.Contract
	AverageRating *float64
	ReviewCount   int
	UserCount     int
}

// HasRating indica si el software tiene al menos una opinión.
func (v SoftwareView) HasRating() bool { return v.AverageRating != nil }

// JoinSoftware construye la vista de cada software.
// Contrato: el primero de contracts (en su orden) con SoftwareID coincidente.
// UserCount cuenta solo filas de uso en estado active.
func JoinSoftware(
	software []*entity.Software,
	contracts []*entity.Contract,
	reviews []*entity.Review,
	usage []*entity.Usage,
) []SoftwareView {
	firstContract := make(map[string]*entity.Contract, len(contracts))
	for _, c := range contracts {
		if _, seen := firstContract[c.SoftwareID]; !seen {
			firstContract[c.SoftwareID] = c
		}
	}

	type ratingAcc struct{ sum, count int }
	ratings := make(map[string]*ratingAcc)
	for _, r := range reviews {
		acc := ratings[r.SoftwareID]
		if acc == nil {
			acc = &ratingAcc{}
			ratings[r.SoftwareID] = acc
		}
		acc.sum += r.Rating
		acc.count++
	}

	users := make(map[string]int)
	for _, u := range usage {
		if u.Status == entity.UsageActive {
			users[u.SoftwareID]++
		}
	}

	out := make([]SoftwareView, 0, len(software))
	for _, sw := range software {
		v := SoftwareView{
			Software:  sw,
			Contract:  firstContract[sw.ID],
			UserCount: users[sw.ID],
		}
		if acc := ratings[sw.ID]; acc != nil && acc.count > 0 {
			avg := float64(acc.sum) / float64(acc.count)
			v.AverageRating = &avg
			v.ReviewCount = acc.count
		}
		out = append(out, v)
	}
	return out
}

// AverageRating promedio de una lista de opiniones; nil sin opiniones.
func AverageRating(reviews []*entity.Review) *float64 {
	if len(reviews) == 0 {
		return nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return &avg
}

// DistinctActiveUsers número de usuarios distintos con al menos un uso activo.
func DistinctActiveUsers(usage []*entity.Usage) int {
	seen := make(map[string]struct{})
	for _, u := range usage {
		if u.Status == entity.UsageActive {
			seen[u.UserID] = struct{}{}
		}
	}
	return len(seen)
}

func sortStable[T any](s []T, less func(a, b T) bool) {
	sort.SliceStable(s, func(i, j int) bool { return less(s[i], s[j]) })
}
