package aggregation

import (
	"strings"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// AllCategories valor del filtro que desactiva el filtrado por categoría.
const AllCategories = "all"

// FilterCatalog conserva los software cuyo nombre o categoría contienen term
// (sin distinguir mayúsculas) y, si category no es vacío ni "all", de esa categoría.
func FilterCatalog(views []SoftwareView, term, category string) []SoftwareView {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]SoftwareView, 0, len(views))
	for _, v := range views {
		if v.Software == nil {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(v.Software.Name), term) &&
			!strings.Contains(strings.ToLower(v.Software.Category), term) {
			continue
		}
		if category != "" && category != AllCategories && v.Software.Category != category {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Categories "all" seguido de las categorías distintas en orden de aparición.
func Categories(views []SoftwareView) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{})
	for _, v := range views {
		if v.Software == nil {
			continue
		}
		if _, ok := seen[v.Software.Category]; ok {
			continue
		}
		seen[v.Software.Category] = struct{}{}
		out = append(out, v.Software.Category)
	}
	return out
}

// PendingRequests solicitudes enviadas o en revisión.
func PendingRequests(requests []*entity.SoftwareRequest) int {
	n := 0
	for _, r := range requests {
		if r.Status == entity.RequestSubmitted || r.Status == entity.RequestInReview {
			n++
		}
	}
	return n
}

// CompletionRate indicador aproximado del dashboard: min(95, 60 + 5 por software).
// No se deriva de la completitud real de los datos.
func CompletionRate(softwareCount int) int {
	return min(95, 60+softwareCount*5)
}
