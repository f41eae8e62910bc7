package ports

import (
	"context"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
)

// ReportRenderer genera la versión imprimible del informe de analítica.
type ReportRenderer interface {
	RenderAnalyticsReport(ctx context.Context, report *dto.AnalyticsReportDTO) ([]byte, error)
}
