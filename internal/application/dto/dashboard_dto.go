package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	ViewMeta
	TotalSoftware     int             `json:"total_software"`
	TotalCost         decimal.Decimal `json:"total_cost"` // anualizado
	ExpiringContracts int             `json:"expiring_contracts"`
	PendingRequests   int             `json:"pending_requests"`
	CompletionRate    int             `json:"completion_rate"` // heurística, en %
	ActiveUsers       int             `json:"active_users"`
	CostPerUser       decimal.Decimal `json:"cost_per_user"`

	RecentSoftware []SoftwareResponse `json:"recent_software"`
	RecentRequests []RequestResponse  `json:"recent_requests"`
}
