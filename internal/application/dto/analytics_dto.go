package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsReportDTO respuesta de GET /api/analytics (y base del PDF).
type AnalyticsReportDTO struct {
	ViewMeta
	CompanyName       string                `json:"company_name,omitempty"`
	TotalCost         decimal.Decimal       `json:"total_cost"`
	MonthlyCost       decimal.Decimal       `json:"monthly_cost"`
	YearlyCost        decimal.Decimal       `json:"yearly_cost"`
	SoftwareCount     int                   `json:"software_count"`
	ActiveUsers       int                   `json:"active_users"`
	CostByCategory    []CategoryCostDTO     `json:"cost_by_category"`
	CostBySoftware    []SoftwareCostDTO     `json:"cost_by_software"`
	ExpiringContracts []ExpiringContractDTO `json:"expiring_contracts"`
	GeneratedAt       time.Time             `json:"generated_at"`
}

// CategoryCostDTO coste anualizado de una categoría.
type CategoryCostDTO struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// SoftwareCostDTO entrada del top por coste.
type SoftwareCostDTO struct {
	SoftwareID string          `json:"software_id"`
	Name       string          `json:"name"`
	Cost       decimal.Decimal `json:"cost"`
}

// ExpiringContractDTO contrato que vence en la ventana de análisis.
type ExpiringContractDTO struct {
	SoftwareID string          `json:"software_id"`
	ContractID string          `json:"contract_id"`
	Name       string          `json:"name"`
	EndDate    time.Time       `json:"end_date"`
	Cost       decimal.Decimal `json:"cost"`
	DaysLeft   int             `json:"days_left"`
}
