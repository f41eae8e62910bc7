package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SoftwareForm campos del formulario de alta/edición. Los numéricos llegan como texto
// y se interpretan de forma tolerante (inválido → valor por defecto o sin contrato).
type SoftwareForm struct {
	Name          string `json:"name" validate:"required,max=200"`
	Version       string `json:"version" validate:"omitempty,max=50"`
	Category      string `json:"category" validate:"required,max=100"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	DepartmentID  string `json:"department_id"`
	CostAmount    string `json:"cost_amount"`
	Currency      string `json:"currency"`
	BillingPeriod string `json:"billing_period"`
	LicenseCount  string `json:"license_count"`
	EndDate       string `json:"end_date"` // YYYY-MM-DD, vacío = sin vencimiento
	NoticeDays    string `json:"notice_days"`
}

// UpdateSoftwareRequest edición: formulario + estado.
type UpdateSoftwareRequest struct {
	SoftwareForm
	Status string `json:"status" validate:"omitempty,oneof=active inactive deprecated"`
}

// ContractResponse datos económicos del software.
type ContractResponse struct {
	ID            string          `json:"id"`
	CostAmount    decimal.Decimal `json:"cost_amount"`
	Currency      string          `json:"currency"`
	BillingPeriod string          `json:"billing_period"`
	LicenseCount  int             `json:"license_count"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	NoticeDays    int             `json:"notice_days"`
	AnnualCost    decimal.Decimal `json:"annual_cost"`
	MonthlyCost   decimal.Decimal `json:"monthly_cost"`
}

// SoftwareResponse software unido con contrato, reseñas y uso.
// AverageRating nulo = sin reseñas ("Pas d'avis").
type SoftwareResponse struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Version       string            `json:"version,omitempty"`
	Category      string            `json:"category"`
	Description   string            `json:"description,omitempty"`
	Status        string            `json:"status"`
	DepartmentID  string            `json:"department_id,omitempty"`
	Contract      *ContractResponse `json:"contract,omitempty"`
	AverageRating *float64          `json:"average_rating"`
	ReviewCount   int               `json:"review_count"`
	UserCount     int               `json:"user_count"`
	CreatedAt     time.Time         `json:"created_at"`
}

// CatalogResponse vista del catálogo.
type CatalogResponse struct {
	ViewMeta
	Software   []SoftwareResponse `json:"software"`
	Categories []string           `json:"categories"`
	Total      int                `json:"total"`
}

// ReviewRequest alta o edición de la reseña del usuario.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// ReviewResponse salida de una reseña.
type ReviewResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	SoftwareID string    `json:"software_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SoftwareDetailsResponse ficha de un software.
type SoftwareDetailsResponse struct {
	ViewMeta
	Software        *SoftwareResponse `json:"software"`
	Reviews         []ReviewResponse  `json:"reviews"`
	UserReview      *ReviewResponse   `json:"user_review,omitempty"`
	DaysUntilExpiry *int              `json:"days_until_expiry,omitempty"`
	ExpiringSoon    bool              `json:"expiring_soon"`
	Expired         bool              `json:"expired"`
}
