package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Periodos de facturación.
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
	BillingOneTime = "one-time"
)

// Valores por defecto del formulario de contrato.
const (
	DefaultCurrency     = "EUR"
	DefaultLicenseCount = 1
	DefaultNoticeDays   = 30
)

// Contract datos económicos de un software (1-1 por convención).
// CostAmount nunca es negativo.
type Contract struct {
	ID            string
	SoftwareID    string
	CostAmount    decimal.Decimal
	Currency      string
	BillingPeriod string
	LicenseCount  int
	StartDate     time.Time
	EndDate       *time.Time // nil = sin vencimiento
	NoticeDays    int
	CreatedAt     time.Time
}

// ValidBillingPeriod indica si p es un periodo conocido.
func ValidBillingPeriod(p string) bool {
	switch p {
	case BillingMonthly, BillingYearly, BillingOneTime:
		return true
	}
	return false
}
