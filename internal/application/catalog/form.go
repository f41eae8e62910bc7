package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// contractTerms campos económicos interpretados del formulario.
type contractTerms struct {
	Cost          decimal.Decimal
	Currency      string
	BillingPeriod string
	LicenseCount  int
	EndDate       *time.Time
	NoticeDays    int
}

// parseContractTerms interpreta los campos de texto sin rechazar el formulario:
// coste inválido o no positivo → ok=false (sin contrato); licencias inválidas → 1;
// preaviso inválido → 30; periodo desconocido → yearly; moneda vacía → EUR.
func parseContractTerms(f dto.SoftwareForm) (contractTerms, bool) {
	cost, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(f.CostAmount), ",", "."))
	if err != nil || !cost.IsPositive() {
		return contractTerms{}, false
	}
	terms := contractTerms{
		Cost:          cost.Round(2),
		Currency:      entity.DefaultCurrency,
		BillingPeriod: entity.BillingYearly,
		LicenseCount:  parsePositiveInt(f.LicenseCount, entity.DefaultLicenseCount),
		NoticeDays:    parsePositiveInt(f.NoticeDays, entity.DefaultNoticeDays),
		EndDate:       parseDate(f.EndDate),
	}
	if entity.ValidBillingPeriod(f.BillingPeriod) {
		terms.BillingPeriod = f.BillingPeriod
	}
	if c := strings.ToUpper(strings.TrimSpace(f.Currency)); len(c) == 3 {
		terms.Currency = c
	}
	return terms, true
}

func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// apply vuelca los términos sobre un contrato nuevo o existente.
func (t contractTerms) apply(c *entity.Contract) {
	c.CostAmount = t.Cost
	c.Currency = t.Currency
	c.BillingPeriod = t.BillingPeriod
	c.LicenseCount = t.LicenseCount
	c.EndDate = t.EndDate
	c.NoticeDays = t.NoticeDays
}
