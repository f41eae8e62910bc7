package aggregation_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

func sw(id, name, category string) *entity.Software {
	return &entity.Software{ID: id, Name: name, Category: category, Status: entity.SoftwareActive}
}

func contract(id, softwareID string, amount float64, period string, end *time.Time) *entity.Contract {
	return &entity.Contract{
		ID:            id,
		SoftwareID:    softwareID,
		CostAmount:    decimal.NewFromFloat(amount),
		Currency:      entity.DefaultCurrency,
		BillingPeriod: period,
		LicenseCount:  1,
		EndDate:       end,
	}
}

func review(softwareID, userID string, rating int) *entity.Review {
	return &entity.Review{ID: softwareID + userID, SoftwareID: softwareID, UserID: userID, Rating: rating}
}

func usage(softwareID, userID, status string) *entity.Usage {
	return &entity.Usage{ID: softwareID + userID, SoftwareID: softwareID, UserID: userID, Status: status}
}

func at(t time.Time) *time.Time { return &t }
