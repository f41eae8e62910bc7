package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Urgencias declaradas por el solicitante.
const (
	UrgencyImmediate = "immediate"
	UrgencyShortTerm = "short_term"
	UrgencyLongTerm  = "long_term"
)

// Estados de una solicitud.
const (
	RequestDraft     = "draft"
	RequestSubmitted = "submitted"
	RequestInReview  = "in_review"
	RequestApproved  = "approved"
	RequestRejected  = "rejected"
)

// SoftwareRequest solicitud de una nueva herramienta.
// VoteCount es derivado: se recalcula a partir de los votos.
type SoftwareRequest struct {
	ID              string
	SoftwareName    string
	Description     string
	Urgency         string
	EstimatedBudget *decimal.Decimal
	Status          string
	RequesterID     string
	DepartmentID    string
	CompanyID       string
	VoteCount       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Vote apoyo de un usuario a una solicitud (único por par solicitud/votante).
type Vote struct {
	ID        string
	RequestID string
	VoterID   string
	CreatedAt time.Time
}

// ValidUrgency indica si u es una urgencia conocida.
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyImmediate, UrgencyShortTerm, UrgencyLongTerm:
		return true
	}
	return false
}

// IsDecisionStatus estados que un administrador puede asignar.
func IsDecisionStatus(s string) bool {
	switch s {
	case RequestInReview, RequestApproved, RequestRejected:
		return true
	}
	return false
}
