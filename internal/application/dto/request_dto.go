package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRequestRequest formulario de solicitud de software.
type CreateRequestRequest struct {
	SoftwareName    string `json:"software_name" validate:"required,max=200"`
	Description     string `json:"description" validate:"required,max=2000"`
	Urgency         string `json:"urgency" validate:"omitempty,oneof=immediate short_term long_term"`
	EstimatedBudget string `json:"estimated_budget"`
	DepartmentID    string `json:"department_id"`
}

// UpdateRequestStatusRequest decisión del administrador.
type UpdateRequestStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_review approved rejected"`
}

// RequestResponse solicitud con votos recalculados.
type RequestResponse struct {
	ID              string           `json:"id"`
	SoftwareName    string           `json:"software_name"`
	Description     string           `json:"description"`
	Urgency         string           `json:"urgency"`
	EstimatedBudget *decimal.Decimal `json:"estimated_budget,omitempty"`
	Status          string           `json:"status"`
	RequesterID     string           `json:"requester_id"`
	RequesterName   string           `json:"requester_name,omitempty"`
	DepartmentID    string           `json:"department_id,omitempty"`
	VoteCount       int              `json:"vote_count"`
	UserHasVoted    bool             `json:"user_has_voted"`
	CreatedAt       time.Time        `json:"created_at"`
}

// RequestListResponse vista de solicitudes.
type RequestListResponse struct {
	ViewMeta
	Requests []RequestResponse `json:"requests"`
	Pending  int               `json:"pending"`
}

// VoteResponse resultado del toggle de voto.
type VoteResponse struct {
	RequestID string `json:"request_id"`
	Voted     bool   `json:"voted"`
	VoteCount int    `json:"vote_count"`
}
