package dto

import (
	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
)

// ToUserResponse mapea un usuario sin exponer el hash de password.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		Role:         u.Role,
		CompanyID:    u.CompanyID,
		DepartmentID: u.DepartmentID,
		CreatedAt:    u.CreatedAt,
	}
}

// ToCompanyResponse mapea una empresa.
func ToCompanyResponse(c *entity.Company) *CompanyResponse {
	if c == nil {
		return nil
	}
	return &CompanyResponse{ID: c.ID, Name: c.Name, Domain: c.Domain, MultiEntity: c.MultiEntity, CreatedAt: c.CreatedAt}
}

// ToDepartmentResponse mapea un departamento.
func ToDepartmentResponse(d *entity.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, CompanyID: d.CompanyID, CreatedAt: d.CreatedAt}
}

// ToContractResponse incluye los equivalentes anual y mensual.
func ToContractResponse(c *entity.Contract) *ContractResponse {
	if c == nil {
		return nil
	}
	return &ContractResponse{
		ID:            c.ID,
		CostAmount:    c.CostAmount,
		Currency:      c.Currency,
		BillingPeriod: c.BillingPeriod,
		LicenseCount:  c.LicenseCount,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		NoticeDays:    c.NoticeDays,
		AnnualCost:    aggregation.Annualize(c),
		MonthlyCost:   aggregation.MonthlyEquivalent(c),
	}
}

// ToSoftwareResponse mapea la vista unida de un software.
func ToSoftwareResponse(v aggregation.SoftwareView) SoftwareResponse {
	sw := v.Software
	return SoftwareResponse{
		ID:            sw.ID,
		Name:          sw.Name,
		Version:       sw.Version,
		Category:      sw.Category,
		Description:   sw.Description,
		Status:        sw.Status,
		DepartmentID:  sw.DepartmentID,
		Contract:      ToContractResponse(v.Contract),
		AverageRating: v.AverageRating,
		ReviewCount:   v.ReviewCount,
		UserCount:     v.UserCount,
		CreatedAt:     sw.CreatedAt,
	}
}

// ToSoftwareList mapea una lista de vistas (nunca devuelve nil).
func ToSoftwareList(views []aggregation.SoftwareView) []SoftwareResponse {
	out := make([]SoftwareResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToSoftwareResponse(v))
	}
	return out
}

// ToReviewResponse mapea una reseña.
func ToReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		SoftwareID: r.SoftwareID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// ToRequestResponse mapea una solicitud con su recuento de votos.
func ToRequestResponse(r *entity.SoftwareRequest, tally aggregation.VoteTally, requesterName string) RequestResponse {
	return RequestResponse{
		ID:              r.ID,
		SoftwareName:    r.SoftwareName,
		Description:     r.Description,
		Urgency:         r.Urgency,
		EstimatedBudget: r.EstimatedBudget,
		Status:          r.Status,
		RequesterID:     r.RequesterID,
		RequesterName:   requesterName,
		DepartmentID:    r.DepartmentID,
		VoteCount:       tally.Count,
		UserHasVoted:    tally.UserHasVoted,
		CreatedAt:       r.CreatedAt,
	}
}

// ToNotificationResponse mapea un aviso.
func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Payload:   n.Payload,
		Read:      n.ReadAt != nil,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
