package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/onboarding"
)

// OnboardingHandler pasos del onboarding.
type OnboardingHandler struct {
	uc *onboarding.OnboardingUseCase
}

// NewOnboardingHandler construye el handler.
func NewOnboardingHandler(uc *onboarding.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{uc: uc}
}

// Company godoc
// @Summary      Paso 1: crear la empresa (el usuario pasa a admin)
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OnboardingCompanyRequest  true  "name, domain"
// @Success      201   {object}  dto.OnboardingCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/onboarding/company [post]
func (h *OnboardingHandler) Company(c *fiber.Ctx) error {
	var in dto.OnboardingCompanyRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateCompany(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Software godoc
// @Summary      Paso 2: primer software
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OnboardingSoftwareRequest  true  "name, category"
// @Success      201   {object}  dto.SoftwareResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/onboarding/software [post]
func (h *OnboardingHandler) Software(c *fiber.Ctx) error {
	var in dto.OnboardingSoftwareRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AddSoftware(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Invite godoc
// @Summary      Paso 3: invitaciones y fin del onboarding
// @Tags         onboarding
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OnboardingInviteRequest  true  "emails separados por coma, espacio o salto de línea"
// @Success      200   {object}  dto.OnboardingInviteResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/onboarding/invite [post]
func (h *OnboardingHandler) Invite(c *fiber.Ctx) error {
	var in dto.OnboardingInviteRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Invite(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
