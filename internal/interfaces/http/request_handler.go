package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/requests"
)

// RequestHandler solicitudes de software y votos.
type RequestHandler struct {
	uc *requests.RequestUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *requests.RequestUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// List godoc
// @Summary      Solicitudes de la empresa
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.RequestListResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	out := h.uc.List(c.UserContext(), ActorFrom(c))
	observeDegraded("requests", out.Degraded)
	return c.JSON(out)
}

// Create godoc
// @Summary      Nueva solicitud
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "Solicitud"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Vote godoc
// @Summary      Votar / retirar el voto
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.VoteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/vote [post]
func (h *RequestHandler) Vote(c *fiber.Ctx) error {
	out, err := h.uc.ToggleVote(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStatus godoc
// @Summary      Decisión sobre una solicitud (admin)
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la solicitud"
// @Param        body  body  dto.UpdateRequestStatusRequest  true  "in_review, approved o rejected"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/status [patch]
func (h *RequestHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.UpdateRequestStatusRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SetStatus(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
