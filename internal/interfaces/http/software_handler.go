package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/logicielhub-api/internal/application/catalog"
	"github.com/jhoicas/logicielhub-api/internal/application/dto"
)

// SoftwareHandler catálogo de software, ficha y reseñas.
type SoftwareHandler struct {
	uc *catalog.CatalogUseCase
}

// NewSoftwareHandler construye el handler.
func NewSoftwareHandler(uc *catalog.CatalogUseCase) *SoftwareHandler {
	return &SoftwareHandler{uc: uc}
}

// List godoc
// @Summary      Catálogo de software
// @Tags         software
// @Security     BearerAuth
// @Produce      json
// @Param        q         query  string  false  "Texto en nombre o categoría"
// @Param        category  query  string  false  "Categoría (all = todas)"
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/software [get]
func (h *SoftwareHandler) List(c *fiber.Ctx) error {
	out := h.uc.List(c.UserContext(), GetCompanyID(c), c.Query("q"), c.Query("category"))
	observeDegraded("catalog", out.Degraded)
	return c.JSON(out)
}

// Create godoc
// @Summary      Alta de software (contrato opcional)
// @Tags         software
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SoftwareForm  true  "Formulario"
// @Success      201   {object}  dto.SoftwareResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/software [post]
func (h *SoftwareHandler) Create(c *fiber.Ctx) error {
	var in dto.SoftwareForm
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateSoftware(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Ficha de un software
// @Tags         software
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del software"
// @Success      200  {object}  dto.SoftwareDetailsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/software/{id} [get]
func (h *SoftwareHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Details(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	observeDegraded("software_details", out.Degraded)
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar software y su contrato
// @Tags         software
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del software"
// @Param        body  body  dto.UpdateSoftwareRequest  true  "Formulario"
// @Success      200   {object}  dto.SoftwareResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/software/{id} [put]
func (h *SoftwareHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSoftwareRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateSoftware(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SaveReview godoc
// @Summary      Crear o reemplazar la reseña propia
// @Tags         software
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del software"
// @Param        body  body  dto.ReviewRequest  true  "rating 1-5, comment"
// @Success      200   {object}  dto.ReviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/software/{id}/review [put]
func (h *SoftwareHandler) SaveReview(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.SaveReview(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
