package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/domain"
)

var errInvalidBody = errors.New("cuerpo inválido")

// bindJSON parsea el cuerpo y aplica las etiquetas `validate` del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return dto.Validate(out)
}

// writeError traduce un error de dominio a la respuesta HTTP correspondiente.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", "error interno"

	var verr *dto.ValidationError
	switch {
	case errors.Is(err, errInvalidBody):
		status, code, msg = fiber.StatusBadRequest, "INVALID_BODY", err.Error()
	case errors.As(err, &verr):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", verr.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, code, msg = fiber.StatusBadRequest, "VALIDATION", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, code, msg = fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, domain.ErrOnboardingRequired):
		status, code, msg = fiber.StatusForbidden, "ONBOARDING_REQUIRED", err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, code, msg = fiber.StatusForbidden, "FORBIDDEN", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		status, code, msg = fiber.StatusNotFound, "USER_NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		status, code, msg = fiber.StatusConflict, "EMAIL_EXISTS", err.Error()
	case errors.Is(err, domain.ErrAlreadyOnboarded):
		status, code, msg = fiber.StatusConflict, "ALREADY_ONBOARDED", err.Error()
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		status, code, msg = fiber.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, domain.ErrUnavailable):
		status, code, msg = fiber.StatusServiceUnavailable, "UNAVAILABLE", err.Error()
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("http: error no controlado")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
