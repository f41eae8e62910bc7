package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/ports"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/pkg/jwt"
)

// Locals keys para los datos del token en Fiber.
const (
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
	LocalClaims    = "claims"
)

// AuthMiddleware valida el Bearer Token JWT, rechaza los tokens revocados y carga
// UserID, CompanyID, Role y los claims en c.Locals. revoked puede ser nil.
// Si el almacén de revocación falla la petición se rechaza con 503.
func AuthMiddleware(jwtSecret string, revoked ports.TokenStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, code, msg := bearerToken(c, false)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		return authenticate(c, jwtSecret, revoked, tokenString)
	}
}

// OptionalAuth como AuthMiddleware, pero sin token deja pasar la petición como anónima.
// Un token presente e inválido sigue siendo 401.
func OptionalAuth(jwtSecret string, revoked ports.TokenStore) fiber.Handler {
	return optionalAuth(jwtSecret, revoked, false)
}

// StreamAuth como OptionalAuth, y además acepta el token en el query param access_token.
// Solo para rutas SSE: EventSource no permite cabeceras.
func StreamAuth(jwtSecret string, revoked ports.TokenStore) fiber.Handler {
	return optionalAuth(jwtSecret, revoked, true)
}

func optionalAuth(jwtSecret string, revoked ports.TokenStore, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, code, msg := bearerToken(c, allowQuery)
		if tokenString == "" {
			if code == "MISSING_TOKEN" {
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		return authenticate(c, jwtSecret, revoked, tokenString)
	}
}

// bearerToken extrae el token del header Authorization; con allowQuery, sin header,
// también del query param access_token.
func bearerToken(c *fiber.Ctx, allowQuery bool) (token, code, msg string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if q := strings.TrimSpace(c.Query("access_token")); allowQuery && q != "" {
			return q, "", ""
		}
		return "", "MISSING_TOKEN", "Authorization header requerido"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "INVALID_TOKEN", "formato: Bearer <token>"
	}
	token = strings.TrimSpace(parts[1])
	if token == "" {
		return "", "MISSING_TOKEN", "token vacío"
	}
	return token, "", ""
}

func authenticate(c *fiber.Ctx, jwtSecret string, revoked ports.TokenStore, tokenString string) error {
	claims, err := jwt.Parse(jwtSecret, tokenString)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
	}
	if revoked != nil {
		isRevoked, err := revoked.IsRevoked(c.UserContext(), claims.TokenID())
		if err != nil {
			log.Error().Err(err).Msg("auth: almacén de revocación no disponible")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "UNAVAILABLE", Message: "no se pudo verificar el token"})
		}
		if isRevoked {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_REVOKED", Message: "la sesión fue cerrada"})
		}
	}
	c.Locals(LocalUserID, claims.UserID)
	c.Locals(LocalCompanyID, claims.CompanyID)
	c.Locals(LocalRole, claims.Role)
	c.Locals(LocalClaims, claims)
	return c.Next()
}

// RequireRole autoriza solo los roles indicados. Token sin rol → 401 MISSING_ROLE.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para este recurso"})
	}
}

// RequireCompany exige que el token ya lleve empresa (onboarding completado).
func RequireCompany() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetCompanyID(c) == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ONBOARDING_REQUIRED", Message: "completa el onboarding para acceder"})
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string { return localString(c, LocalCompanyID) }

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }

// GetClaims devuelve los claims del token, nil en peticiones anónimas.
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

// ActorFrom construye el actor de los casos de uso a partir del token.
func ActorFrom(c *fiber.Ctx) usecase.Actor {
	return usecase.Actor{UserID: GetUserID(c), CompanyID: GetCompanyID(c), Role: GetRole(c)}
}
