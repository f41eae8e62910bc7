package ports

import (
	"context"
	"time"
)

// TokenStore define el puerto de salida para la lista de tokens revocados (logout).
// Los adaptadores (Redis, memoria) deben descartar cada entrada pasado su TTL,
// que coincide con la vida restante del JWT.
type TokenStore interface {
	// Revoke marca el jti como revocado durante ttl.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	// IsRevoked informa si el jti fue revocado y sigue vigente en la lista.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
