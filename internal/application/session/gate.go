// Package session resuelve el estado de sesión de un usuario (login / onboarding)
// y difunde sus cambios a los suscriptores (stream SSE).
package session

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// State estado de la máquina de sesión.
type State string

const (
	StateLoading           State = "loading"
	StateAnonymous         State = "anonymous"
	StatePendingOnboarding State = "pending_onboarding"
	StateOnboarded         State = "onboarded"
)

// Snapshot foto del estado de sesión en un instante.
type Snapshot struct {
	State   State
	User    *entity.User
	Company *entity.Company
	At      time.Time
}

// Gate decide el estado de sesión a partir de la base de datos.
// No existe marcador "onboarding completo": la empresa del usuario es la única señal.
type Gate struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewGate construye el gate.
func NewGate(users repository.UserRepository, companies repository.CompanyRepository, log zerolog.Logger) *Gate {
	return &Gate{users: users, companies: companies, log: log, now: time.Now}
}

// Resolve sin usuario o usuario inexistente → anonymous; sin empresa → pending_onboarding;
// con empresa existente → onboarded. Los errores de lectura se registran y llevan a pending_onboarding.
func (g *Gate) Resolve(ctx context.Context, userID string) Snapshot {
	snap := Snapshot{State: StateAnonymous, At: g.now()}
	if userID == "" {
		return snap
	}

	user, err := g.users.GetByID(ctx, userID)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", userID).Msg("sesión: error leyendo usuario")
		snap.State = StatePendingOnboarding
		return snap
	}
	if user == nil {
		return snap
	}
	snap.User = user
	snap.State = StatePendingOnboarding
	if !user.HasCompany() {
		return snap
	}

	company, err := g.companies.GetByID(ctx, user.CompanyID)
	if err != nil {
		g.log.Error().Err(err).Str("user_id", userID).Str("company_id", user.CompanyID).Msg("sesión: error leyendo empresa")
		return snap
	}
	if company == nil {
		return snap
	}
	snap.Company = company
	snap.State = StateOnboarded
	return snap
}
