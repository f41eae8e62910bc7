// Package onboarding implementa los tres pasos de alta de una empresa:
// empresa, primer software e invitaciones.
package onboarding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/logicielhub-api/internal/application/auth"
	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// OnboardingUseCase pasos del onboarding.
type OnboardingUseCase struct {
	users    repository.UserRepository
	tx       repository.TxRunner
	issuer   auth.TokenIssuer
	notifier usecase.Notifier
	sessions session.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewOnboardingUseCase construye el caso de uso.
func NewOnboardingUseCase(
	users repository.UserRepository,
	tx repository.TxRunner,
	issuer auth.TokenIssuer,
	notifier usecase.Notifier,
	sessions session.Notifier,
	log zerolog.Logger,
) *OnboardingUseCase {
	return &OnboardingUseCase{
		users: users, tx: tx, issuer: issuer, notifier: notifier,
		sessions: sessions, log: log, now: time.Now,
	}
}

// CreateCompany crea la empresa, su departamento "Général" y convierte al usuario en
// administrador, en una sola transacción. Devuelve un token nuevo con company_id.
func (uc *OnboardingUseCase) CreateCompany(ctx context.Context, actor usecase.Actor, in dto.OnboardingCompanyRequest) (*dto.OnboardingCompanyResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrInvalidInput)
	}
	user, err := uc.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.HasCompany() {
		return nil, domain.ErrAlreadyOnboarded
	}

	now := uc.now()
	company := &entity.Company{
		ID:          uuid.New().String(),
		Name:        name,
		Domain:      strings.ToLower(strings.TrimSpace(in.Domain)),
		MultiEntity: false,
		CreatedAt:   now,
	}
	department := &entity.Department{
		ID:        uuid.New().String(),
		Name:      entity.DefaultDepartmentName,
		CompanyID: company.ID,
		CreatedAt: now,
	}
	updated := *user
	updated.CompanyID = company.ID
	updated.DepartmentID = department.ID
	updated.Role = entity.RoleAdmin
	updated.UpdatedAt = now

	err = uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Companies.Create(ctx, company); err != nil {
			return err
		}
		if err := repos.Departments.Create(ctx, department); err != nil {
			return err
		}
		return repos.Users.Update(ctx, &updated)
	})
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", user.ID).Msg("onboarding: alta de empresa revertida")
		return nil, err
	}

	token, err := uc.issuer.IssueToken(&updated)
	if err != nil {
		return nil, fmt.Errorf("onboarding: emitir token: %w", err)
	}
	uc.sessions.Changed(ctx, user.ID)
	uc.log.Info().Str("company_id", company.ID).Str("user_id", user.ID).Msg("empresa creada")
	return &dto.OnboardingCompanyResponse{
		Token:      token,
		Company:    *dto.ToCompanyResponse(company),
		Department: dto.ToDepartmentResponse(department),
		User:       *dto.ToUserResponse(&updated),
	}, nil
}

// AddSoftware registra el primer software de la empresa con el uso activo del usuario.
func (uc *OnboardingUseCase) AddSoftware(ctx context.Context, actor usecase.Actor, in dto.OnboardingSoftwareRequest) (*dto.SoftwareResponse, error) {
	if !actor.HasCompany() {
		return nil, domain.ErrOnboardingRequired
	}
	name, category := strings.TrimSpace(in.Name), strings.TrimSpace(in.Category)
	if name == "" || category == "" {
		return nil, fmt.Errorf("%w: name y category son requeridos", domain.ErrInvalidInput)
	}
	now := uc.now()
	sw := &entity.Software{
		ID: uuid.New().String(), Name: name, Category: category, Status: entity.SoftwareActive,
		CompanyID: actor.CompanyID, CreatedAt: now, UpdatedAt: now,
	}
	usage := &entity.Usage{
		ID: uuid.New().String(), UserID: actor.UserID, SoftwareID: sw.ID,
		Status: entity.UsageActive, LastUsed: &now, CreatedAt: now,
	}
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Software.Create(ctx, sw); err != nil {
			return err
		}
		return repos.Usage.Create(ctx, usage)
	})
	if err != nil {
		return nil, err
	}
	views := aggregation.JoinSoftware([]*entity.Software{sw}, nil, nil, []*entity.Usage{usage})
	out := dto.ToSoftwareResponse(views[0])
	return &out, nil
}

// Invite separa y valida los correos, deja constancia en un aviso "system" para el
// administrador y da por terminado el onboarding. El envío de correos no está incluido.
func (uc *OnboardingUseCase) Invite(ctx context.Context, actor usecase.Actor, in dto.OnboardingInviteRequest) (*dto.OnboardingInviteResponse, error) {
	if !actor.HasCompany() {
		return nil, domain.ErrOnboardingRequired
	}
	invited, invalid := ParseEmails(in.Emails)
	out := &dto.OnboardingInviteResponse{Invited: invited, Invalid: invalid}

	if len(invited) > 0 {
		msg := fmt.Sprintf("Invitations préparées pour : %s", strings.Join(invited, ", "))
		payload := map[string]any{"invited": invited}
		if err := uc.notifier.Notify(ctx, actor.UserID, entity.NotificationSystem, "Invitations", msg, payload); err != nil {
			uc.log.Warn().Err(err).Str("user_id", actor.UserID).Msg("onboarding: aviso de invitaciones no registrado")
		}
	}

	snap := uc.sessions.Changed(ctx, actor.UserID)
	out.Session = string(snap.State)
	uc.log.Info().Str("company_id", actor.CompanyID).Int("invitados", len(invited)).Int("invalidos", len(invalid)).Msg("onboarding completado")
	return out, nil
}

// ParseEmails separa por coma, punto y coma, espacios o saltos de línea; normaliza a
// minúsculas y elimina duplicados conservando el orden.
func ParseEmails(raw string) (valid, invalid []string) {
	valid, invalid = []string{}, []string{}
	seen := make(map[string]struct{})
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\n', '\r', '\t':
			return true
		}
		return false
	})
	for _, f := range fields {
		email := strings.ToLower(f)
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		if dto.IsEmail(email) {
			valid = append(valid, email)
		} else {
			invalid = append(invalid, f)
		}
	}
	return valid, invalid
}
