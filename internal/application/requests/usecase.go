// Package requests gestiona las solicitudes de nuevas herramientas y sus votos.
package requests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/aggregation"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/domain/repository"
)

// RequestUseCase casos de uso de solicitudes.
type RequestUseCase struct {
	requests repository.SoftwareRequestRepository
	votes    repository.VoteRepository
	users    repository.UserRepository
	tx       repository.TxRunner
	notifier usecase.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewRequestUseCase construye el caso de uso.
func NewRequestUseCase(
	requests repository.SoftwareRequestRepository,
	votes repository.VoteRepository,
	users repository.UserRepository,
	tx repository.TxRunner,
	notifier usecase.Notifier,
	log zerolog.Logger,
) *RequestUseCase {
	return &RequestUseCase{
		requests: requests, votes: votes, users: users, tx: tx,
		notifier: notifier, log: log, now: time.Now,
	}
}

// List solicitudes de la empresa (más recientes primero) con votos recalculados.
func (uc *RequestUseCase) List(ctx context.Context, actor usecase.Actor) *dto.RequestListResponse {
	requests, err := uc.requests.ListByCompany(ctx, actor.CompanyID, usecase.ListLimit)
	if err != nil {
		return uc.degraded(err, actor.CompanyID, "solicitudes")
	}
	votes, err := uc.votes.ListByCompany(ctx, actor.CompanyID)
	if err != nil {
		return uc.degraded(err, actor.CompanyID, "votos")
	}
	members, err := uc.users.ListByCompany(ctx, actor.CompanyID, usecase.ListLimit)
	if err != nil {
		// Sin nombres la vista sigue siendo útil.
		uc.log.Warn().Err(err).Str("company_id", actor.CompanyID).Msg("solicitudes: miembros no disponibles")
	}
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
	}

	out := &dto.RequestListResponse{
		Requests: make([]dto.RequestResponse, 0, len(requests)),
		Pending:  aggregation.PendingRequests(requests),
	}
	for _, r := range requests {
		tally := aggregation.TallyVotes(r.ID, actor.UserID, votes)
		out.Requests = append(out.Requests, dto.ToRequestResponse(r, tally, names[r.RequesterID]))
	}
	return out
}

func (uc *RequestUseCase) degraded(err error, companyID, what string) *dto.RequestListResponse {
	uc.log.Error().Err(err).Str("company_id", companyID).Msgf("solicitudes: error cargando %s", what)
	return &dto.RequestListResponse{ViewMeta: dto.ViewMeta{Degraded: true}, Requests: []dto.RequestResponse{}}
}

// Create registra una solicitud enviada y avisa a los administradores.
func (uc *RequestUseCase) Create(ctx context.Context, actor usecase.Actor, in dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	if !actor.HasCompany() {
		return nil, domain.ErrOnboardingRequired
	}
	name, description := strings.TrimSpace(in.SoftwareName), strings.TrimSpace(in.Description)
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: software_name y description son requeridos", domain.ErrInvalidInput)
	}
	urgency := in.Urgency
	if !entity.ValidUrgency(urgency) {
		urgency = entity.UrgencyShortTerm
	}
	now := uc.now()
	req := &entity.SoftwareRequest{
		ID:              uuid.New().String(),
		SoftwareName:    name,
		Description:     description,
		Urgency:         urgency,
		EstimatedBudget: parseBudget(in.EstimatedBudget),
		Status:          entity.RequestSubmitted,
		RequesterID:     actor.UserID,
		DepartmentID:    in.DepartmentID,
		CompanyID:       actor.CompanyID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	sent := uc.notifier.NotifyAdmins(ctx, actor.CompanyID, entity.NotificationNewRequest,
		"Nouvelle demande de logiciel",
		fmt.Sprintf("Une demande pour %s a été soumise.", name),
		map[string]any{"request_id": req.ID, "requester_id": actor.UserID})
	uc.log.Info().Str("request_id", req.ID).Int("admins_notificados", sent).Msg("solicitud creada")

	out := dto.ToRequestResponse(req, aggregation.VoteTally{}, "")
	return &out, nil
}

// parseBudget presupuesto opcional; inválido o negativo → ausente.
func parseBudget(s string) *decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return nil
	}
	d = d.Round(2)
	return &d
}

// ToggleVote elimina el voto del actor si existe, si no lo crea; recalcula y persiste voteCount.
// Todo ocurre en una transacción; la unicidad (request_id, voter_id) la garantiza la base.
func (uc *RequestUseCase) ToggleVote(ctx context.Context, actor usecase.Actor, requestID string) (*dto.VoteResponse, error) {
	out := &dto.VoteResponse{RequestID: requestID}
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		req, err := repos.Requests.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil || req.CompanyID != actor.CompanyID {
			return domain.ErrNotFound
		}
		votes, err := repos.Votes.ListByRequest(ctx, requestID)
		if err != nil {
			return err
		}
		tally := aggregation.TallyVotes(requestID, actor.UserID, votes)
		if tally.UserVote != nil {
			if err := repos.Votes.Delete(ctx, tally.UserVote.ID); err != nil {
				return err
			}
		} else {
			vote := &entity.Vote{ID: uuid.New().String(), RequestID: requestID, VoterID: actor.UserID, CreatedAt: uc.now()}
			if _, err := repos.Votes.Create(ctx, vote); err != nil {
				return err
			}
		}

		votes, err = repos.Votes.ListByRequest(ctx, requestID)
		if err != nil {
			return err
		}
		tally = aggregation.TallyVotes(requestID, actor.UserID, votes)
		out.Voted = tally.UserHasVoted
		out.VoteCount = tally.Count
		return repos.Requests.SetVoteCount(ctx, requestID, tally.Count)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus decisión de un administrador; avisa al solicitante si se aprueba o rechaza.
func (uc *RequestUseCase) SetStatus(ctx context.Context, actor usecase.Actor, requestID string, in dto.UpdateRequestStatusRequest) (*dto.RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if !entity.IsDecisionStatus(in.Status) {
		return nil, fmt.Errorf("%w: status %q no permitido", domain.ErrInvalidInput, in.Status)
	}
	req, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil || req.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	if err := uc.requests.UpdateStatus(ctx, requestID, in.Status); err != nil {
		return nil, err
	}
	req.Status = in.Status
	req.UpdatedAt = uc.now()

	if kind, title, msg, ok := decisionNotice(req); ok {
		payload := map[string]any{"request_id": req.ID, "status": req.Status}
		if err := uc.notifier.Notify(ctx, req.RequesterID, kind, title, msg, payload); err != nil {
			uc.log.Warn().Err(err).Str("request_id", req.ID).Msg("solicitudes: aviso de decisión no enviado")
		}
	}

	votes, err := uc.votes.ListByRequest(ctx, requestID)
	if err != nil {
		uc.log.Warn().Err(err).Str("request_id", req.ID).Msg("solicitudes: votos no disponibles")
	}
	out := dto.ToRequestResponse(req, aggregation.TallyVotes(req.ID, actor.UserID, votes), "")
	return &out, nil
}

func decisionNotice(r *entity.SoftwareRequest) (kind, title, msg string, ok bool) {
	switch r.Status {
	case entity.RequestApproved:
		return entity.NotificationRequestApproved, "Demande approuvée",
			fmt.Sprintf("Votre demande pour %s a été approuvée.", r.SoftwareName), true
	case entity.RequestRejected:
		return entity.NotificationRequestRejected, "Demande refusée",
			fmt.Sprintf("Votre demande pour %s a été refusée.", r.SoftwareName), true
	}
	return "", "", "", false
}
