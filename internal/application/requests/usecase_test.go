package requests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/memstore"
)

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	admin  = usecase.Actor{UserID: "u-ana", CompanyID: "co-1", Role: entity.RoleAdmin}
	member = usecase.Actor{UserID: "u-leo", CompanyID: "co-1", Role: entity.RoleUser}
	other  = usecase.Actor{UserID: "u-bob", CompanyID: "co-2", Role: entity.RoleAdmin}
)

func newRequests(t *testing.T) (*RequestUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	repos := store.Repos()
	ctx := context.Background()
	for _, u := range []*entity.User{
		{ID: "u-ana", Email: "ana@acme.fr", DisplayName: "Ana", Role: entity.RoleAdmin, CompanyID: "co-1", CreatedAt: now},
		{ID: "u-leo", Email: "leo@acme.fr", DisplayName: "Léo", Role: entity.RoleUser, CompanyID: "co-1", CreatedAt: now},
		{ID: "u-bob", Email: "bob@globex.fr", DisplayName: "Bob", Role: entity.RoleAdmin, CompanyID: "co-2", CreatedAt: now},
	} {
		require.NoError(t, repos.Users.Create(ctx, u))
	}
	notifications := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, zerolog.Nop())
	uc := NewRequestUseCase(repos.Requests, repos.Votes, repos.Users, store, notifications, zerolog.Nop())
	uc.now = func() time.Time { return now }
	return uc, store
}

func inbox(t *testing.T, store *memstore.Store, userID string) []*entity.Notification {
	t.Helper()
	list, err := store.Repos().Notifications.ListByUser(context.Background(), userID, false, 0)
	require.NoError(t, err)
	return list
}

func TestCreate_ValoresPorDefectoYAvisoAdmins(t *testing.T) {
	uc, store := newRequests(t)
	out, err := uc.Create(context.Background(), member, dto.CreateRequestRequest{
		SoftwareName: "Figma", Description: "Maquettes", EstimatedBudget: "n/a",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UrgencyShortTerm, out.Urgency)
	assert.Equal(t, entity.RequestSubmitted, out.Status)
	assert.Nil(t, out.EstimatedBudget)
	assert.Zero(t, out.VoteCount)

	notes := inbox(t, store, "u-ana")
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationNewRequest, notes[0].Type)
	assert.Empty(t, inbox(t, store, "u-leo"), "solo los administradores reciben el aviso")
	assert.Empty(t, inbox(t, store, "u-bob"))
}

func TestCreate_Presupuesto(t *testing.T) {
	uc, _ := newRequests(t)
	out, err := uc.Create(context.Background(), member, dto.CreateRequestRequest{
		SoftwareName: "Figma", Description: "Maquettes", Urgency: entity.UrgencyImmediate, EstimatedBudget: "1200,50",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.UrgencyImmediate, out.Urgency)
	require.NotNil(t, out.EstimatedBudget)
	assert.True(t, decimal.RequireFromString("1200.5").Equal(*out.EstimatedBudget))
}

func TestCreate_CamposRequeridos(t *testing.T) {
	uc, _ := newRequests(t)
	_, err := uc.Create(context.Background(), member, dto.CreateRequestRequest{SoftwareName: "Figma"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestToggleVote_Idempotente(t *testing.T) {
	uc, store := newRequests(t)
	ctx := context.Background()
	req, err := uc.Create(ctx, member, dto.CreateRequestRequest{SoftwareName: "Figma", Description: "Maquettes"})
	require.NoError(t, err)

	v, err := uc.ToggleVote(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.True(t, v.Voted)
	assert.Equal(t, 1, v.VoteCount)

	v, err = uc.ToggleVote(ctx, admin, req.ID)
	require.NoError(t, err)
	assert.False(t, v.Voted)
	assert.Equal(t, 0, v.VoteCount, "dos toggles devuelven el conteo original")

	stored, err := store.Repos().Requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.VoteCount)
}

func TestToggleVote_OtraEmpresa(t *testing.T) {
	uc, _ := newRequests(t)
	req, err := uc.Create(context.Background(), member, dto.CreateRequestRequest{SoftwareName: "Figma", Description: "Maquettes"})
	require.NoError(t, err)

	_, err = uc.ToggleVote(context.Background(), other, req.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleVote_FalloReviertaVoto(t *testing.T) {
	uc, store := newRequests(t)
	ctx := context.Background()
	req, err := uc.Create(ctx, member, dto.CreateRequestRequest{SoftwareName: "Figma", Description: "Maquettes"})
	require.NoError(t, err)
	store.FailOn["requests.set_vote_count"] = errors.New("timeout")

	_, err = uc.ToggleVote(ctx, admin, req.ID)
	require.Error(t, err)

	votes, err := store.Repos().Votes.ListByRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, votes, "el voto no queda sin su conteo")
}

func TestList_VotosYSolicitante(t *testing.T) {
	uc, _ := newRequests(t)
	ctx := context.Background()
	uc.now = func() time.Time { return now }
	first, err := uc.Create(ctx, member, dto.CreateRequestRequest{SoftwareName: "Figma", Description: "Maquettes"})
	require.NoError(t, err)
	uc.now = func() time.Time { return now.Add(time.Hour) }
	_, err = uc.Create(ctx, admin, dto.CreateRequestRequest{SoftwareName: "Miro", Description: "Ateliers"})
	require.NoError(t, err)
	_, err = uc.ToggleVote(ctx, member, first.ID)
	require.NoError(t, err)

	view := uc.List(ctx, member)
	assert.False(t, view.Degraded)
	assert.Equal(t, 2, view.Pending)
	require.Len(t, view.Requests, 2)
	assert.Equal(t, "Miro", view.Requests[0].SoftwareName, "más recientes primero")
	assert.Equal(t, "Figma", view.Requests[1].SoftwareName)
	assert.Equal(t, "Léo", view.Requests[1].RequesterName)
	assert.Equal(t, 1, view.Requests[1].VoteCount)
	assert.True(t, view.Requests[1].UserHasVoted)
	assert.False(t, view.Requests[0].UserHasVoted)

	assert.Empty(t, uc.List(ctx, other).Requests)
}

func TestList_Degradada(t *testing.T) {
	uc, store := newRequests(t)
	store.ListErr = errors.New("sin conexión")
	view := uc.List(context.Background(), member)
	assert.True(t, view.Degraded)
	assert.NotNil(t, view.Requests)
}

func TestSetStatus_AvisaAlSolicitante(t *testing.T) {
	uc, store := newRequests(t)
	ctx := context.Background()
	req, err := uc.Create(ctx, member, dto.CreateRequestRequest{SoftwareName: "Figma", Description: "Maquettes"})
	require.NoError(t, err)

	_, err = uc.SetStatus(ctx, member, req.ID, dto.UpdateRequestStatusRequest{Status: entity.RequestApproved})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.SetStatus(ctx, other, req.ID, dto.UpdateRequestStatusRequest{Status: entity.RequestApproved})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.SetStatus(ctx, admin, req.ID, dto.UpdateRequestStatusRequest{Status: entity.RequestDraft})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.SetStatus(ctx, admin, req.ID, dto.UpdateRequestStatusRequest{Status: entity.RequestInReview})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestInReview, out.Status)
	assert.Empty(t, inbox(t, store, "u-leo"), "en revisión no genera aviso")

	out, err = uc.SetStatus(ctx, admin, req.ID, dto.UpdateRequestStatusRequest{Status: entity.RequestApproved})
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, out.Status)
	notes := inbox(t, store, "u-leo")
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationRequestApproved, notes[0].Type)
}
