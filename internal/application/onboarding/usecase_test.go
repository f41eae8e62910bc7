package onboarding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/logicielhub-api/internal/application/auth"
	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/domain"
	"github.com/jhoicas/logicielhub-api/internal/domain/entity"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/memstore"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/tokenstore"
	pkgjwt "github.com/jhoicas/logicielhub-api/pkg/jwt"
)

const testSecret = "onboarding-test-secret"

var now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	uc    *OnboardingUseCase
	store *memstore.Store
	hub   *session.Hub
}

func newEnv(t *testing.T) env {
	t.Helper()
	store := memstore.New()
	repos := store.Repos()
	require.NoError(t, repos.Users.Create(context.Background(), &entity.User{
		ID: "u-ana", Email: "ana@acme.fr", DisplayName: "Ana", Role: entity.RoleUser, CreatedAt: now,
	}))
	hub := session.NewHub(session.NewGate(repos.Users, repos.Companies, zerolog.Nop()), zerolog.Nop())
	t.Cleanup(hub.Close)
	authUC := auth.NewAuthUseCase(repos.Users, tokenstore.NewMemoryStore(), hub,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "hub-test"}, zerolog.Nop())
	notifications := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, zerolog.Nop())
	uc := NewOnboardingUseCase(repos.Users, store, authUC, notifications, hub, zerolog.Nop())
	uc.now = func() time.Time { return now }
	return env{uc: uc, store: store, hub: hub}
}

var pending = usecase.Actor{UserID: "u-ana", Role: entity.RoleUser}

func TestCreateCompany_TransaccionCompleta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	out, err := e.uc.CreateCompany(ctx, pending, dto.OnboardingCompanyRequest{Name: " Acme ", Domain: "Acme.FR"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", out.Company.Name)
	assert.Equal(t, "acme.fr", out.Company.Domain)
	assert.False(t, out.Company.MultiEntity)
	assert.Equal(t, entity.DefaultDepartmentName, out.Department.Name)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Company.ID, claims.CompanyID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)

	user, err := e.store.Repos().Users.GetByID(ctx, "u-ana")
	require.NoError(t, err)
	assert.Equal(t, out.Company.ID, user.CompanyID)
	assert.Equal(t, out.Department.ID, user.DepartmentID)

	_, err = e.uc.CreateCompany(ctx, pending, dto.OnboardingCompanyRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrAlreadyOnboarded)
}

func TestCreateCompany_DifundeElNuevoEstado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	stream, stop := e.hub.Subscribe(ctx, "u-ana")
	defer stop()
	assert.Equal(t, session.StateLoading, (<-stream).State)
	assert.Equal(t, session.StatePendingOnboarding, (<-stream).State)

	co, err := e.uc.CreateCompany(ctx, pending, dto.OnboardingCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	select {
	case snap := <-stream:
		assert.Equal(t, session.StateOnboarded, snap.State)
		require.NotNil(t, snap.Company)
		assert.Equal(t, co.Company.ID, snap.Company.ID)
	case <-time.After(time.Second):
		t.Fatal("se esperaba onboarded tras crear la empresa")
	}
}

func TestCreateCompany_FalloNoDejaEmpresaHuerfana(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.store.FailOn["users.update"] = errors.New("conexión cerrada")

	_, err := e.uc.CreateCompany(ctx, pending, dto.OnboardingCompanyRequest{Name: "Acme"})
	require.Error(t, err)

	companies, err := e.store.Repos().Companies.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, companies)
	user, err := e.store.Repos().Users.GetByID(ctx, "u-ana")
	require.NoError(t, err)
	assert.False(t, user.HasCompany())
}

func TestCreateCompany_UsuarioDesconocido(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.CreateCompany(context.Background(), usecase.Actor{UserID: "nadie"}, dto.OnboardingCompanyRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAddSoftware(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.uc.AddSoftware(ctx, pending, dto.OnboardingSoftwareRequest{Name: "Slack", Category: "Communication"})
	assert.ErrorIs(t, err, domain.ErrOnboardingRequired)

	co, err := e.uc.CreateCompany(ctx, pending, dto.OnboardingCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	admin := usecase.Actor{UserID: "u-ana", CompanyID: co.Company.ID, Role: entity.RoleAdmin}

	sw, err := e.uc.AddSoftware(ctx, admin, dto.OnboardingSoftwareRequest{Name: "Slack", Category: "Communication"})
	require.NoError(t, err)
	assert.Equal(t, 1, sw.UserCount)
	assert.Nil(t, sw.Contract)
	assert.Nil(t, sw.AverageRating)
}

func TestParseEmails(t *testing.T) {
	valid, invalid := ParseEmails("leo@acme.fr, MIA@acme.fr;\nnot-an-email  leo@acme.fr\tzoe@acme.fr")
	assert.Equal(t, []string{"leo@acme.fr", "mia@acme.fr", "zoe@acme.fr"}, valid)
	assert.Equal(t, []string{"not-an-email"}, invalid)

	valid, invalid = ParseEmails("   ")
	assert.Empty(t, valid)
	assert.NotNil(t, valid)
	assert.Empty(t, invalid)
}

func TestInvite_CompletaElOnboarding(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	co, err := e.uc.CreateCompany(ctx, pending, dto.OnboardingCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	admin := usecase.Actor{UserID: "u-ana", CompanyID: co.Company.ID, Role: entity.RoleAdmin}

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream, stop := e.hub.Subscribe(subCtx, "u-ana")
	defer stop()
	assert.Equal(t, session.StateLoading, (<-stream).State)
	assert.Equal(t, session.StateOnboarded, (<-stream).State)

	out, err := e.uc.Invite(ctx, admin, dto.OnboardingInviteRequest{Emails: "leo@acme.fr mauvais"})
	require.NoError(t, err)
	assert.Equal(t, []string{"leo@acme.fr"}, out.Invited)
	assert.Equal(t, []string{"mauvais"}, out.Invalid)
	assert.Equal(t, string(session.StateOnboarded), out.Session)

	select {
	case snap := <-stream:
		assert.Equal(t, session.StateOnboarded, snap.State)
	case <-time.After(time.Second):
		t.Fatal("se esperaba un snapshot tras completar el onboarding")
	}

	notes, err := e.store.Repos().Notifications.ListByUser(ctx, "u-ana", false, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationSystem, notes[0].Type)
	assert.Contains(t, notes[0].Message, "leo@acme.fr")
}

func TestInvite_SinEmpresa(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Invite(context.Background(), pending, dto.OnboardingInviteRequest{Emails: "leo@acme.fr"})
	assert.ErrorIs(t, err, domain.ErrOnboardingRequired)
}
