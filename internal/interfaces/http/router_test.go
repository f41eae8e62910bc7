package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/logicielhub-api/internal/application/analytics"
	"github.com/jhoicas/logicielhub-api/internal/application/auth"
	"github.com/jhoicas/logicielhub-api/internal/application/catalog"
	"github.com/jhoicas/logicielhub-api/internal/application/dto"
	"github.com/jhoicas/logicielhub-api/internal/application/onboarding"
	"github.com/jhoicas/logicielhub-api/internal/application/requests"
	"github.com/jhoicas/logicielhub-api/internal/application/session"
	"github.com/jhoicas/logicielhub-api/internal/application/usecase"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/memstore"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/pdf"
	"github.com/jhoicas/logicielhub-api/internal/infrastructure/tokenstore"
	apphttp "github.com/jhoicas/logicielhub-api/internal/interfaces/http"
)

// testServer arma la API completa sobre el store en memoria.
type testServer struct {
	app   *fiber.App
	store *memstore.Store
	hub   *session.Hub
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	log := zerolog.Nop()
	store := memstore.New()
	repos := store.Repos()
	revoked := tokenstore.NewMemoryStore()

	hub := session.NewHub(session.NewGate(repos.Users, repos.Companies, log), log)
	t.Cleanup(hub.Close)
	authUC := auth.NewAuthUseCase(repos.Users, revoked, hub,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, log)
	notifications := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, log)
	loader := usecase.NewCatalogLoader(repos.Software, repos.Contracts, repos.Reviews, repos.Usage)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           authUC,
		Hub:              hub,
		SessionHeartbeat: time.Minute,
		OnboardingUC:     onboarding.NewOnboardingUseCase(repos.Users, store, authUC, notifications, hub, log),
		DashboardUC:      appanalytics.NewDashboardUseCase(repos.Software, repos.Contracts, repos.Requests, repos.Users, log),
		CatalogUC:        catalog.NewCatalogUseCase(loader, repos.Software, repos.Contracts, repos.Reviews, store, log),
		RequestUC:        requests.NewRequestUseCase(repos.Requests, repos.Votes, repos.Users, store, notifications, log),
		AnalyticsUC:      appanalytics.NewAnalyticsUseCase(loader, repos.Companies, pdf.NewMarotoReportRenderer(), log),
		SettingsUC:       usecase.NewSettingsUseCase(repos.Companies, repos.Departments, repos.Users, log),
		NotificationUC:   notifications,
		JWTSecret:        testJWTSecret,
		Revoked:          revoked,
	})
	return testServer{app: app, store: store, hub: hub}
}

// call lanza la petición con body JSON opcional y token opcional.
func (s testServer) call(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// signup registra y hace login; devuelve el token sin empresa.
func (s testServer) signup(t *testing.T, email string) string {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: email, Password: "motdepasse", DisplayName: "Ana"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "motdepasse"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[dto.LoginResponse](t, resp)
	require.NotEmpty(t, login.Token)
	return login.Token
}

// onboard crea la empresa y devuelve el token nuevo (rol admin, con empresa).
func (s testServer) onboard(t *testing.T, token, name string) dto.OnboardingCompanyResponse {
	t.Helper()
	resp := s.call(t, http.MethodPost, "/api/onboarding/company", token, dto.OnboardingCompanyRequest{Name: name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.OnboardingCompanyResponse](t, resp)
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp := s.call(t, http.MethodGet, "/api/software", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "ana@acme.fr")

	resp := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "ana@acme.fr", Password: "mauvais"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	dup := s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "ana@acme.fr", Password: "motdepasse"})
	defer dup.Body.Close()
	assert.Equal(t, http.StatusConflict, dup.StatusCode)
}

func TestRouter_RegistroCuerpoInvalido(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	bad := s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{Email: "pas-un-email", Password: "motdepasse"})
	body := decode[dto.ErrorResponse](t, bad)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestRouter_FlujoCompleto(t *testing.T) {
	s := newTestServer(t)
	pendingToken := s.signup(t, "ana@acme.fr")

	// Sin empresa: sesión pendiente y páginas bloqueadas.
	sess := decode[dto.SessionResponse](t, s.call(t, http.MethodGet, "/api/session", pendingToken, nil))
	assert.Equal(t, "pending_onboarding", sess.State)
	blocked := s.call(t, http.MethodGet, "/api/dashboard/summary", pendingToken, nil)
	blocked.Body.Close()
	assert.Equal(t, http.StatusForbidden, blocked.StatusCode)

	onb := s.onboard(t, pendingToken, "Acme")
	token := onb.Token
	assert.Equal(t, "admin", onb.User.Role)
	assert.Equal(t, "Général", onb.Department.Name)

	again := s.call(t, http.MethodPost, "/api/onboarding/company", token, dto.OnboardingCompanyRequest{Name: "Otra"})
	again.Body.Close()
	assert.Equal(t, http.StatusConflict, again.StatusCode)

	// Alta de software con contrato.
	resp := s.call(t, http.MethodPost, "/api/software", token, dto.SoftwareForm{
		Name: "Figma", Category: "Design", CostAmount: "1200,00", BillingPeriod: "yearly",
		EndDate: time.Now().AddDate(0, 0, 20).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	figma := decode[dto.SoftwareResponse](t, resp)
	require.NotNil(t, figma.Contract)
	assert.Equal(t, "1200", figma.Contract.CostAmount.String())

	catalogView := decode[dto.CatalogResponse](t, s.call(t, http.MethodGet, "/api/software?category=Design", token, nil))
	assert.False(t, catalogView.Degraded)
	assert.Equal(t, 1, catalogView.Total)
	assert.Equal(t, []string{"all", "Design"}, catalogView.Categories)

	review := s.call(t, http.MethodPut, "/api/software/"+figma.ID+"/review", token, dto.ReviewRequest{Rating: 5, Comment: "Top"})
	review.Body.Close()
	assert.Equal(t, http.StatusOK, review.StatusCode)

	details := decode[dto.SoftwareDetailsResponse](t, s.call(t, http.MethodGet, "/api/software/"+figma.ID, token, nil))
	assert.True(t, details.ExpiringSoon)
	require.NotNil(t, details.UserReview)
	assert.Equal(t, 5, details.UserReview.Rating)

	missing := s.call(t, http.MethodGet, "/api/software/no-existe", token, nil)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)

	// Solicitud, voto y decisión.
	resp = s.call(t, http.MethodPost, "/api/requests", token, dto.CreateRequestRequest{SoftwareName: "Notion", Description: "Docs"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	req := decode[dto.RequestResponse](t, resp)
	assert.Equal(t, "short_term", req.Urgency)

	vote := decode[dto.VoteResponse](t, s.call(t, http.MethodPost, "/api/requests/"+req.ID+"/vote", token, nil))
	assert.True(t, vote.Voted)
	assert.Equal(t, 1, vote.VoteCount)

	list := decode[dto.RequestListResponse](t, s.call(t, http.MethodGet, "/api/requests", token, nil))
	require.Len(t, list.Requests, 1)
	assert.True(t, list.Requests[0].UserHasVoted)
	assert.Equal(t, 1, list.Pending)

	decided := decode[dto.RequestResponse](t, s.call(t, http.MethodPatch, "/api/requests/"+req.ID+"/status", token,
		dto.UpdateRequestStatusRequest{Status: "approved"}))
	assert.Equal(t, "approved", decided.Status)

	// Páginas de lectura.
	summary := decode[dto.DashboardSummaryDTO](t, s.call(t, http.MethodGet, "/api/dashboard/summary", token, nil))
	assert.False(t, summary.Degraded)
	assert.Equal(t, 1, summary.TotalSoftware)

	report := decode[dto.AnalyticsReportDTO](t, s.call(t, http.MethodGet, "/api/analytics", token, nil))
	assert.Equal(t, "1200", report.TotalCost.String())

	pdfResp := s.call(t, http.MethodGet, "/api/analytics/report.pdf", token, nil)
	defer pdfResp.Body.Close()
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	assert.Contains(t, pdfResp.Header.Get("Content-Disposition"), "rapport-analytique.pdf")
	raw, err := io.ReadAll(pdfResp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	settings := decode[dto.SettingsResponse](t, s.call(t, http.MethodGet, "/api/settings", token, nil))
	require.NotNil(t, settings.Company)
	assert.Equal(t, "Acme", settings.Company.Name)
	dep := s.call(t, http.MethodPost, "/api/settings/departments", token, dto.CreateDepartmentRequest{Name: "Marketing"})
	dep.Body.Close()
	assert.Equal(t, http.StatusCreated, dep.StatusCode)

	// Aviso de nueva solicitud para el admin, marcado como leído.
	inbox := decode[dto.NotificationListResponse](t, s.call(t, http.MethodGet, "/api/notifications?unread=true", token, nil))
	require.NotEmpty(t, inbox.Notifications)
	read := s.call(t, http.MethodPost, "/api/notifications/"+inbox.Notifications[0].ID+"/read", token, nil)
	read.Body.Close()
	assert.Equal(t, http.StatusNoContent, read.StatusCode)

	// Logout: el token queda revocado.
	out := s.call(t, http.MethodPost, "/api/auth/logout", token, nil)
	out.Body.Close()
	assert.Equal(t, http.StatusNoContent, out.StatusCode)
	after := s.call(t, http.MethodGet, "/api/dashboard/summary", token, nil)
	defer after.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
}

func TestRouter_RutasAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := s.onboard(t, s.signup(t, "ana@acme.fr"), "Acme")

	// Un miembro de la misma empresa con token de rol user.
	memberToken := tokenFor(t, admin.Company.ID, "user")

	resp := s.call(t, http.MethodPost, "/api/requests", admin.Token, dto.CreateRequestRequest{SoftwareName: "Notion", Description: "Docs"})
	req := decode[dto.RequestResponse](t, resp)

	forbidden := s.call(t, http.MethodPatch, "/api/requests/"+req.ID+"/status", memberToken, dto.UpdateRequestStatusRequest{Status: "rejected"})
	forbidden.Body.Close()
	assert.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	dep := s.call(t, http.MethodPost, "/api/settings/departments", memberToken, dto.CreateDepartmentRequest{Name: "IT"})
	dep.Body.Close()
	assert.Equal(t, http.StatusForbidden, dep.StatusCode)

	badStatus := s.call(t, http.MethodPatch, "/api/requests/"+req.ID+"/status", admin.Token, map[string]string{"status": "submitted"})
	badStatus.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badStatus.StatusCode)
}

func TestRouter_OtraEmpresaNoVeElSoftware(t *testing.T) {
	s := newTestServer(t)
	acme := s.onboard(t, s.signup(t, "ana@acme.fr"), "Acme")
	globex := s.onboard(t, s.signup(t, "bob@globex.fr"), "Globex")

	created := decode[dto.SoftwareResponse](t, s.call(t, http.MethodPost, "/api/software", acme.Token,
		dto.SoftwareForm{Name: "Slack", Category: "Communication"}))

	resp := s.call(t, http.MethodGet, "/api/software/"+created.ID, globex.Token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	view := decode[dto.CatalogResponse](t, s.call(t, http.MethodGet, "/api/software", globex.Token, nil))
	assert.Empty(t, view.Software)
	assert.NotNil(t, view.Software)
}

func TestRouter_VistasDegradadas(t *testing.T) {
	s := newTestServer(t)
	acme := s.onboard(t, s.signup(t, "ana@acme.fr"), "Acme")
	s.store.ListErr = errors.New("db caída")

	view := decode[dto.CatalogResponse](t, s.call(t, http.MethodGet, "/api/software", acme.Token, nil))
	assert.True(t, view.Degraded)
	assert.Equal(t, []string{"all"}, view.Categories)

	summary := decode[dto.DashboardSummaryDTO](t, s.call(t, http.MethodGet, "/api/dashboard/summary", acme.Token, nil))
	assert.True(t, summary.Degraded)

	pdfResp := s.call(t, http.MethodGet, "/api/analytics/report.pdf", acme.Token, nil)
	pdfResp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, pdfResp.StatusCode)
}

func TestRouter_OnboardingInvite(t *testing.T) {
	s := newTestServer(t)
	acme := s.onboard(t, s.signup(t, "ana@acme.fr"), "Acme")

	out := decode[dto.OnboardingInviteResponse](t, s.call(t, http.MethodPost, "/api/onboarding/invite", acme.Token,
		dto.OnboardingInviteRequest{Emails: "bob@acme.fr, pas-valide\nBOB@acme.fr"}))
	assert.Equal(t, []string{"bob@acme.fr"}, out.Invited)
	assert.Equal(t, []string{"pas-valide"}, out.Invalid)
	assert.Equal(t, "onboarded", out.Session)
}

func TestSessionStream_AnonimoRecibeLoadingYAnonymous(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/session/stream", nil)
	resp, err := s.app.Test(req, 2000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)
	assert.Equal(t, 2, strings.Count(body, "event: session\n"))
	assert.Contains(t, body, `"state":"loading"`)
	assert.Contains(t, body, `"state":"anonymous"`)
	assert.Less(t, strings.Index(body, "loading"), strings.Index(body, "anonymous"))
}

func TestSession_GetAnonimo(t *testing.T) {
	s := newTestServer(t)
	sess := decode[dto.SessionResponse](t, s.call(t, http.MethodGet, "/api/session", "", nil))
	assert.Equal(t, "anonymous", sess.State)
	assert.Nil(t, sess.User)
}

func TestRouter_AccessTokenEnQuerySoloEnElStream(t *testing.T) {
	s := newTestServer(t)
	token := s.onboard(t, s.signup(t, "ana@acme.fr"), "Acme").Token

	sess := decode[dto.SessionResponse](t, s.call(t, http.MethodGet, "/api/session?access_token="+token, "", nil))
	assert.Equal(t, "anonymous", sess.State, "GET /api/session solo lee la cabecera")

	resp := s.call(t, http.MethodGet, "/api/dashboard/summary?access_token="+token, "", nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}
