package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/msp-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/msp-dashboard/internal/auth"
	"github.com/spec-kit/msp-dashboard/internal/config"
	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/observability"
	"github.com/spec-kit/msp-dashboard/internal/redact"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type revokedSet map[string]bool

func (r revokedSet) IsSessionRevoked(_ context.Context, tokenID string) (bool, error) {
	return r[tokenID], nil
}

type testServer struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	revoked revokedSet
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, redisErr error) *testServer {
	t.Helper()
	tokens := auth.NewTokenManager("router-test-secret", time.Hour)
	revoked := revokedSet{}
	metrics := observability.NewMetrics()
	authCfg := config.AuthConfig{CookieName: "session"}

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("msp-dashboard", "test", pinger{}, pinger{err: redisErr}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(nil, authCfg),
		Export:         handlers.NewExportHandler(nil),
		Tickets:        handlers.NewTicketsHandler(nil),
		Tasks:          handlers.NewTasksHandler(nil),
		Clients:        handlers.NewClientsHandler(nil),
		Templates:      handlers.NewTemplatesHandler(nil),
		Reports:        handlers.NewReportsHandler(nil),
		KB:             handlers.NewKBHandler(nil),
		Snippets:       handlers.NewSnippetsHandler(nil),
		Pillars:        handlers.NewPillarsHandler(nil),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, revoked, authCfg.CookieName),
		StorageReady:   true,
	})
	return &testServer{app: app, tokens: tokens, revoked: revoked, metrics: metrics}
}

func (s *testServer) token(t *testing.T, role domain.UserRole) (string, *domain.Session) {
	t.Helper()
	raw, session, err := s.tokens.GenerateToken(&domain.User{ID: "user-1", Email: "dana@example.com", Name: "Dana", Role: role})
	require.NoError(t, err)
	return raw, session
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func errorCode(body map[string]any) string {
	errObj, _ := body["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	status, body := s.do(t, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = s.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	down := newTestServer(t, errors.New("connection refused"))
	status, body = down.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
}

func TestAPIRequiresSession(t *testing.T) {
	s := newTestServer(t, nil)

	status, body := s.do(t, http.MethodPost, "/api/redact", "", `{"text":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, _ = s.do(t, http.MethodPost, "/api/redact", "not-a-jwt", `{"text":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, status)

	token, session := s.token(t, domain.UserRoleEngineer)
	s.revoked[session.TokenID] = true
	status, body = s.do(t, http.MethodPost, "/api/redact", token, `{"text":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "session ended", body["error"].(map[string]any)["message"])
}

func TestRedactEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.token(t, domain.UserRoleEngineer)

	status, body := s.do(t, http.MethodPost, "/api/redact", token, `{"text":"db password: hunter2"}`)
	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "db "+redact.MarkerPassword, data["text"])
	assert.Equal(t, true, data["hasRedactions"])
	assert.EqualValues(t, 1, data["total"])
	assert.EqualValues(t, 1, data["counts"].(map[string]any)["password"])
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.token(t, domain.UserRoleEngineer)

	status, body := s.do(t, http.MethodPost, "/api/export", token, `{"ticketId":"t","templateType":"pir","format":"pdf"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "oneof=markdown docx html", details["format"])

	status, body = s.do(t, http.MethodPost, "/api/export", token, `{"format":"docx"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	details = body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "ticketId")
	assert.Contains(t, details, "templateType")
}

func TestTemplateWritesRequireAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.token(t, domain.UserRoleEngineer)

	status, body := s.do(t, http.MethodPost, "/api/templates", token, `{"name":"x","type":"pir","content":"{{title}}"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
}

func TestReportRejectsBadDate(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.token(t, domain.UserRoleAdmin)

	status, body := s.do(t, http.MethodGet, "/api/reports?startDate=last-week", token, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	s := newTestServer(t, nil)
	status, body := s.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	snap := s.metrics.Snapshot()
	assert.EqualValues(t, 1, snap.Errors["GET|/nope|NOT_FOUND"])
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = s.app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(fiber.HeaderXRequestID), 36)
}

func TestRenderErrorDropsAttachmentHeader(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, 0)
	app.Get("/download", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="x.docx"`)
		return errors.New("packager failed")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/download", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderContentDisposition))
}

func TestPillarWritesRequireAdmin(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.token(t, domain.UserRoleEngineer)

	status, body := s.do(t, http.MethodPost, "/api/pillars", token, `{"name":"Security"}`)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = s.do(t, http.MethodPatch, "/api/pillars/p1", token, `{"isActive":false}`)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestKnowledgePayloadValidation(t *testing.T) {
	s := newTestServer(t, nil)
	token, _ := s.token(t, domain.UserRoleEngineer)

	status, body := s.do(t, http.MethodPost, "/api/kb", token, `{"title":"DNS scavenging"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "required", details["problem"])
	assert.Equal(t, "required", details["resolution"])

	status, body = s.do(t, http.MethodPost, "/api/snippets", token, `{"title":"x","language":"cobol","code":"DISPLAY"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	details = body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "oneof=powershell terraform bash sql python cli other", details["language"])

	status, body = s.do(t, http.MethodPatch, "/api/kb/k1", token, `{"sensitivity":"public"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutesWithoutStorage(t *testing.T) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("msp-dashboard", "test", pinger{}, pinger{}),
		Metrics: handlers.NewMetricsHandler(metrics),
	})
	s := &testServer{app: app, metrics: metrics}

	status, _ := s.do(t, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, status)

	status, body := s.do(t, http.MethodGet, "/api/tickets", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "not configured", details["postgres"])

	status, body = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
}
