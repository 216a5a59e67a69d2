package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/kickabout/internal/infrastructure/auth"
	"github.com/riskibarqy/kickabout/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/kickabout/internal/platform/id"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"github.com/riskibarqy/kickabout/internal/usecase"
)

const testInternalToken = "internal-secret"

type testAPI struct {
	t        *testing.T
	router   http.Handler
	verifier *auth.JWTVerifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	logger := logging.NewNop()
	accounts := memory.NewAccountRepository()
	sessions := memory.NewSessionRepository(accounts)
	badges := memory.NewBadgeRepository()

	badgeService := usecase.NewBadgeService(nil, accounts, badges, nil, logger)
	handler := NewHandler(
		usecase.NewSessionService(sessions, accounts, nil, idgen.NewUUIDGenerator(), logger),
		usecase.NewAttendanceService(sessions, badgeService, nil, 0, logger),
		usecase.NewReliabilityService(accounts, logger),
		badgeService,
		logger,
	)

	verifier, err := auth.NewJWTVerifier(auth.JWTVerifierConfig{Secret: "test-secret"}, logger)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	return &testAPI{
		t:        t,
		router:   NewRouter(handler, verifier, logger, nil, testInternalToken),
		verifier: verifier,
	}
}

type envelope struct {
	Payload any `json:"data"`
	Error   *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

func (a *testAPI) do(method, path, userID string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var payload []byte
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		payload = raw
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if userID != "" {
		token, err := a.verifier.Sign(userID, userID+"@example.com", "", time.Now().Add(time.Hour))
		if err != nil {
			a.t.Fatalf("sign token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var out envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		a.t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func (a *testAPI) createSession(organizerID string, seats int) string {
	a.t.Helper()
	rec, body := a.do(http.MethodPost, "/v1/sessions", organizerID, map[string]any{
		"title":           "Sunday doubles",
		"sport":           "padel",
		"seats_total":     seats,
		"scheduled_start": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("create session: status %d body %s", rec.Code, rec.Body.String())
	}
	id, _ := body.object()["id"].(string)
	if id == "" {
		a.t.Fatalf("create session: missing id in %s", rec.Body.String())
	}
	return id
}

func (e envelope) object() map[string]any {
	m, _ := e.Payload.(map[string]any)
	return m
}

func (e envelope) list() []any {
	l, _ := e.Payload.([]any)
	return l
}

func errorReason(t *testing.T, body envelope) string {
	t.Helper()
	if body.Error == nil || len(body.Error.Errors) == 0 {
		t.Fatalf("expected error envelope")
	}
	return body.Error.Errors[0].Reason
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(http.MethodGet, "/v1/sessions/me", "", nil)
	if rec.Code != http.StatusUnauthorized || errorReason(t, body) != "unauthorized" {
		t.Fatalf("expected 401, got %d %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/me", nil)
	req.Header.Set("Authorization", "Bearer forged.token.value")
	forged := httptest.NewRecorder()
	api.router.ServeHTTP(forged, req)
	if forged.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", forged.Code)
	}
}

func TestRouter_SessionLifecycle(t *testing.T) {
	api := newTestAPI(t)
	sessionID := api.createSession("org-1", 2)

	rec, body := api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/join", "u-1", nil)
	if rec.Code != http.StatusOK || body.object()["membership_status"] != "confirmed" {
		t.Fatalf("join: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/join", "u-2", nil)
	if rec.Code != http.StatusConflict || errorReason(t, body) != "seatUnavailable" {
		t.Fatalf("expected seat unavailable, got %d %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/join", "u-1", nil)
	if rec.Code != http.StatusConflict || errorReason(t, body) != "alreadyJoined" {
		t.Fatalf("expected already joined, got %d %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodGet, "/v1/sessions/"+sessionID, "u-2", nil)
	if rec.Code != http.StatusOK || body.object()["status"] != "full" {
		t.Fatalf("get: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, _ = api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/withdraw", "u-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("withdraw: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/cancel", "u-1", nil)
	if rec.Code != http.StatusForbidden || errorReason(t, body) != "forbidden" {
		t.Fatalf("expected forbidden cancel, got %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/cancel", "org-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/join", "u-2", nil)
	if rec.Code != http.StatusConflict || errorReason(t, body) != "invalidStateTransition" {
		t.Fatalf("expected invalid transition after cancel, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AttendanceBeforeStartIsRejected(t *testing.T) {
	api := newTestAPI(t)
	sessionID := api.createSession("org-1", 4)

	rec, body := api.do(http.MethodPost, "/v1/sessions/"+sessionID+"/attendance", "org-1", map[string]any{
		"attendance": map[string]bool{"org-1": true},
	})
	if rec.Code != http.StatusConflict || errorReason(t, body) != "invalidStateTransition" {
		t.Fatalf("expected 409 before start, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RejectsUnknownFields(t *testing.T) {
	api := newTestAPI(t)

	rec, body := api.do(http.MethodPost, "/v1/sessions", "org-1", map[string]any{
		"title":           "Friday five-a-side",
		"sport":           "football",
		"seats_total":     10,
		"scheduled_start": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
		"price":           12,
	})
	if rec.Code != http.StatusBadRequest || errorReason(t, body) != "invalidInput" {
		t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ReliabilityAndBadges(t *testing.T) {
	api := newTestAPI(t)
	api.createSession("org-1", 4)

	rec, body := api.do(http.MethodGet, "/v1/reliability/me", "org-1", nil)
	if rec.Code != http.StatusOK || body.object()["score"] != float64(100) {
		t.Fatalf("reliability: status %d body %s", rec.Code, rec.Body.String())
	}

	rec, _ = api.do(http.MethodGet, "/v1/users/nobody/reliability", "org-1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown user, got %d", rec.Code)
	}

	rec, body = api.do(http.MethodPost, "/v1/badges/me/evaluate", "org-1", nil)
	if rec.Code != http.StatusOK || len(body.list()) == 0 {
		t.Fatalf("expected founder badge on first evaluation, got %d %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodPost, "/v1/badges/me/evaluate", "org-1", nil)
	if rec.Code != http.StatusOK || len(body.list()) != 0 {
		t.Fatalf("expected no new badges on second evaluation, got %d %s", rec.Code, rec.Body.String())
	}

	rec, body = api.do(http.MethodGet, "/v1/badges/me", "org-1", nil)
	if rec.Code != http.StatusOK || len(body.list()) == 0 {
		t.Fatalf("expected badge progress, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_InternalReferralRequiresToken(t *testing.T) {
	api := newTestAPI(t)
	api.createSession("org-1", 4)

	rec, _ := api.do(http.MethodPost, "/v1/internal/referrals", "", map[string]string{"user_id": "org-1"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without internal token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/referrals", bytes.NewBufferString(`{"user_id":"org-1"}`))
	req.Header.Set(internalTokenHeader, testInternalToken)
	ok := httptest.NewRecorder()
	api.router.ServeHTTP(ok, req)
	if ok.Code != http.StatusOK {
		t.Fatalf("expected 200 with internal token, got %d %s", ok.Code, ok.Body.String())
	}

	var body struct {
		Data reliabilityDTO `json:"data"`
	}
	if err := sonic.Unmarshal(ok.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.ReferralCount != 1 {
		t.Fatalf("expected referral count 1, got %+v", body.Data)
	}
}

func TestRouter_Healthz(t *testing.T) {
	api := newTestAPI(t)
	rec, body := api.do(http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || body.object()["status"] != "ok" {
		t.Fatalf("healthz: status %d body %s", rec.Code, rec.Body.String())
	}
}
