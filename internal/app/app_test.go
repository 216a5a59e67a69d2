package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/kickabout/internal/config"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StoreDriver:        config.StoreMemory,
		JWTSecret:          "test-secret",
		CORSAllowedOrigins: []string{"*"},
		BadgeWorkers:       2,
		NotifyWorkers:      2,
		NotifySendTimeout:  time.Second,
	}
}

func TestNew_MemoryStoreServesHealthz(t *testing.T) {
	a, err := New(t.Context(), testConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(t.Context()); err != nil {
			t.Fatalf("close app: %v", err)
		}
	})

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNew_RejectsBadWiring(t *testing.T) {
	cfg := testConfig()
	cfg.StoreDriver = "sqlite"
	if _, err := New(t.Context(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for unsupported store driver")
	}

	cfg = testConfig()
	cfg.NotifyWebhookURL = "ftp://hooks.example.com"
	if _, err := New(t.Context(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for invalid webhook url")
	}

	cfg = testConfig()
	cfg.JWTSecret = ""
	if _, err := New(t.Context(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error without jwt secret")
	}
}
