package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/handlers"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/version"
)

// TestSystemHandler_Health tests GET /api/system/health.
//
// WHY: Health checks are used by container orchestration to decide whether the
// process should receive traffic. The local store is the only hard dependency.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy database returns 200", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(service.NewSystemService(db))

		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		body := decode[handlers.HealthResponse](t, w)
		if body.Status != "healthy" || body.Database != "connected" {
			t.Errorf("Expected healthy/connected, got %+v", body)
		}
	})

	t.Run("closed database returns 503", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		db.Close()
		handler := handlers.NewSystemHandler(service.NewSystemService(db))

		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})
}

// TestSystemHandler_Version tests GET /api/system/version.
func TestSystemHandler_Version(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewSystemHandler(service.NewSystemService(db))

	w := httptest.NewRecorder()
	handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	info := decode[service.VersionInfo](t, w)
	if info.AppVersion != version.Version {
		t.Errorf("Expected app version %s, got %s", version.Version, info.AppVersion)
	}
	if info.DbVersion < 1 {
		t.Errorf("Expected a migrated schema, got version %d", info.DbVersion)
	}
}
