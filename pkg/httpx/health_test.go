package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/catalog/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

func healthyChecks() httpx.HealthChecks {
	return httpx.HealthChecks{
		"store":     &stubChecker{},
		"redis":     &stubChecker{},
		"event_bus": &stubChecker{},
	}
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	h := httpx.HealthHandler(healthyChecks())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status: got %q, want %q", resp["status"], "ok")
	}
	for _, name := range []string{"store", "redis", "event_bus"} {
		if resp[name] != "ok" {
			t.Errorf("%s: got %q, want %q", name, resp[name], "ok")
		}
	}
}

func TestHealthHandler_StoreDown(t *testing.T) {
	checks := healthyChecks()
	checks["store"] = &stubChecker{err: errors.New("conn refused")}

	h := httpx.HealthHandler(checks)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp["status"] != "degraded" || resp["store"] != "unreachable" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp["redis"] != "ok" || resp["event_bus"] != "ok" {
		t.Errorf("healthy dependencies misreported: %+v", resp)
	}
}

func TestHealthHandler_AllDown(t *testing.T) {
	h := httpx.HealthHandler(httpx.HealthChecks{
		"store":     &stubChecker{err: errors.New("down")},
		"redis":     &stubChecker{err: errors.New("down")},
		"event_bus": &stubChecker{err: errors.New("down")},
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	for _, name := range []string{"store", "redis", "event_bus"} {
		if resp[name] != "unreachable" {
			t.Errorf("%s: got %q, want unreachable", name, resp[name])
		}
	}
}

func TestHealthHandler_NilCheckerSkipped(t *testing.T) {
	h := httpx.HealthHandler(httpx.HealthChecks{
		"store": &stubChecker{},
		"redis": nil,
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp map[string]string
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if _, ok := resp["redis"]; ok {
		t.Errorf("nil checker should not be reported, got: %+v", resp)
	}
}

func TestHealthHandler_ContentType(t *testing.T) {
	h := httpx.HealthHandler(healthyChecks())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	ct := rr.Header().Get("Content-Type")
	if ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json; charset=utf-8")
	}
}
