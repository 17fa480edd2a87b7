package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func readiness(t *testing.T, deps map[string]Pinger) (*httptest.ResponseRecorder, readinessResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	if err := NewHealthDependenciesHandler(deps).Readiness(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec, resp
}

func TestReadiness_AllHealthy(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	rec, resp := readiness(t, map[string]Pinger{"postgres": ok, "redis": ok})

	if rec.Code != http.StatusOK || resp.Status != "ok" {
		t.Fatalf("expected ok, got %d %+v", rec.Code, resp)
	}
	if len(resp.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %+v", resp.Dependencies)
	}
}

func TestReadiness_Degraded(t *testing.T) {
	rec, resp := readiness(t, map[string]Pinger{
		"postgres": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	if rec.Code != http.StatusServiceUnavailable || resp.Status != "degraded" {
		t.Fatalf("expected degraded, got %d %+v", rec.Code, resp)
	}
	if resp.Dependencies["redis"].Error != "connection refused" {
		t.Fatalf("unexpected redis status %+v", resp.Dependencies["redis"])
	}
	if resp.Dependencies["postgres"].Status != "ok" {
		t.Fatalf("unexpected postgres status %+v", resp.Dependencies["postgres"])
	}
}

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	if err := NewHealthHandler().Liveness(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
