package router

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/minhtg/flashsale/internal/server/http/handlers"
)

type pingerStub struct {
	err error
}

func (p pingerStub) HealthCheck(context.Context) error { return p.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestSetupServesProbes(t *testing.T) {
	engine := Setup(handlers.NewHealthHandler(pingerStub{}), discardLogger())

	for _, target := range []string{"/healthz", "/readyz"} {
		recorder := httptest.NewRecorder()
		engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		if recorder.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, recorder.Code)
		}
	}
}

func TestSetupReadyReflectsStorage(t *testing.T) {
	engine := Setup(handlers.NewHealthHandler(pingerStub{err: errors.New("down")}), discardLogger())

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}
}

func TestSetupUnknownRouteIs404(t *testing.T) {
	engine := Setup(handlers.NewHealthHandler(pingerStub{}), discardLogger())

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", recorder.Code)
	}
}
