package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingerStub struct {
	err error
}

func (p pingerStub) HealthCheck(context.Context) error { return p.err }

func performRequest(handler gin.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, nil)
	handler(c)
	return recorder
}

func TestHealthLive(t *testing.T) {
	handler := NewHealthHandler(pingerStub{})

	recorder := performRequest(handler.Live, http.MethodGet, "/healthz")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestHealthReady(t *testing.T) {
	handler := NewHealthHandler(pingerStub{})

	recorder := performRequest(handler.Ready, http.MethodGet, "/readyz")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestHealthReadyStorageDown(t *testing.T) {
	handler := NewHealthHandler(pingerStub{err: errors.New("connection refused")})

	recorder := performRequest(handler.Ready, http.MethodGet, "/readyz")
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "unavailable" || body["error"] != "connection refused" {
		t.Fatalf("unexpected body %v", body)
	}
}
