package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"car-management-api/internal/handler"
	"car-management-api/internal/middleware"
	"car-management-api/internal/model"
	"car-management-api/internal/server"
	"car-management-api/internal/store"
)

const origin = "http://localhost:5173"

type downStore struct{ *store.Memory }

type brokenStore struct{ *store.Memory }

func (brokenStore) Services(context.Context) ([]model.Document, error) {
	return nil, errors.New("connection reset")
}

func (downStore) Ping(context.Context) error { return errors.New("no route to host") }

func setupRouter(st store.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.New(st, "s3cret", false, zap.NewNop())
	return server.Router(h, server.Options{
		Secret:  "s3cret",
		Origins: []string{origin, "https://car-repair-931a2.web.app"},
		Logger:  zap.NewNop(),
	})
}

func TestCORSAllowedOrigin(t *testing.T) {
	r := setupRouter(store.NewMemory())
	req := httptest.NewRequest(http.MethodOptions, "/bookings", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSRejectedOrigin(t *testing.T) {
	r := setupRouter(store.NewMemory())
	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	r := setupRouter(store.NewMemory())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthStoreDown(t *testing.T) {
	r := setupRouter(downStore{store.NewMemory()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestID(t *testing.T) {
	r := setupRouter(store.NewMemory())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestMetrics(t *testing.T) {
	r := setupRouter(store.NewMemory())
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/services", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/services",status="200"} 1`)
}

func TestRequestIDLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	h := handler.New(brokenStore{store.NewMemory()}, "s3cret", false, logger)
	r := server.Router(h, server.Options{Secret: "s3cret", Origins: []string{origin}, Logger: logger})

	req := httptest.NewRequest(http.MethodGet, "/services", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	failed := logs.FilterMessage("request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "req-42", failed[0].ContextMap()["request_id"])

	access := logs.FilterMessage("/services").All()
	require.Len(t, access, 1)
	assert.Equal(t, "req-42", access[0].ContextMap()["request_id"])
}
