package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"

	"github.com/liquidaesthetik/praxis-assistant/internal/chat"
	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

type echoResponder struct{}

func (echoResponder) Respond(_ context.Context, message string) (chat.Result, error) {
	return chat.Result{Reply: "echo: " + message}, nil
}

func testConfig() *Config {
	return &Config{
		Logger:             logging.Default(),
		ChatHandler:        chat.NewHandler(echoResponder{}, logging.Default()),
		CORSAllowedOrigins: []string{"*"},
	}
}

func TestRouter_Health(t *testing.T) {
	h := New(testConfig())

	for _, path := range []string{"/health", "/"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	}
}

func TestRouter_Chat(t *testing.T) {
	h := New(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"Hallo"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echo: Hallo")
}

func TestRouter_ChatPreflight(t *testing.T) {
	h := New(testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://liquidaesthetik.de")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "https://liquidaesthetik.de", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_NoBookingRoutesWithoutHandler(t *testing.T) {
	h := New(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/booking/book", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	// Preflight middleware answers OPTIONS; a POST without the route is 404.
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	cfg := testConfig()
	reg := prometheus.NewRegistry()
	cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	h := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ChatRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.ChatRatePerMinute = 2
	h := New(cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"Hallo"}`))
		req.RemoteAddr = "9.9.9.9:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
