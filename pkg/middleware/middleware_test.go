package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/rokt-tap/internal/domain"
	"github.com/vfg2006/rokt-tap/internal/usecases/authenticating"
	"github.com/vfg2006/rokt-tap/pkg/clock"
	"github.com/vfg2006/rokt-tap/pkg/log"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newAuthenticator(t *testing.T) *authenticating.Service {
	t.Helper()
	auth, err := authenticating.NewService("segredo", clock.NewFake(time.Now()))
	require.NoError(t, err)
	return auth
}

func TestAuthMiddleware(t *testing.T) {
	auth := newAuthenticator(t)
	token, err := auth.GenerateToken("ops", domain.RoleViewer, time.Hour)
	require.NoError(t, err)

	handler := alice.New(AuthMiddleware(auth), AllRoles()).Then(okHandler)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "healthcheck é público", path: "/healthcheck", status: http.StatusOK},
		{name: "sem header", path: "/v1/sync/status", status: http.StatusUnauthorized},
		{name: "sem Bearer", path: "/v1/sync/status", header: token, status: http.StatusUnauthorized},
		{name: "token inválido", path: "/v1/sync/status", header: "Bearer xyz", status: http.StatusUnauthorized},
		{name: "token válido", path: "/v1/sync/status", header: "Bearer " + token, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAdminOnly_NegaViewer(t *testing.T) {
	auth := newAuthenticator(t)
	token, err := auth.GenerateToken("ops", domain.RoleViewer, time.Hour)
	require.NoError(t, err)

	handler := alice.New(AuthMiddleware(auth), AdminOnly()).Then(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/v1/sync/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogPanicMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("info", "json", &buf)

	handler := LogPanicMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingMiddleware_RegistraStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New("info", "json", &buf)

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, log.GetCorrelationID(r.Context()))
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Contains(t, buf.String(), `"status_code":418`)
}

func TestCors(t *testing.T) {
	handler := Cors([]string{"http://localhost:3000"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/sync/status", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/sync/status", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
