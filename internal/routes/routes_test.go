package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"project-crm-api/internal/auth"
	"project-crm-api/internal/config"
	"project-crm-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupDB(t)
	cfg := config.Default()
	require.NoError(t, auth.EnsureAccount(context.Background(), db, cfg.Auth.Username, cfg.Auth.Password, zap.NewNop()))
	return SetupRoutes(cfg, zap.NewNop()), cfg
}

func TestHealth(t *testing.T) {
	r, _ := newRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "crm_http_request_duration_seconds")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newRouter(t)
	for _, path := range []string{"/api/tasks", "/api/tasks/kanban", "/api/projects", "/api/stats"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestLoginThenKanban(t *testing.T) {
	r, cfg := newRouter(t)

	body := `{"username":"` + cfg.Auth.Username + `","password":"` + cfg.Auth.Password + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct{ Token string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/tasks/kanban", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var board map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	require.Len(t, board, 4)
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/tasks", nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
