package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"project-crm-api/internal/auth"
	"project-crm-api/internal/config"
	"project-crm-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testAuth = config.AuthConfig{
	JWTSecret:   "test-secret",
	JWTIssuer:   "project-crm-api",
	JWTAudience: "project-crm-clients",
	TokenTTLH:   1,
}

var testStorage = config.StorageConfig{PublicURL: "https://blobs.example.com/", Bucket: "documents"}

// newTestRouter wires the handlers onto a bare engine over a fresh in-memory DB
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SetupDB(t)
	Configure(auth.NewIssuer(testAuth), testStorage)

	r := gin.New()
	api := r.Group("/api")

	api.GET("/tasks", GetTasks)
	api.GET("/tasks/kanban", GetKanban)
	api.GET("/tasks/:id", GetTaskByID)
	api.POST("/tasks", CreateTask)
	api.PUT("/tasks/:id", UpdateTask)
	api.PATCH("/tasks/:id/status", UpdateTaskStatus)
	api.DELETE("/tasks/:id", DeleteTask)

	api.GET("/projects", GetProjects)
	api.GET("/projects/:id", GetProjectByID)
	api.POST("/projects", CreateProject)
	api.PUT("/projects/:id", UpdateProject)
	api.DELETE("/projects/:id", DeleteProject)
	api.POST("/projects/:id/milestones", AddMilestone)
	api.PATCH("/projects/:id/milestones/:milestoneId", UpdateMilestone)
	api.DELETE("/projects/:id/milestones/:milestoneId", DeleteMilestone)

	api.GET("/tags", GetTags)
	api.POST("/tags", CreateTag)
	api.PUT("/tags/:id", UpdateTag)
	api.DELETE("/tags/:id", DeleteTag)

	api.GET("/clients", GetClients)
	api.GET("/clients/:id", GetClientByID)
	api.POST("/clients", CreateClient)
	api.PUT("/clients/:id", UpdateClient)
	api.DELETE("/clients/:id", DeleteClient)

	api.GET("/apikeys", GetAPIKeys)
	api.GET("/apikeys/:id", GetAPIKeyByID)
	api.POST("/apikeys", CreateAPIKey)
	api.PUT("/apikeys/:id", UpdateAPIKey)
	api.DELETE("/apikeys/:id", DeleteAPIKey)

	api.GET("/documents", GetDocuments)
	api.GET("/documents/:id", GetDocumentByID)
	api.POST("/documents", CreateDocument)
	api.PUT("/documents/:id", UpdateDocument)
	api.DELETE("/documents/:id", DeleteDocument)

	api.GET("/stats", GetStats)
	api.POST("/auth/login", Login)

	return r, db
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}
