package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, body := range []map[string]any{
		{"name": "A", "status": "in_progress", "priority": "high"},
		{"name": "B", "status": "in_progress"},
		{"name": "C"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/projects", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}
	doJSON(t, r, http.MethodPost, "/api/clients", map[string]any{"name": "Acme"})
	createTask(t, r, map[string]any{"title": "t1"})
	createTask(t, r, map[string]any{"title": "t2", "status": "done"})

	w := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stats := decode[Stats](t, w)
	require.EqualValues(t, 3, stats.TotalProjects)
	require.EqualValues(t, 1, stats.TotalClients)
	require.EqualValues(t, 2, stats.TotalTasks)
	require.Equal(t, []StatusCount{{Status: "idea", Count: 1}, {Status: "in_progress", Count: 2}}, stats.ByStatus)
	require.Equal(t, []PriorityCount{{Priority: "high", Count: 1}, {Priority: "medium", Count: 2}}, stats.ByPriority)
	require.Len(t, stats.TasksByStatus, 4)
	require.EqualValues(t, 1, stats.TasksByStatus["backlog"])
	require.EqualValues(t, 0, stats.TasksByStatus["blocked"])
	require.Len(t, stats.RecentProjects, 3)

	// the dashboard maps over byStatus/byPriority as [{status, count}] lists
	raw := decode[map[string]json.RawMessage](t, w)
	var byStatus []map[string]any
	require.NoError(t, json.Unmarshal(raw["byStatus"], &byStatus))
	require.Contains(t, byStatus, map[string]any{"status": "in_progress", "count": float64(2)})
	var byPriority []map[string]any
	require.NoError(t, json.Unmarshal(raw["byPriority"], &byPriority))
	require.Contains(t, byPriority, map[string]any{"priority": "high", "count": float64(1)})
}

func TestGetStats_NoProjects(t *testing.T) {
	r, _ := newTestRouter(t)
	createTask(t, r, map[string]any{"title": "odd", "status": "review"})

	w := doJSON(t, r, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, string(decode[map[string]json.RawMessage](t, w)["byStatus"]))

	stats := decode[Stats](t, w)
	require.EqualValues(t, 1, stats.TotalTasks)
	require.Len(t, stats.TasksByStatus, 4)
	for _, n := range stats.TasksByStatus {
		require.Zero(t, n)
	}
}
