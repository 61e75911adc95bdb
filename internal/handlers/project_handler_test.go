package handlers

import (
	"net/http"
	"testing"

	"project-crm-api/internal/models"

	"github.com/stretchr/testify/require"
)

func seedTags(t *testing.T, r http.Handler, names ...string) []models.Tag {
	t.Helper()
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		w := doJSON(t, r, http.MethodPost, "/api/tags", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		tags = append(tags, decode[models.Tag](t, w))
	}
	return tags
}

func tagNames(tags []models.Tag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.Name)
	}
	return out
}

func TestProject_TagReplaceScenario(t *testing.T) {
	r, _ := newTestRouter(t)
	tags := seedTags(t, r, "frontend", "client-work")
	t1, t2 := tags[0], tags[1]

	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]any{
		"name": "Portal",
		"tags": []string{t1.ID, t2.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	p := decode[models.Project](t, w)
	require.Equal(t, []string{"frontend", "client-work"}, tagNames(p.Tags))
	require.Equal(t, models.ProjectIdea, p.Status)

	w = doJSON(t, r, http.MethodPut, "/api/projects/"+p.ID, map[string]any{"tags": []string{t1.ID}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, []string{"frontend"}, tagNames(decode[models.Project](t, w).Tags))

	w = doJSON(t, r, http.MethodGet, "/api/projects/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Project](t, w)
	require.Len(t, got.Tags, 1)
	require.Equal(t, t1.ID, got.Tags[0].ID)
	require.Equal(t, models.DefaultTagColor, got.Tags[0].Color)
}

func TestProject_UpdateWithoutTagsKeepsThem(t *testing.T) {
	r, _ := newTestRouter(t)
	tags := seedTags(t, r, "design")

	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]any{"name": "Brand", "tags": []string{tags[0].ID}})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decode[models.Project](t, w)

	w = doJSON(t, r, http.MethodPut, "/api/projects/"+p.ID, map[string]any{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Project](t, w)
	require.Equal(t, models.ProjectInProgress, updated.Status)
	require.Equal(t, []string{"design"}, tagNames(updated.Tags))

	// an explicit empty list clears the set
	w = doJSON(t, r, http.MethodPut, "/api/projects/"+p.ID, map[string]any{"tags": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	cleared := decode[models.Project](t, w)
	require.NotNil(t, cleared.Tags)
	require.Empty(t, cleared.Tags)
}

func TestProject_UnknownTagRollsBackCreate(t *testing.T) {
	r, db := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]any{"name": "Ghost", "tags": []string{"nope"}})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestProject_NameRequired(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]any{"description": "nameless"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "name is required", errorMessage(t, w))
}

func TestGetProjects_FiltersAndSearch(t *testing.T) {
	r, _ := newTestRouter(t)
	for _, body := range []map[string]any{
		{"name": "Website Redesign", "status": "in_progress", "category": "web"},
		{"name": "Mobile App", "status": "planning", "description": "iOS WEBSITE companion"},
		{"name": "Archive", "status": "archived"},
	} {
		w := doJSON(t, r, http.MethodPost, "/api/projects", body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/projects?search=website", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[[]models.Project](t, w), 2)

	w = doJSON(t, r, http.MethodGet, "/api/projects?search=website&status=planning", nil)
	got := decode[[]models.Project](t, w)
	require.Len(t, got, 1)
	require.Equal(t, "Mobile App", got[0].Name)
	require.NotNil(t, got[0].Tags)

	w = doJSON(t, r, http.MethodGet, "/api/projects?status=", nil)
	require.Len(t, decode[[]models.Project](t, w), 3)
}

func TestDeleteProject_UnlinksTasksAndTags(t *testing.T) {
	r, db := newTestRouter(t)
	tags := seedTags(t, r, "ops")

	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]any{"name": "Infra", "tags": []string{tags[0].ID}})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decode[models.Project](t, w)
	task := createTask(t, r, map[string]any{"title": "Rotate certs", "project_id": p.ID})

	w = doJSON(t, r, http.MethodDelete, "/api/projects/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var links int64
	require.NoError(t, db.Model(&models.ProjectTag{}).Count(&links).Error)
	require.Zero(t, links)

	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+task.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decode[models.Task](t, w).ProjectID)

	w = doJSON(t, r, http.MethodDelete, "/api/projects/"+p.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Project not found", errorMessage(t, w))
}

func TestMilestones(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/projects", map[string]any{"name": "Launch"})
	p := decode[models.Project](t, w)

	w = doJSON(t, r, http.MethodPost, "/api/projects/"+p.ID+"/milestones", map[string]any{"title": "Beta", "due_date": "2026-12-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	m := decode[models.Milestone](t, w)

	w = doJSON(t, r, http.MethodPatch, "/api/projects/"+p.ID+"/milestones/"+m.ID, map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode[models.Milestone](t, w).Completed)

	w = doJSON(t, r, http.MethodGet, "/api/projects/"+p.ID, nil)
	got := decode[models.Project](t, w)
	require.Len(t, got.Milestones, 1)
	require.True(t, got.Milestones[0].Completed)

	w = doJSON(t, r, http.MethodDelete, "/api/projects/"+p.ID+"/milestones/"+m.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/projects/missing/milestones", map[string]any{"title": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
