// Package tagging maintains the many-to-many link between projects and tags.
package tagging

import (
	"project-crm-api/internal/apperr"
	"project-crm-api/internal/models"

	"gorm.io/gorm"
)

// Replace makes tagIDs the complete tag set of a project: every existing
// association is deleted, then the given IDs are inserted in order.
// Duplicate IDs collapse to their first occurrence. Run it inside the same
// transaction as the project write.
func Replace(tx *gorm.DB, projectID string, tagIDs []string) error {
	ids := dedupe(tagIDs)

	if len(ids) > 0 {
		var known int64
		if err := tx.Model(&models.Tag{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
			return apperr.Store(err)
		}
		if int(known) != len(ids) {
			return apperr.Validation("unknown tag id in tags")
		}
	}

	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
		return apperr.Store(err)
	}
	if len(ids) == 0 {
		return nil
	}

	links := make([]models.ProjectTag, 0, len(ids))
	for _, id := range ids {
		links = append(links, models.ProjectTag{ProjectID: projectID, TagID: id})
	}
	if err := tx.Create(&links).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

// RemoveProject drops every association of a project
func RemoveProject(tx *gorm.DB, projectID string) error {
	if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTag{}).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

// RemoveTag drops every association of a tag; the projects keep their other tags
func RemoveTag(tx *gorm.DB, tagID string) error {
	if err := tx.Where("tag_id = ?", tagID).Delete(&models.ProjectTag{}).Error; err != nil {
		return apperr.Store(err)
	}
	return nil
}

type taggedRow struct {
	ProjectID string
	ID        string
	Name      string
	Color     string
}

// Resolve returns the flattened tags of each given project, keyed by
// project ID, in association insertion order.
func Resolve(db *gorm.DB, projectIDs []string) (map[string][]models.Tag, error) {
	out := make(map[string][]models.Tag, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	var rows []taggedRow
	err := db.Table("project_tags").
		Select("project_tags.project_id AS project_id, tags.id AS id, tags.name AS name, tags.color AS color").
		Joins("JOIN tags ON tags.id = project_tags.tag_id").
		Where("project_tags.project_id IN ?", projectIDs).
		Order("project_tags.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Store(err)
	}

	for _, r := range rows {
		out[r.ProjectID] = append(out[r.ProjectID], models.Tag{ID: r.ID, Name: r.Name, Color: r.Color})
	}
	return out, nil
}

// Attach fills the Tags field of every project. Projects without tags get
// an empty, non-nil slice.
func Attach(db *gorm.DB, projects []models.Project) error {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	byProject, err := Resolve(db, ids)
	if err != nil {
		return err
	}
	for i := range projects {
		tags := byProject[projects[i].ID]
		if tags == nil {
			tags = []models.Tag{}
		}
		projects[i].Tags = tags
	}
	return nil
}

// ForProject returns one project's tags
func ForProject(db *gorm.DB, projectID string) ([]models.Tag, error) {
	byProject, err := Resolve(db, []string{projectID})
	if err != nil {
		return nil, err
	}
	tags := byProject[projectID]
	if tags == nil {
		tags = []models.Tag{}
	}
	return tags, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
