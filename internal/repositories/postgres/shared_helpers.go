package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kwanddwo/conflow-service/internal/models"
	"github.com/Kwanddwo/conflow-service/internal/repositories"
)

// roleTable is the table ConferenceRoleEntry maps to. Raw JOIN strings must
// use this name; a drifted name only surfaces at query time.
const roleTable = "conference_roles"

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// CountSubmissions counts submissions for a conference
func (h *SharedHelpers) CountSubmissions(ctx context.Context, conferenceID string) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("conference_id = ?", conferenceID).
		Count(&count).Error
	return count, err
}

// CountParticipants counts distinct users holding a role in a conference
func (h *SharedHelpers) CountParticipants(ctx context.Context, conferenceID string) (int64, error) {
	var count int64
	err := h.db.WithContext(ctx).
		Model(&models.ConferenceRoleEntry{}).
		Where("conference_id = ?", conferenceID).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

// ApplyConferenceFilters applies common filters to conference queries
func (h *SharedHelpers) ApplyConferenceFilters(query *gorm.DB, filters repositories.ConferenceFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.IsPublic != nil {
		query = query.Where("is_public = ?", *filters.IsPublic)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by_id = ?", *filters.CreatedBy)
	}
	if filters.Search != nil && *filters.Search != "" {
		pattern := "%" + *filters.Search + "%"
		query = query.Where("title ILIKE ? OR acronym ILIKE ?", pattern, pattern)
	}
	if filters.StartsAfter != nil {
		query = query.Where("start_date >= ?", *filters.StartsAfter)
	}
	if filters.EndsBefore != nil {
		query = query.Where("end_date <= ?", *filters.EndsBefore)
	}
	return query
}

// ApplySubmissionFilters applies common filters to submission queries
func (h *SharedHelpers) ApplySubmissionFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ConferenceID != nil {
		query = query.Where("conference_id = ?", *filters.ConferenceID)
	}
	if filters.SubmittedBy != nil {
		query = query.Where("submitted_by_id = ?", *filters.SubmittedBy)
	}
	if filters.PrimaryArea != nil {
		query = query.Where("primary_area = ?", *filters.PrimaryArea)
	}
	if filters.Search != nil && *filters.Search != "" {
		query = query.Where("title ILIKE ?", "%"+*filters.Search+"%")
	}
	return query
}

// ApplyNotificationFilters applies common filters to notification queries
func (h *SharedHelpers) ApplyNotificationFilters(query *gorm.DB, filters repositories.NotificationFilters) *gorm.DB {
	if filters.IsRead != nil {
		query = query.Where("is_read = ?", *filters.IsRead)
	}
	if filters.IsArchived != nil {
		query = query.Where("is_archived = ?", *filters.IsArchived)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	// Soft-deleted notifications stay out of every listing
	query = query.Where("is_deleted = ?", false)
	return query
}

// ApplyPaginationAndSort applies pagination and sorting with SQL injection protection
func (h *SharedHelpers) ApplyPaginationAndSort(query *gorm.DB, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	// Whitelist allowed sort columns
	allowedSortColumns := map[string]bool{
		"created_at":          true,
		"updated_at":          true,
		"id":                  true,
		"title":               true,
		"status":              true,
		"acronym":             true,
		"start_date":          true,
		"submission_deadline": true,
		"due_date":            true,
	}

	// Validate and set sort column
	if sortBy == "" || !allowedSortColumns[sortBy] {
		sortBy = "created_at"
	}

	// Validate and set sort order
	if sortOrder != "asc" && sortOrder != "ASC" {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}

	query = query.Order(sortBy + " " + sortOrder)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
