package repositories

import (
	"time"

	"github.com/Kwanddwo/conflow-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ConferenceFilters struct {
	Status      *models.ConferenceStatus `json:"status"`
	IsPublic    *bool                    `json:"is_public"`
	CreatedBy   *string                  `json:"created_by"`
	Search      *string                  `json:"search"`
	StartsAfter *time.Time               `json:"starts_after"`
	EndsBefore  *time.Time               `json:"ends_before"`
	Limit       int                      `json:"limit"`
	Offset      int                      `json:"offset"`
	SortBy      string                   `json:"sort_by"`    // "created_at", "title", "start_date"
	SortOrder   string                   `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	Status       *models.SubmissionStatus `json:"status"`
	ConferenceID *string                  `json:"conference_id"`
	PrimaryArea  *string                  `json:"primary_area"`
	SubmittedBy  *string                  `json:"submitted_by"`
	Search       *string                  `json:"search"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
	SortBy       string                   `json:"sort_by"`
	SortOrder    string                   `json:"sort_order"`
}

type AssignmentFilters struct {
	SubmissionID *string `json:"submission_id"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
}

type NotificationFilters struct {
	IsRead     *bool                    `json:"is_read"`
	IsArchived *bool                    `json:"is_archived"`
	Type       *models.NotificationType `json:"type"`
	Limit      int                      `json:"limit"`
	Offset     int                      `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ConferenceStats struct {
	SubmissionCount  int                            `json:"submission_count"`
	StatusBreakdown  map[models.SubmissionStatus]int `json:"status_breakdown"`
	ReviewedCount    int                            `json:"reviewed_count"`
	DecidedCount     int                            `json:"decided_count"`
	ParticipantCount int                            `json:"participant_count"`
}
