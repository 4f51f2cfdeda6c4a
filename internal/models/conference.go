package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConferenceStatus string

const (
	ConferencePending   ConferenceStatus = "PENDING"
	ConferenceApproved  ConferenceStatus = "APPROVED"
	ConferenceRejected  ConferenceStatus = "REJECTED"
	ConferenceCompleted ConferenceStatus = "COMPLETED"
)

type ConferenceRole string

const (
	RoleMainChair ConferenceRole = "MAIN_CHAIR"
	RoleChair     ConferenceRole = "CHAIR"
	RoleReviewer  ConferenceRole = "REVIEWER"
)

// ResearchAreas maps a primary area name to its ordered secondary areas.
type ResearchAreas map[string][]string

type Conference struct {
	ID            string  `json:"id" gorm:"primaryKey;size:36"`
	Title         string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Acronym       string  `json:"acronym" gorm:"not null;size:30;index" validate:"required,min=1,max=30"`
	Description   string  `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`
	Location      string  `json:"location" gorm:"size:200"`
	CallForPapers string  `json:"call_for_papers" gorm:"type:text"`
	WebsiteURL    *string `json:"website_url" gorm:"size:500" validate:"omitempty,url"`

	Status   ConferenceStatus `json:"status" gorm:"default:PENDING;index"`
	IsPublic bool             `json:"is_public" gorm:"default:true"`

	// Deadlines; submission < camera-ready < start < end is enforced at
	// create/update time. The abstract deadline is informational only.
	AbstractDeadline    *time.Time `json:"abstract_deadline"`
	SubmissionDeadline  time.Time  `json:"submission_deadline" gorm:"not null"`
	CameraReadyDeadline time.Time  `json:"camera_ready_deadline" gorm:"not null"`
	StartDate           time.Time  `json:"start_date" gorm:"not null"`
	EndDate             time.Time  `json:"end_date" gorm:"not null"`

	ResearchAreas datatypes.JSONType[ResearchAreas] `json:"research_areas" gorm:"type:jsonb"`

	// Metadata
	CreatedByID string         `json:"created_by_id" gorm:"not null;index;size:255"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	CreatedBy   User                  `json:"created_by" gorm:"foreignKey:CreatedByID"`
	Roles       []ConferenceRoleEntry `json:"roles,omitempty" gorm:"foreignKey:ConferenceID"`
	Submissions []Submission          `json:"submissions,omitempty" gorm:"foreignKey:ConferenceID"`

	// Computed fields (not stored)
	SubmissionCount int `json:"submission_count" gorm:"-"`
	ParticipantCount int `json:"participant_count" gorm:"-"`
}

func (c *Conference) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// HasAreaPair reports whether (primary, secondary) is a member pair of the
// conference's research area taxonomy.
func (c *Conference) HasAreaPair(primary, secondary string) bool {
	secondaries, ok := c.ResearchAreas.Data()[primary]
	if !ok {
		return false
	}
	for _, s := range secondaries {
		if s == secondary {
			return true
		}
	}
	return false
}

// PrimaryAreas returns the primary area names for error messages.
func (c *Conference) PrimaryAreas() []string {
	areas := make([]string, 0, len(c.ResearchAreas.Data()))
	for name := range c.ResearchAreas.Data() {
		areas = append(areas, name)
	}
	return areas
}

// ConferenceRoleEntry is a (user, conference, role) grant. The same user may
// hold several distinct roles in one conference; the unique index only
// prevents duplicate grants of the same role.
type ConferenceRoleEntry struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	UserID       string         `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_conference_role_grant,priority:1"`
	ConferenceID string         `json:"conference_id" gorm:"not null;size:36;uniqueIndex:idx_conference_role_grant,priority:2"`
	Role         ConferenceRole `json:"role" gorm:"not null;size:20;uniqueIndex:idx_conference_role_grant,priority:3"`

	CreatedAt time.Time `json:"created_at"`

	User       User       `json:"user" gorm:"foreignKey:UserID"`
	Conference Conference `json:"-" gorm:"foreignKey:ConferenceID"`
}

func (e *ConferenceRoleEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (Conference) TableName() string {
	return "conferences"
}

func (ConferenceRoleEntry) TableName() string {
	return "conference_roles"
}
