package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionDraft       SubmissionStatus = "DRAFT"
	SubmissionUnderReview SubmissionStatus = "UNDER_REVIEW"
	SubmissionAccepted    SubmissionStatus = "ACCEPTED"
	SubmissionRejected    SubmissionStatus = "REJECTED"
	SubmissionRevision    SubmissionStatus = "REVISION"
	SubmissionRefused     SubmissionStatus = "REFUSED"
)

type Submission struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	Title    string `json:"title" gorm:"not null;size:300;index" validate:"required,min=1,max=300"`
	Abstract string `json:"abstract" gorm:"type:text;not null" validate:"required,min=1,max=10000"`

	// Both must name a pair from the owning conference's research areas.
	PrimaryArea   string `json:"primary_area" gorm:"not null;size:200"`
	SecondaryArea string `json:"secondary_area" gorm:"not null;size:200"`

	Keywords datatypes.JSONSlice[string] `json:"keywords" gorm:"type:jsonb"`

	FileURL  string `json:"file_url" gorm:"size:500"`
	FileName string `json:"file_name" gorm:"size:255"`

	Status SubmissionStatus `json:"status" gorm:"default:UNDER_REVIEW;index"`

	SubmittedByID string `json:"submitted_by_id" gorm:"not null;index;size:255"`
	ConferenceID  string `json:"conference_id" gorm:"not null;index;size:36"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	SubmittedBy User               `json:"submitted_by" gorm:"foreignKey:SubmittedByID"`
	Conference  Conference         `json:"-" gorm:"foreignKey:ConferenceID"`
	Authors     []SubmissionAuthor `json:"authors" gorm:"foreignKey:SubmissionID"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SubmissionAuthor is one author record of a submission. UserID is set when
// the author is a registered account; free-text records leave it nil.
type SubmissionAuthor struct {
	ID           string  `json:"id" gorm:"primaryKey;size:36"`
	SubmissionID string  `json:"submission_id" gorm:"not null;index;size:36"`
	UserID       *string `json:"user_id" gorm:"index;size:255"`

	Name        string `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Email       string `json:"email" gorm:"not null;size:255" validate:"required,email"`
	Affiliation string `json:"affiliation" gorm:"size:200"`
	Country     string `json:"country" gorm:"size:100"`

	// One corresponding author per submission by convention; tracked per row.
	IsCorresponding bool `json:"is_corresponding" gorm:"default:false"`

	// Registration payment for accepted submissions.
	HasPaid bool `json:"has_paid" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (a *SubmissionAuthor) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionAuthor) TableName() string {
	return "submission_authors"
}
